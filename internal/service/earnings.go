package service

import (
	"context"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type earningsService struct {
	earningsRepo repository.EarningsRepository
	vehicleRepo  repository.VehicleRepository
}

func NewEarningsService(earningsRepo repository.EarningsRepository, vehicleRepo repository.VehicleRepository) EarningsService {
	return &earningsService{
		earningsRepo: earningsRepo,
		vehicleRepo:  vehicleRepo,
	}
}

func (s *earningsService) GetVehicleEarnings(ctx context.Context, actor domain.Actor, vehicleID int32, from, to *time.Time) (*domain.VehicleEarnings, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !canManageVehicle(actor, v) {
		return nil, fmt.Errorf("%w: earnings of vehicle %d", domain.ErrForbidden, vehicleID)
	}
	return s.earningsRepo.VehicleEarnings(ctx, vehicleID, from, to)
}

func (s *earningsService) GetOwnerEarnings(ctx context.Context, actor domain.Actor, ownerID int32, from, to *time.Time) (*domain.OwnerEarnings, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != ownerID {
		return nil, fmt.Errorf("%w: earnings of owner %d", domain.ErrForbidden, ownerID)
	}
	return s.earningsRepo.OwnerEarnings(ctx, ownerID, from, to)
}

func (s *earningsService) GetCompanyEarnings(ctx context.Context, from, to *time.Time) (*domain.CompanyEarnings, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.earningsRepo.CompanyEarnings(ctx, from, to)
}

func checkRange(from, to *time.Time) error {
	if from != nil && to != nil && !to.After(*from) {
		return fmt.Errorf("%w: date range end must be after its start", domain.ErrInvalidInput)
	}
	return nil
}
