package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type vehicleService struct {
	vehicleRepo  repository.VehicleRepository
	contractRepo repository.ContractRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, contractRepo repository.ContractRepository) VehicleService {
	return &vehicleService{
		vehicleRepo:  vehicleRepo,
		contractRepo: contractRepo,
	}
}

func (s *vehicleService) CreateVehicle(ctx context.Context, actor domain.Actor, v *domain.Vehicle) error {
	if !actor.IsAdmin() || v.OwnerID == 0 {
		v.OwnerID = actor.UserID
	}
	if err := normalizeVehicle(v); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusInactive
	}
	return s.vehicleRepo.Create(ctx, v)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// UpdateVehicle applies owner-editable fields. Status is left alone here
// apart from the inactive -> available promotion.
func (s *vehicleService) UpdateVehicle(ctx context.Context, actor domain.Actor, in *domain.Vehicle) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !canManageVehicle(actor, v) {
		return nil, fmt.Errorf("%w: vehicle %d belongs to another owner", domain.ErrForbidden, v.ID)
	}

	v.Name = in.Name
	v.Make = in.Make
	v.Model = in.Model
	v.Year = in.Year
	v.PlateNumber = in.PlateNumber
	v.DailyPrice = in.DailyPrice
	v.HourlyPrice = in.HourlyPrice
	if err := normalizeVehicle(v); err != nil {
		return nil, err
	}
	if err := promoteIfReady(ctx, s.contractRepo, v); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) UpdateVehicleStatus(ctx context.Context, actor domain.Actor, id int32, status domain.VehicleStatus) (*domain.Vehicle, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle status %q", domain.ErrInvalidInput, status)
	}
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageVehicle(actor, v) {
		return nil, fmt.Errorf("%w: vehicle %d belongs to another owner", domain.ErrForbidden, v.ID)
	}
	if err := s.vehicleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	v.Status = status
	return v, nil
}

func (s *vehicleService) ListOwnerVehicles(ctx context.Context, actor domain.Actor, ownerID int32) ([]domain.Vehicle, error) {
	if !actor.IsAdmin() && actor.UserID != ownerID {
		return nil, fmt.Errorf("%w: cannot list vehicles of owner %d", domain.ErrForbidden, ownerID)
	}
	return s.vehicleRepo.ListByOwner(ctx, ownerID)
}

func canManageVehicle(actor domain.Actor, v *domain.Vehicle) bool {
	return actor.IsAdmin() || actor.UserID == v.OwnerID
}

func normalizeVehicle(v *domain.Vehicle) error {
	plate, err := utils.ParsePlate(v.PlateNumber)
	if err != nil {
		return err
	}
	v.PlateNumber = plate
	if v.DailyPrice.IsNegative() {
		return fmt.Errorf("%w: daily price cannot be negative", domain.ErrInvalidInput)
	}
	if v.HourlyPrice.Valid && v.HourlyPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: hourly price cannot be negative", domain.ErrInvalidInput)
	}
	if v.Status != "" && !v.Status.Valid() {
		return fmt.Errorf("%w: unknown vehicle status %q", domain.ErrInvalidInput, v.Status)
	}
	return nil
}

// promoteIfReady moves an inactive vehicle to available once it has a
// daily price and an active contract. It only changes v in memory.
func promoteIfReady(ctx context.Context, contractRepo repository.ContractRepository, v *domain.Vehicle) error {
	if v.Status != domain.VehicleStatusInactive || !v.DailyPrice.IsPositive() {
		return nil
	}
	active, err := contractRepo.HasActive(ctx, v.ID)
	if err != nil {
		return err
	}
	if active {
		logger.Info("Activating vehicle", "vehicle_id", v.ID, "owner_id", v.OwnerID)
		v.Status = domain.VehicleStatusAvailable
	}
	return nil
}
