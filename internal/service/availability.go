package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type availabilityService struct {
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
}

func NewAvailabilityService(vehicleRepo repository.VehicleRepository, bookingRepo repository.BookingRepository) AvailabilityService {
	return &availabilityService{
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, v *domain.Vehicle, startAt, endAt time.Time, excludeBookingID int32) error {
	if _, err := utils.DurationHours(startAt, endAt); err != nil {
		return err
	}
	if !v.Bookable() {
		return fmt.Errorf("%w: vehicle %d is %s with daily price %s",
			domain.ErrVehicleUnavailable, v.ID, v.Status, v.DailyPrice.StringFixed(2))
	}

	conflicts, err := s.bookingRepo.FindConflicts(ctx, v.ID, startAt, endAt, excludeBookingID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		ids := make([]int32, len(conflicts))
		for i, b := range conflicts {
			ids[i] = b.ID
		}
		return &domain.TimeConflictError{VehicleID: v.ID, BookingIDs: ids}
	}
	return nil
}

func (s *availabilityService) IsAvailable(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeBookingID int32) (bool, error) {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	err = s.CheckAvailability(ctx, v, startAt, endAt, excludeBookingID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrVehicleUnavailable), errors.Is(err, domain.ErrTimeConflict):
		return false, nil
	default:
		return false, err
	}
}

func (s *availabilityService) FindConflicts(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeBookingID int32) ([]domain.Booking, error) {
	if _, err := utils.DurationHours(startAt, endAt); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindConflicts(ctx, vehicleID, startAt, endAt, excludeBookingID)
}

func (s *availabilityService) GetAvailableVehicles(ctx context.Context, startAt, endAt time.Time) ([]domain.Vehicle, error) {
	if _, err := utils.DurationHours(startAt, endAt); err != nil {
		return nil, err
	}
	return s.vehicleRepo.ListAvailable(ctx, startAt.UTC(), endAt.UTC())
}
