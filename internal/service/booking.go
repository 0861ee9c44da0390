package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type bookingService struct {
	vehicleRepo  repository.VehicleRepository
	bookingRepo  repository.BookingRepository
	availability AvailabilityService
	allocator    RevenueAllocator
	settingsSvc  SettingsService
	locker       lock.VehicleLocker
	notifier     Notifier
}

func NewBookingService(
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	availability AvailabilityService,
	allocator RevenueAllocator,
	settingsSvc SettingsService,
	locker lock.VehicleLocker,
	notifier Notifier,
) BookingService {
	return &bookingService{
		vehicleRepo:  vehicleRepo,
		bookingRepo:  bookingRepo,
		availability: availability,
		allocator:    allocator,
		settingsSvc:  settingsSvc,
		locker:       locker,
		notifier:     notifier,
	}
}

func (s *bookingService) QuoteBooking(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (*domain.BookingQuote, error) {
	startAt, endAt = startAt.UTC(), endAt.UTC()
	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !v.Bookable() {
		return nil, fmt.Errorf("%w: vehicle %d is %s", domain.ErrVehicleUnavailable, v.ID, v.Status)
	}

	breakdown, err := utils.CalculatePriceBreakdown(v.RateCard(), startAt, endAt)
	if err != nil {
		return nil, err
	}
	if err := checkMinimumDuration(breakdown.DurationHours, settings); err != nil {
		return nil, err
	}
	alloc := s.allocator.Allocate(ctx, v.ID, startAt, endAt, breakdown.Total)

	return &domain.BookingQuote{
		VehicleID:     v.ID,
		StartAt:       startAt,
		EndAt:         endAt,
		DurationHours: breakdown.DurationHours,
		DurationDays:  breakdown.DurationDays,
		HourlyRate:    breakdown.HourlyRate,
		TotalPrice:    breakdown.Total,
		OwnerEarned:   alloc.OwnerEarned,
		CompanyEarned: alloc.CompanyEarned,
		ContractID:    alloc.ContractID,
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req BookingRequest) (*domain.Booking, error) {
	const method = "BookingService.CreateBooking"
	logger.EnterMethod(method, "vehicle_id", req.VehicleID, "renter_id", req.RenterID)

	if req.DepositAmount.IsNegative() {
		return nil, s.fail(method, fmt.Errorf("%w: deposit amount cannot be negative", domain.ErrInvalidInput))
	}
	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, s.fail(method, err)
	}

	unlock, err := s.locker.Lock(ctx, req.VehicleID)
	if err != nil {
		return nil, s.fail(method, err)
	}
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, s.fail(method, err)
	}

	b := &domain.Booking{
		RenterID:      req.RenterID,
		VehicleID:     v.ID,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		Status:        domain.BookingStatusPending,
		PaidAmount:    decimal.Zero,
		DepositAmount: req.DepositAmount,
	}
	if err := s.availability.CheckAvailability(ctx, v, b.StartAt, b.EndAt, 0); err != nil {
		return nil, s.fail(method, err)
	}
	breakdown, err := s.derive(ctx, v, b)
	if err != nil {
		return nil, s.fail(method, err)
	}
	if err := checkMinimumDuration(breakdown.DurationHours, settings); err != nil {
		return nil, s.fail(method, err)
	}

	if err := s.bookingRepo.CreateExclusive(ctx, b); err != nil {
		return nil, s.fail(method, err)
	}
	logger.Info("Booking created", "booking_id", b.ID, "vehicle_id", b.VehicleID,
		"total_price", b.TotalPrice.StringFixed(2), "owner_earned", b.OwnerEarned.StringFixed(2))

	if err := s.notifier.BookingCreated(ctx, b, v); err != nil {
		logger.Warn("Failed to send booking created notification", "booking_id", b.ID, "error", err)
	}
	logger.ExitMethod(method, "booking_id", b.ID)
	return b, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, id int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.UserID == b.RenterID {
		return b, nil
	}
	v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != v.OwnerID {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrForbidden, id)
	}
	return b, nil
}

func (s *bookingService) UpdateBookingSchedule(ctx context.Context, actor domain.Actor, id int32, startAt, endAt time.Time) (*domain.Booking, error) {
	const method = "BookingService.UpdateBookingSchedule"
	logger.EnterMethod(method, "booking_id", id)

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, s.fail(method, err)
	}
	b, unlock, err := s.lockBooking(ctx, id)
	if err != nil {
		return nil, s.fail(method, err)
	}
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return nil, s.fail(method, err)
	}
	ownRequest := actor.UserID == b.RenterID && b.Status == domain.BookingStatusPending
	if !canManageVehicle(actor, v) && !ownRequest {
		return nil, s.fail(method, fmt.Errorf("%w: cannot reschedule booking %d", domain.ErrForbidden, id))
	}
	if !b.Status.Blocking() {
		return nil, s.fail(method, fmt.Errorf("%w: booking %d is already %s", domain.ErrInvalidInput, id, b.Status))
	}

	b.StartAt, b.EndAt = startAt.UTC(), endAt.UTC()
	// An active booking is what keeps the vehicle rented, so only the
	// calendar is checked for it. UpdateExclusive re-checks it regardless.
	if b.Status == domain.BookingStatusActive && v.Status == domain.VehicleStatusRented {
		if _, err := utils.DurationHours(b.StartAt, b.EndAt); err != nil {
			return nil, s.fail(method, err)
		}
	} else if err := s.availability.CheckAvailability(ctx, v, b.StartAt, b.EndAt, b.ID); err != nil {
		return nil, s.fail(method, err)
	}

	breakdown, err := s.derive(ctx, v, b)
	if err != nil {
		return nil, s.fail(method, err)
	}
	if err := checkMinimumDuration(breakdown.DurationHours, settings); err != nil {
		return nil, s.fail(method, err)
	}
	if err := s.bookingRepo.UpdateExclusive(ctx, b); err != nil {
		return nil, s.fail(method, err)
	}
	logger.ExitMethod(method, "booking_id", b.ID, "total_price", b.TotalPrice.StringFixed(2))
	return b, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, actor domain.Actor, id int32, status domain.BookingStatus) (*domain.Booking, error) {
	const method = "BookingService.UpdateBookingStatus"
	logger.EnterMethod(method, "booking_id", id, "status", status)

	if !status.Valid() {
		return nil, s.fail(method, fmt.Errorf("%w: unknown booking status %q", domain.ErrInvalidInput, status))
	}
	b, unlock, err := s.lockBooking(ctx, id)
	if err != nil {
		return nil, s.fail(method, err)
	}
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return nil, s.fail(method, err)
	}
	if err := authorizeStatusChange(actor, b, v, status); err != nil {
		return nil, s.fail(method, err)
	}

	previous := b.Status
	if previous == status {
		return b, nil
	}

	// Any status may follow any other. Reopening into pending or active
	// goes through the conflict re-check in UpdateExclusive.
	b.Status = status
	if _, err := s.derive(ctx, v, b); err != nil {
		return nil, s.fail(method, err)
	}
	if err := s.bookingRepo.UpdateExclusive(ctx, b); err != nil {
		return nil, s.fail(method, err)
	}
	logger.Info("Booking status changed", "booking_id", b.ID, "from", previous, "to", b.Status, "actor_id", actor.UserID)

	s.syncVehicleStatus(ctx, v, b)
	if err := s.notifier.BookingStatusChanged(ctx, b, v, previous); err != nil {
		logger.Warn("Failed to send booking status notification", "booking_id", b.ID, "error", err)
	}
	logger.ExitMethod(method, "booking_id", b.ID)
	return b, nil
}

// lockBooking takes the lock of the booking's vehicle and re-reads the
// booking under it. The caller must call unlock.
func (s *bookingService) lockBooking(ctx context.Context, id int32) (*domain.Booking, func(), error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	unlock, err := s.locker.Lock(ctx, b.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	b, err = s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return b, unlock, nil
}

// derive recomputes the price, the owner/company split and the payment
// status of b. Allocation problems never fail the save.
func (s *bookingService) derive(ctx context.Context, v *domain.Vehicle, b *domain.Booking) (utils.PriceBreakdown, error) {
	breakdown, err := utils.CalculatePriceBreakdown(v.RateCard(), b.StartAt, b.EndAt)
	if err != nil {
		return breakdown, err
	}
	alloc := s.allocator.Allocate(ctx, v.ID, b.StartAt, b.EndAt, breakdown.Total)

	b.TotalPrice = breakdown.Total
	b.OwnerEarned = alloc.OwnerEarned
	b.CompanyEarned = alloc.CompanyEarned
	b.PaymentStatus = utils.DerivePaymentStatus(b.PaidAmount, b.TotalPrice)
	return breakdown, nil
}

// syncVehicleStatus mirrors a booking transition onto the vehicle. The
// booking is already stored, so failures are logged and left to the
// reconcile job.
func (s *bookingService) syncVehicleStatus(ctx context.Context, v *domain.Vehicle, b *domain.Booking) {
	var next domain.VehicleStatus
	switch b.Status {
	case domain.BookingStatusActive:
		if v.Status == domain.VehicleStatusRented {
			return
		}
		next = domain.VehicleStatusRented
	case domain.BookingStatusCompleted, domain.BookingStatusCancelled:
		if v.Status == domain.VehicleStatusAvailable {
			return
		}
		others, err := s.bookingRepo.CountActiveByVehicle(ctx, v.ID, b.ID)
		if err != nil {
			logger.Error("Failed to count active bookings", "vehicle_id", v.ID, "error", err)
			return
		}
		if others > 0 {
			return
		}
		next = domain.VehicleStatusAvailable
	default:
		return
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, v.ID, next); err != nil {
		logger.Error("Failed to update vehicle status", "vehicle_id", v.ID, "status", next, "error", err)
		return
	}
	logger.Info("Vehicle status changed", "vehicle_id", v.ID, "from", v.Status, "to", next, "booking_id", b.ID)
	v.Status = next
}

func (s *bookingService) fail(method string, err error) error {
	logger.ExitMethodWithError(method, err, isRejection(err))
	return err
}

func authorizeStatusChange(actor domain.Actor, b *domain.Booking, v *domain.Vehicle, status domain.BookingStatus) error {
	if canManageVehicle(actor, v) {
		return nil
	}
	if actor.UserID == b.RenterID && status == domain.BookingStatusCancelled {
		return nil
	}
	return fmt.Errorf("%w: cannot set booking %d to %s", domain.ErrForbidden, b.ID, status)
}

func checkMinimumDuration(hours int64, settings domain.SystemSettings) error {
	if hours < int64(settings.MinRenterRentalHours) {
		return fmt.Errorf("%w: %d hours, minimum is %d", domain.ErrMinimumDuration, hours, settings.MinRenterRentalHours)
	}
	return nil
}

func isRejection(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidDuration, domain.ErrTimeConflict, domain.ErrVehicleUnavailable,
		domain.ErrMinimumDuration, domain.ErrContractValidation, domain.ErrPlateFormat,
		domain.ErrNotFound, domain.ErrForbidden, domain.ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
