package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	allocator   RevenueAllocator
	locker      lock.VehicleLocker
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	allocator RevenueAllocator,
	locker lock.VehicleLocker,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		allocator:   allocator,
		locker:      locker,
	}
}

// RecordPayment appends a payment and re-derives the booking's paid amount,
// payment status and revenue split. The interval is unchanged, so neither
// the minimum duration rule nor the conflict check is re-applied.
func (s *paymentService) RecordPayment(ctx context.Context, actor domain.Actor, p *domain.Payment) (*domain.Booking, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", domain.ErrInvalidInput, p.Type)
	}
	if !p.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, p.Method)
	}

	b, err := s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	unlock, err := s.locker.Lock(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	if !canManageVehicle(actor, v) {
		return nil, fmt.Errorf("%w: cannot record payments for booking %d", domain.ErrForbidden, b.ID)
	}

	// Re-read under the lock; the booking may have changed since the first read.
	b, err = s.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	// Payments are only written under the vehicle lock, so the stored sum
	// plus this amount is the paid amount after the insert.
	paid, err := s.paymentRepo.SumByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	total, err := utils.CalculateBookingPrice(v.RateCard(), b.StartAt, b.EndAt)
	if err != nil {
		return nil, err
	}
	alloc := s.allocator.Allocate(ctx, v.ID, b.StartAt, b.EndAt, total)

	b.TotalPrice = total
	b.OwnerEarned = alloc.OwnerEarned
	b.CompanyEarned = alloc.CompanyEarned
	b.PaidAmount = paid.Add(p.Amount)
	b.PaymentStatus = utils.DerivePaymentStatus(b.PaidAmount, total)

	creator := actor.UserID
	p.CreatedBy = &creator
	if err := s.paymentRepo.Record(ctx, p, b); err != nil {
		return nil, err
	}

	logger.Info("Payment recorded", "payment_id", p.ID, "booking_id", b.ID,
		"amount", p.Amount.StringFixed(2), "paid_amount", b.PaidAmount.StringFixed(2), "payment_status", b.PaymentStatus)
	return b, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor domain.Actor, bookingID int32) ([]domain.Payment, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != b.RenterID {
		v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID)
		if err != nil {
			return nil, err
		}
		if actor.UserID != v.OwnerID {
			return nil, fmt.Errorf("%w: cannot list payments of booking %d", domain.ErrForbidden, bookingID)
		}
	}
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}
