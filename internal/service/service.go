package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/utils"
)

type VehicleService interface {
	CreateVehicle(ctx context.Context, actor domain.Actor, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor domain.Actor, v *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicleStatus(ctx context.Context, actor domain.Actor, id int32, status domain.VehicleStatus) (*domain.Vehicle, error)
	ListOwnerVehicles(ctx context.Context, actor domain.Actor, ownerID int32) ([]domain.Vehicle, error)
}

// AvailabilityService answers calendar questions about vehicles.
type AvailabilityService interface {
	// CheckAvailability returns ErrVehicleUnavailable or a *domain.TimeConflictError
	// when the vehicle cannot take [startAt, endAt). excludeBookingID is ignored
	// when zero.
	CheckAvailability(ctx context.Context, v *domain.Vehicle, startAt, endAt time.Time, excludeBookingID int32) error
	IsAvailable(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeBookingID int32) (bool, error)
	FindConflicts(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeBookingID int32) ([]domain.Booking, error)
	GetAvailableVehicles(ctx context.Context, startAt, endAt time.Time) ([]domain.Vehicle, error)
}

// RevenueAllocator splits a booking total between owner and company.
// It never fails; lookup errors come back as an AllocationError outcome.
type RevenueAllocator interface {
	Allocate(ctx context.Context, vehicleID int32, startAt, endAt time.Time, total decimal.Decimal) utils.Allocation
}

type ContractService interface {
	CreateContract(ctx context.Context, c *domain.Contract) error
	GetContract(ctx context.Context, id int32) (*domain.Contract, error)
	ListContracts(ctx context.Context, vehicleID int32) ([]domain.Contract, error)
	ToggleContract(ctx context.Context, id int32) (*domain.Contract, error)
}

type BookingRequest struct {
	RenterID      int32
	VehicleID     int32
	StartAt       time.Time
	EndAt         time.Time
	DepositAmount decimal.Decimal
}

type BookingService interface {
	QuoteBooking(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (*domain.BookingQuote, error)
	CreateBooking(ctx context.Context, req BookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, id int32) (*domain.Booking, error)
	UpdateBookingSchedule(ctx context.Context, actor domain.Actor, id int32, startAt, endAt time.Time) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, actor domain.Actor, id int32, status domain.BookingStatus) (*domain.Booking, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, actor domain.Actor, p *domain.Payment) (*domain.Booking, error)
	ListPayments(ctx context.Context, actor domain.Actor, bookingID int32) ([]domain.Payment, error)
}

type SettingsService interface {
	// GetSettings returns a snapshot of the settings record, creating it from
	// the configured defaults on first use.
	GetSettings(ctx context.Context) (domain.SystemSettings, error)
	UpdateSettings(ctx context.Context, s domain.SystemSettings) (domain.SystemSettings, error)
}

type EarningsService interface {
	GetVehicleEarnings(ctx context.Context, actor domain.Actor, vehicleID int32, from, to *time.Time) (*domain.VehicleEarnings, error)
	GetOwnerEarnings(ctx context.Context, actor domain.Actor, ownerID int32, from, to *time.Time) (*domain.OwnerEarnings, error)
	GetCompanyEarnings(ctx context.Context, from, to *time.Time) (*domain.CompanyEarnings, error)
}

// Notifier delivers booking events. Delivery failures are logged by the
// caller and never undo the booking change.
type Notifier interface {
	BookingCreated(ctx context.Context, b *domain.Booking, v *domain.Vehicle) error
	BookingStatusChanged(ctx context.Context, b *domain.Booking, v *domain.Vehicle, previous domain.BookingStatus) error
}
