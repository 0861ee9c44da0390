package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	UpdateStatus(ctx context.Context, id int32, status domain.VehicleStatus) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error)
	// ListAvailable returns bookable vehicles with no pending/active booking
	// overlapping [startAt, endAt).
	ListAvailable(ctx context.Context, startAt, endAt time.Time) ([]domain.Vehicle, error)
	// ListStatusDrift returns vehicles whose status disagrees with their active bookings.
	ListStatusDrift(ctx context.Context) ([]domain.Vehicle, error)
}

type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	Update(ctx context.Context, c *domain.Contract) error
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Contract, error)
	// FindInForce returns the contract governing a booking interval, or nil.
	// Ties are broken by start_date, created_at and id, newest first.
	FindInForce(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (*domain.Contract, error)
	HasActive(ctx context.Context, vehicleID int32) (bool, error)
	// DeactivateExpired switches off active contracts whose end date is before
	// asOf and marks them expired.
	DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// FindConflicts lists pending/active bookings on the vehicle overlapping
	// [startAt, endAt), skipping excludeID when non-zero.
	FindConflicts(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeID int32) ([]domain.Booking, error)
	// CreateExclusive re-checks conflicts and inserts inside one transaction
	// holding the vehicle row lock.
	CreateExclusive(ctx context.Context, b *domain.Booking) error
	// UpdateExclusive is the update counterpart of CreateExclusive. The
	// conflict re-check only runs when the booking is still blocking.
	UpdateExclusive(ctx context.Context, b *domain.Booking) error
	CountActiveByVehicle(ctx context.Context, vehicleID int32, excludeID int32) (int32, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error)
}

type PaymentRepository interface {
	// Record inserts p and writes the booking's derived payment and revenue
	// columns in one transaction.
	Record(ctx context.Context, p *domain.Payment, b *domain.Booking) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error)
	SumByBooking(ctx context.Context, bookingID int32) (decimal.Decimal, error)
}

type SettingsRepository interface {
	// Get returns the current settings, or domain.ErrNotFound when none exist yet.
	Get(ctx context.Context) (*domain.SystemSettings, error)
	// Save upserts the single settings record.
	Save(ctx context.Context, s *domain.SystemSettings) error
}

type EarningsRepository interface {
	VehicleEarnings(ctx context.Context, vehicleID int32, from, to *time.Time) (*domain.VehicleEarnings, error)
	OwnerEarnings(ctx context.Context, ownerID int32, from, to *time.Time) (*domain.OwnerEarnings, error)
	CompanyEarnings(ctx context.Context, from, to *time.Time) (*domain.CompanyEarnings, error)
}
