package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"carrental-backend/internal/domain"
)

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Services mutate the vehicle they read; hand out a copy.
	v := *args.Get(0).(*domain.Vehicle)
	return &v, args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListAvailable(ctx context.Context, startAt, endAt time.Time) ([]domain.Vehicle, error) {
	args := m.Called(ctx, startAt, endAt)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListStatusDrift(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	c := *args.Get(0).(*domain.Contract)
	return &c, args.Error(1)
}
func (m *MockContractRepo) Update(ctx context.Context, c *domain.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContractRepo) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Contract, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Contract), args.Error(1)
}
func (m *MockContractRepo) FindInForce(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (*domain.Contract, error) {
	args := m.Called(ctx, vehicleID, startAt, endAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) HasActive(ctx context.Context, vehicleID int32) (bool, error) {
	args := m.Called(ctx, vehicleID)
	return args.Bool(0), args.Error(1)
}
func (m *MockContractRepo) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	b := *args.Get(0).(*domain.Booking)
	return &b, args.Error(1)
}
func (m *MockBookingRepo) FindConflicts(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID, startAt, endAt, excludeID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CreateExclusive(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) UpdateExclusive(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) CountActiveByVehicle(ctx context.Context, vehicleID int32, excludeID int32) (int32, error) {
	args := m.Called(ctx, vehicleID, excludeID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Record(ctx context.Context, p *domain.Payment, b *domain.Booking) error {
	args := m.Called(ctx, p, b)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) SumByBooking(ctx context.Context, bookingID int32) (decimal.Decimal, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemSettings), args.Error(1)
}
func (m *MockSettingsRepo) Save(ctx context.Context, s *domain.SystemSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockEarningsRepo
type MockEarningsRepo struct {
	mock.Mock
}

func (m *MockEarningsRepo) VehicleEarnings(ctx context.Context, vehicleID int32, from, to *time.Time) (*domain.VehicleEarnings, error) {
	args := m.Called(ctx, vehicleID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleEarnings), args.Error(1)
}
func (m *MockEarningsRepo) OwnerEarnings(ctx context.Context, ownerID int32, from, to *time.Time) (*domain.OwnerEarnings, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerEarnings), args.Error(1)
}
func (m *MockEarningsRepo) CompanyEarnings(ctx context.Context, from, to *time.Time) (*domain.CompanyEarnings, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyEarnings), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingCreated(ctx context.Context, b *domain.Booking, v *domain.Vehicle) error {
	args := m.Called(ctx, b, v)
	return args.Error(0)
}
func (m *MockNotifier) BookingStatusChanged(ctx context.Context, b *domain.Booking, v *domain.Vehicle, previous domain.BookingStatus) error {
	args := m.Called(ctx, b, v, previous)
	return args.Error(0)
}

// MockSettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (domain.SystemSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SystemSettings), args.Error(1)
}
func (m *MockSettingsService) UpdateSettings(ctx context.Context, s domain.SystemSettings) (domain.SystemSettings, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.SystemSettings), args.Error(1)
}
