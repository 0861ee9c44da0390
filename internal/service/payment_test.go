package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/service"
)

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: 10, Role: domain.RoleOwner}

	newFixture := func() (*MockPaymentRepo, *MockBookingRepo, *MockVehicleRepo, *MockContractRepo, service.PaymentService) {
		payments := new(MockPaymentRepo)
		bookings := new(MockBookingRepo)
		vehicles := new(MockVehicleRepo)
		contracts := new(MockContractRepo)
		svc := service.NewPaymentService(payments, bookings, vehicles, service.NewRevenueAllocator(contracts), lock.NewMemoryLocker())
		return payments, bookings, vehicles, contracts, svc
	}
	booking := &domain.Booking{
		ID: 7, RenterID: 20, VehicleID: 1, StartAt: at(10), EndAt: at(12),
		Status: domain.BookingStatusActive, PaymentStatus: domain.PaymentStatusUnpaid,
		TotalPrice: dec("30.00"), PaidAmount: decimal.Zero,
	}

	tests := []struct {
		name   string
		amount string
		before string
		sum    string
		status domain.PaymentStatus
	}{
		{"Partial", "10.00", "0", "10.00", domain.PaymentStatusPartial},
		{"Paid In Full", "30.00", "0", "30.00", domain.PaymentStatusPaid},
		{"Overpaid", "20.00", "20.00", "40.00", domain.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments, bookings, vehicles, contracts, svc := newFixture()
			bookings.On("GetByID", ctx, int32(7)).Return(booking, nil)
			vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
			payments.On("SumByBooking", ctx, int32(7)).Return(dec(tt.before), nil)
			contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(shareContract(), nil)
			payments.On("Record", ctx, mock.AnythingOfType("*domain.Payment"), mock.AnythingOfType("*domain.Booking")).
				Run(func(args mock.Arguments) { args.Get(1).(*domain.Payment).ID = 11 }).
				Return(nil)

			p := &domain.Payment{BookingID: 7, Amount: dec(tt.amount), Type: domain.PaymentTypeAdvance, Method: domain.PaymentMethodCash}
			b, err := svc.RecordPayment(ctx, owner, p)
			require.NoError(t, err)
			assert.Equal(t, tt.status, b.PaymentStatus)
			assert.True(t, b.PaidAmount.Equal(dec(tt.sum)))
			assert.True(t, b.TotalPrice.Equal(dec("30.00")))
			assert.True(t, b.OwnerEarned.Equal(dec("24.00")))
			require.NotNil(t, p.CreatedBy)
			assert.Equal(t, int32(10), *p.CreatedBy)
			assert.Equal(t, int32(11), p.ID)
			payments.AssertExpectations(t)
			bookings.AssertNotCalled(t, "UpdateExclusive", mock.Anything, mock.Anything)
		})
	}

	t.Run("Store Failure Leaves Booking Untouched", func(t *testing.T) {
		payments, bookings, vehicles, contracts, svc := newFixture()
		bookings.On("GetByID", ctx, int32(7)).Return(booking, nil)
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
		payments.On("SumByBooking", ctx, int32(7)).Return(decimal.Zero, nil)
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(shareContract(), nil)
		payments.On("Record", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := svc.RecordPayment(ctx, owner, &domain.Payment{BookingID: 7, Amount: dec("10"), Type: domain.PaymentTypeAdvance, Method: domain.PaymentMethodCash})
		assert.Error(t, err)
		bookings.AssertNotCalled(t, "UpdateExclusive", mock.Anything, mock.Anything)
	})

	t.Run("Expired Contract Keeps Owner Share", func(t *testing.T) {
		payments, bookings, vehicles, contracts, svc := newFixture()
		expired := shareContract()
		mar31 := at(0).AddDate(0, 0, 21)
		expired.EndDate = &mar31
		expired.IsActive = false
		bookings.On("GetByID", ctx, int32(7)).Return(booking, nil)
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
		payments.On("SumByBooking", ctx, int32(7)).Return(decimal.Zero, nil)
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(expired, nil)
		payments.On("Record", ctx, mock.Anything, mock.Anything).Return(nil)

		b, err := svc.RecordPayment(ctx, owner, &domain.Payment{BookingID: 7, Amount: dec("30"), Type: domain.PaymentTypeFinal, Method: domain.PaymentMethodCard})
		require.NoError(t, err)
		assert.True(t, b.OwnerEarned.Equal(dec("24.00")))
		assert.True(t, b.CompanyEarned.Equal(dec("6.00")))
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		payments, bookings, _, _, svc := newFixture()
		_, err := svc.RecordPayment(ctx, owner, &domain.Payment{BookingID: 7, Amount: decimal.Zero, Type: domain.PaymentTypeFinal, Method: domain.PaymentMethodCard})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown Method", func(t *testing.T) {
		_, _, _, _, svc := newFixture()
		_, err := svc.RecordPayment(ctx, owner, &domain.Payment{BookingID: 7, Amount: dec("5"), Type: domain.PaymentTypeFinal, Method: "crypto"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Renter Forbidden", func(t *testing.T) {
		payments, bookings, vehicles, _, svc := newFixture()
		bookings.On("GetByID", ctx, int32(7)).Return(booking, nil)
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)

		renter := domain.Actor{UserID: 20, Role: domain.RoleRenter}
		_, err := svc.RecordPayment(ctx, renter, &domain.Payment{BookingID: 7, Amount: dec("5"), Type: domain.PaymentTypeDeposit, Method: domain.PaymentMethodCash})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		payments.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_ListPayments(t *testing.T) {
	ctx := context.Background()
	payments := new(MockPaymentRepo)
	bookings := new(MockBookingRepo)
	vehicles := new(MockVehicleRepo)
	svc := service.NewPaymentService(payments, bookings, vehicles, service.NewRevenueAllocator(new(MockContractRepo)), lock.NewMemoryLocker())

	bookings.On("GetByID", ctx, int32(7)).Return(&domain.Booking{ID: 7, RenterID: 20, VehicleID: 1}, nil)
	vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
	payments.On("ListByBooking", ctx, int32(7)).Return([]domain.Payment{{ID: 1, BookingID: 7, Amount: dec("10")}}, nil)

	list, err := svc.ListPayments(ctx, domain.Actor{UserID: 20, Role: domain.RoleRenter}, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListPayments(ctx, domain.Actor{UserID: 10, Role: domain.RoleOwner}, 7)
	assert.NoError(t, err)

	_, err = svc.ListPayments(ctx, domain.Actor{UserID: 55, Role: domain.RoleRenter}, 7)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
