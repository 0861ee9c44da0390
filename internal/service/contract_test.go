package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 0, 0, 0, 0, time.UTC)
}

func TestContractService_CreateContract(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*MockContractRepo, *MockVehicleRepo, service.ContractService) {
		contracts := new(MockContractRepo)
		vehicles := new(MockVehicleRepo)
		settings := new(MockSettingsService)
		settings.On("GetSettings", ctx).Return(domain.DefaultSystemSettings(), nil)
		return contracts, vehicles, service.NewContractService(contracts, vehicles, settings)
	}
	inactive := func() *domain.Vehicle {
		v := testVehicle()
		v.Status = domain.VehicleStatusInactive
		return v
	}

	t.Run("Share Defaults And Vehicle Activation", func(t *testing.T) {
		contracts, vehicles, svc := newFixture()
		vehicles.On("GetByID", ctx, int32(1)).Return(inactive(), nil)
		contracts.On("ListByVehicle", ctx, int32(1)).Return([]domain.Contract{}, nil)
		contracts.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Contract).ID = 3 }).
			Return(nil)
		contracts.On("HasActive", ctx, int32(1)).Return(true, nil)
		vehicles.On("UpdateStatus", ctx, int32(1), domain.VehicleStatusAvailable).Return(nil)

		c := &domain.Contract{
			OwnerID:     10,
			VehicleID:   1,
			StartDate:   time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC),
			PricingType: domain.PricingTypeShare,
			IsActive:    true,
		}
		require.NoError(t, svc.CreateContract(ctx, c))
		assert.Equal(t, int32(3), c.ID)
		assert.Equal(t, day(time.January, 1), c.StartDate)
		assert.True(t, c.OwnerSharePercent.Decimal.Equal(dec("80")))
		assert.True(t, c.CompanySharePercent.Decimal.Equal(dec("20")))
		vehicles.AssertExpectations(t)
	})

	t.Run("Owner Mismatch", func(t *testing.T) {
		contracts, vehicles, svc := newFixture()
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)

		err := svc.CreateContract(ctx, &domain.Contract{OwnerID: 99, VehicleID: 1, StartDate: day(time.January, 1), PricingType: domain.PricingTypeShare})
		assert.ErrorIs(t, err, domain.ErrContractValidation)
		contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Shares Must Sum To 100", func(t *testing.T) {
		contracts, vehicles, svc := newFixture()
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)

		err := svc.CreateContract(ctx, &domain.Contract{
			OwnerID: 10, VehicleID: 1, StartDate: day(time.January, 1), PricingType: domain.PricingTypeShare,
			OwnerSharePercent:   decimal.NewNullDecimal(dec("70")),
			CompanySharePercent: decimal.NewNullDecimal(dec("20")),
		})
		assert.ErrorIs(t, err, domain.ErrContractValidation)
		contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Overlapping Active Contract", func(t *testing.T) {
		contracts, vehicles, svc := newFixture()
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
		contracts.On("ListByVehicle", ctx, int32(1)).Return([]domain.Contract{*shareContract()}, nil)

		end := day(time.June, 30)
		err := svc.CreateContract(ctx, &domain.Contract{
			OwnerID: 10, VehicleID: 1, StartDate: day(time.March, 1), EndDate: &end,
			PricingType: domain.PricingTypeFixed, FixedPayoutAmount: decimal.NewNullDecimal(dec("500")),
			IsActive: true,
		})
		assert.ErrorIs(t, err, domain.ErrContractValidation)
		contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Inactive Contract Skips Overlap Check", func(t *testing.T) {
		contracts, vehicles, svc := newFixture()
		vehicles.On("GetByID", ctx, int32(1)).Return(testVehicle(), nil)
		contracts.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		err := svc.CreateContract(ctx, &domain.Contract{
			OwnerID: 10, VehicleID: 1, StartDate: day(time.March, 1),
			PricingType: domain.PricingTypeFixed, FixedPayoutAmount: decimal.NewNullDecimal(dec("500")),
		})
		require.NoError(t, err)
		contracts.AssertNotCalled(t, "ListByVehicle", mock.Anything, mock.Anything)
		vehicles.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContractService_ToggleContract(t *testing.T) {
	ctx := context.Background()
	contracts := new(MockContractRepo)
	vehicles := new(MockVehicleRepo)
	svc := service.NewContractService(contracts, vehicles, new(MockSettingsService))

	t.Run("Deactivate", func(t *testing.T) {
		contracts.ExpectedCalls = nil
		contracts.On("GetByID", ctx, int32(3)).Return(shareContract(), nil)
		contracts.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		c, err := svc.ToggleContract(ctx, 3)
		require.NoError(t, err)
		assert.False(t, c.IsActive)
	})

	t.Run("Activate Rejected On Overlap", func(t *testing.T) {
		contracts.ExpectedCalls = nil
		off := shareContract()
		off.IsActive = false
		other := shareContract()
		other.ID = 4
		contracts.On("GetByID", ctx, int32(3)).Return(off, nil)
		contracts.On("ListByVehicle", ctx, int32(1)).Return([]domain.Contract{*off, *other}, nil)

		_, err := svc.ToggleContract(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrContractValidation)
	})
}
