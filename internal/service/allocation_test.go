package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
	"carrental-backend/internal/utils"
)

func TestRevenueAllocator_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("Share Contract", func(t *testing.T) {
		contracts := new(MockContractRepo)
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(shareContract(), nil)

		a := service.NewRevenueAllocator(contracts).Allocate(ctx, 1, at(10), at(12), dec("100.00"))
		assert.Equal(t, utils.AllocationAllocated, a.Outcome)
		assert.True(t, a.OwnerEarned.Equal(dec("80.00")))
		assert.True(t, a.CompanyEarned.Equal(dec("20.00")))
		require.NotNil(t, a.ContractID)
		assert.Equal(t, int32(3), *a.ContractID)
	})

	t.Run("Fixed Payout Above Total", func(t *testing.T) {
		contracts := new(MockContractRepo)
		fixed := shareContract()
		fixed.PricingType = domain.PricingTypeFixed
		fixed.FixedPayoutAmount = decimal.NewNullDecimal(dec("150.00"))
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(fixed, nil)

		a := service.NewRevenueAllocator(contracts).Allocate(ctx, 1, at(10), at(12), dec("100.00"))
		assert.True(t, a.Negative())
		assert.True(t, a.CompanyEarned.Equal(dec("-50.00")))
	})

	t.Run("No Contract", func(t *testing.T) {
		contracts := new(MockContractRepo)
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(nil, nil)

		a := service.NewRevenueAllocator(contracts).Allocate(ctx, 1, at(10), at(12), dec("100.00"))
		assert.Equal(t, utils.AllocationNoContractFallback, a.Outcome)
		assert.True(t, a.OwnerEarned.IsZero())
		assert.True(t, a.CompanyEarned.Equal(dec("100.00")))
	})

	t.Run("Lookup Error Falls Back", func(t *testing.T) {
		contracts := new(MockContractRepo)
		contracts.On("FindInForce", ctx, int32(1), at(10), at(12)).Return(nil, errors.New("timeout"))

		a := service.NewRevenueAllocator(contracts).Allocate(ctx, 1, at(10), at(12), dec("100.00"))
		assert.Equal(t, utils.AllocationError, a.Outcome)
		assert.Error(t, a.Err)
		assert.True(t, a.CompanyEarned.Equal(dec("100.00")))
	})
}
