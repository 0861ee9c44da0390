package utils

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
)

type AllocationOutcome string

const (
	AllocationAllocated          AllocationOutcome = "allocated"
	AllocationNoContractFallback AllocationOutcome = "no_contract_fallback"
	AllocationError              AllocationOutcome = "allocation_error"
)

var hundred = decimal.NewFromInt(100)

// Allocation is the owner/company split of a booking total.
// For AllocationError, Err holds the cause and the split is the
// all-to-company fallback.
type Allocation struct {
	Outcome       AllocationOutcome
	OwnerEarned   decimal.Decimal
	CompanyEarned decimal.Decimal
	ContractID    *int32
	Err           error
}

// Negative reports a fixed payout larger than the booking total.
func (a Allocation) Negative() bool {
	return a.CompanyEarned.IsNegative()
}

// NoContractAllocation gives the whole total to the company.
func NoContractAllocation(total decimal.Decimal) Allocation {
	return Allocation{
		Outcome:       AllocationNoContractFallback,
		OwnerEarned:   decimal.Zero,
		CompanyEarned: total,
	}
}

// FailedAllocation keeps the all-to-company split but records why.
func FailedAllocation(total decimal.Decimal, err error) Allocation {
	a := NoContractAllocation(total)
	a.Outcome = AllocationError
	a.Err = err
	return a
}

// AllocateRevenue splits total according to contract. A nil contract
// means none is in force.
//
// Share splits round the owner part half away from zero to 2 decimal
// places and give the remainder to the company, so the parts always sum
// to total exactly. Fixed payouts are not clamped.
func AllocateRevenue(total decimal.Decimal, contract *domain.Contract) Allocation {
	if contract == nil {
		return NoContractAllocation(total)
	}
	id := contract.ID

	switch contract.PricingType {
	case domain.PricingTypeShare:
		if !contract.OwnerSharePercent.Valid || !contract.CompanySharePercent.Valid {
			return FailedAllocation(total, fmt.Errorf("%w: contract %d has no share percentages", domain.ErrContractValidation, id))
		}
		owner := total.Mul(contract.OwnerSharePercent.Decimal).Div(hundred).Round(2)
		return Allocation{
			Outcome:       AllocationAllocated,
			OwnerEarned:   owner,
			CompanyEarned: total.Sub(owner),
			ContractID:    &id,
		}
	case domain.PricingTypeFixed:
		owner := decimal.Zero
		if contract.FixedPayoutAmount.Valid {
			owner = contract.FixedPayoutAmount.Decimal
		}
		return Allocation{
			Outcome:       AllocationAllocated,
			OwnerEarned:   owner,
			CompanyEarned: total.Sub(owner),
			ContractID:    &id,
		}
	default:
		return FailedAllocation(total, errors.New("unknown pricing type "+string(contract.PricingType)))
	}
}
