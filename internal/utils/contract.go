package utils

import (
	"fmt"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
)

// PrepareContract fills share defaults from settings and validates the
// contract terms. It mutates c only when validation succeeds.
func PrepareContract(c *domain.Contract, settings domain.SystemSettings) error {
	if c.EndDate != nil && !domain.DateOf(*c.EndDate).After(domain.DateOf(c.StartDate)) {
		return fmt.Errorf("%w: end date must be after start date", domain.ErrContractValidation)
	}

	ownerPct, companyPct := c.OwnerSharePercent, c.CompanySharePercent
	switch c.PricingType {
	case domain.PricingTypeShare:
		if !ownerPct.Valid || !companyPct.Valid {
			ownerPct = decimal.NewNullDecimal(settings.DefaultOwnerSharePercent)
			companyPct = decimal.NewNullDecimal(settings.DefaultCompanySharePercent)
		}
		if ownerPct.Decimal.IsNegative() || companyPct.Decimal.IsNegative() {
			return fmt.Errorf("%w: share percentages cannot be negative", domain.ErrContractValidation)
		}
		if !ownerPct.Decimal.Add(companyPct.Decimal).Equal(hundred) {
			return fmt.Errorf("%w: owner and company share percentages must sum to 100, got %s + %s",
				domain.ErrContractValidation, ownerPct.Decimal.StringFixed(2), companyPct.Decimal.StringFixed(2))
		}
	case domain.PricingTypeFixed:
		if !c.FixedPayoutAmount.Valid || !c.FixedPayoutAmount.Decimal.IsPositive() {
			return fmt.Errorf("%w: fixed payout amount is required for fixed pricing", domain.ErrContractValidation)
		}
	default:
		return fmt.Errorf("%w: unknown pricing type %q", domain.ErrContractValidation, c.PricingType)
	}

	if c.EnforceMinRentalDays && c.EndDate != nil {
		minDays := int64(settings.MinOwnerRentalDays)
		if c.MinRentalDays != nil {
			minDays = int64(*c.MinRentalDays)
		}
		termDays := int64(domain.DateOf(*c.EndDate).Sub(domain.DateOf(c.StartDate)).Hours() / hoursPerDay)
		if termDays < minDays {
			return fmt.Errorf("%w: contract term is %d days, minimum is %d", domain.ErrContractValidation, termDays, minDays)
		}
	}

	c.OwnerSharePercent, c.CompanySharePercent = ownerPct, companyPct
	if c.PricingType == domain.PricingTypeFixed {
		c.OwnerSharePercent = decimal.NullDecimal{}
		c.CompanySharePercent = decimal.NullDecimal{}
	} else {
		c.FixedPayoutAmount = decimal.NullDecimal{}
	}
	return nil
}
