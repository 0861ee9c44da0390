package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PricingType string

const (
	PricingTypeShare PricingType = "share"
	PricingTypeFixed PricingType = "fixed"
)

// Contract binds an owner's vehicle to a revenue policy over a date range.
// EndDate nil means open-ended. Dates are calendar days in UTC.
type Contract struct {
	ID                   int32               `json:"id"`
	OwnerID              int32               `json:"owner_id"`
	VehicleID            int32               `json:"vehicle_id"`
	StartDate            time.Time           `json:"start_date"`
	EndDate              *time.Time          `json:"end_date,omitempty"`
	PricingType          PricingType         `json:"pricing_type"`
	OwnerSharePercent    decimal.NullDecimal `json:"owner_share_percent"`
	CompanySharePercent  decimal.NullDecimal `json:"company_share_percent"`
	FixedPayoutAmount    decimal.NullDecimal `json:"fixed_payout_amount"`
	MinRentalDays        *int32              `json:"min_rental_days,omitempty"`
	EnforceMinRentalDays bool                `json:"enforce_min_rental_days"`
	IsActive             bool                `json:"is_active"`
	Notes                string              `json:"notes"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// Covers reports whether the contract is in force for the whole [start, end] day span.
func (c *Contract) Covers(start, end time.Time) bool {
	if !c.IsActive {
		return false
	}
	if DateOf(c.StartDate).After(DateOf(start)) {
		return false
	}
	return c.EndDate == nil || !DateOf(*c.EndDate).Before(DateOf(end))
}

// Overlaps reports whether two contracts share at least one calendar day.
func (c *Contract) Overlaps(o *Contract) bool {
	if c.EndDate != nil && DateOf(*c.EndDate).Before(DateOf(o.StartDate)) {
		return false
	}
	if o.EndDate != nil && DateOf(*o.EndDate).Before(DateOf(c.StartDate)) {
		return false
	}
	return true
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
