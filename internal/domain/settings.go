package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemSettings is the single record of tunable business constants.
// Services read one snapshot per operation and pass it down by value.
type SystemSettings struct {
	MinOwnerRentalDays         int32           `json:"min_owner_rental_days"`
	MinRenterRentalHours       int32           `json:"min_renter_rental_hours"`
	LateFeePercent             decimal.Decimal `json:"late_fee_percent"`
	DefaultOwnerSharePercent   decimal.Decimal `json:"default_owner_share_percent"`
	DefaultCompanySharePercent decimal.Decimal `json:"default_company_share_percent"`
	UpdatedAt                  time.Time       `json:"updated_at"`
}

func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		MinOwnerRentalDays:         30,
		MinRenterRentalHours:       1,
		LateFeePercent:             decimal.RequireFromString("10.00"),
		DefaultOwnerSharePercent:   decimal.RequireFromString("80.00"),
		DefaultCompanySharePercent: decimal.RequireFromString("20.00"),
	}
}
