package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusInactive, VehicleStatusAvailable, VehicleStatusRented, VehicleStatusMaintenance:
		return true
	}
	return false
}

// RateCard holds the pricing attributes of a vehicle.
type RateCard struct {
	DailyPrice  decimal.Decimal     `json:"daily_price"`
	HourlyPrice decimal.NullDecimal `json:"hourly_price"`
}

// HasHourlyRate reports whether the hourly price is set and positive.
func (r RateCard) HasHourlyRate() bool {
	return r.HourlyPrice.Valid && r.HourlyPrice.Decimal.IsPositive()
}

type Vehicle struct {
	ID          int32               `json:"id"`
	OwnerID     int32               `json:"owner_id"`
	Name        string              `json:"name"`
	Make        string              `json:"make"`
	Model       string              `json:"model"`
	Year        *int32              `json:"year,omitempty"`
	PlateNumber string              `json:"plate_number"`
	DailyPrice  decimal.Decimal     `json:"daily_price"`
	HourlyPrice decimal.NullDecimal `json:"hourly_price"`
	Status      VehicleStatus       `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (v *Vehicle) RateCard() RateCard {
	return RateCard{DailyPrice: v.DailyPrice, HourlyPrice: v.HourlyPrice}
}

// Bookable reports whether the vehicle can take new bookings at all,
// independent of the calendar.
func (v *Vehicle) Bookable() bool {
	return v.Status == VehicleStatusAvailable && v.DailyPrice.IsPositive()
}
