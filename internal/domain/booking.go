package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Blocking reports whether a booking in this status occupies the vehicle calendar.
func (s BookingStatus) Blocking() bool {
	return s == BookingStatusPending || s == BookingStatusActive
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Booking struct {
	ID            int32         `json:"id"`
	RenterID      int32         `json:"renter_id"`
	VehicleID     int32         `json:"vehicle_id"`
	StartAt       time.Time     `json:"start_at"`
	EndAt         time.Time     `json:"end_at"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	// Derived on every save; never taken from input.
	TotalPrice    decimal.Decimal `json:"total_price"`
	OwnerEarned   decimal.Decimal `json:"owner_earned"`
	CompanyEarned decimal.Decimal `json:"company_earned"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Overlaps uses half-open interval semantics: touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// BookingQuote is the priced and allocated preview of a booking interval.
type BookingQuote struct {
	VehicleID     int32           `json:"vehicle_id"`
	StartAt       time.Time       `json:"start_at"`
	EndAt         time.Time       `json:"end_at"`
	DurationHours int64           `json:"duration_hours"`
	DurationDays  int64           `json:"duration_days"`
	HourlyRate    bool            `json:"hourly_rate"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	OwnerEarned   decimal.Decimal `json:"owner_earned"`
	CompanyEarned decimal.Decimal `json:"company_earned"`
	ContractID    *int32          `json:"contract_id,omitempty"`
}
