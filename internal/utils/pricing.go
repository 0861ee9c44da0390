package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
)

const hoursPerDay = 24

// PriceBreakdown explains how a booking total was reached
type PriceBreakdown struct {
	DurationHours int64
	DurationDays  int64
	HourlyRate    bool
	UnitPrice     decimal.Decimal
	Units         int64
	Total         decimal.Decimal
}

// DurationHours returns the rental length rounded up to whole hours.
// A booking of 3h00m01s counts as 4 hours.
func DurationHours(startAt, endAt time.Time) (int64, error) {
	if !endAt.After(startAt) {
		return 0, fmt.Errorf("%w: start %s, end %s", domain.ErrInvalidDuration, startAt.Format(time.RFC3339), endAt.Format(time.RFC3339))
	}
	d := endAt.Sub(startAt)
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours, nil
}

// DurationDays rounds an hour count up to whole days
func DurationDays(hours int64) int64 {
	days := hours / hoursPerDay
	if hours%hoursPerDay != 0 {
		days++
	}
	return days
}

// CalculatePriceBreakdown prices an interval against a rate card.
// Bookings strictly shorter than 24 hours use the hourly rate when the vehicle
// has one; everything else is charged per started day.
func CalculatePriceBreakdown(rate domain.RateCard, startAt, endAt time.Time) (PriceBreakdown, error) {
	hours, err := DurationHours(startAt, endAt)
	if err != nil {
		return PriceBreakdown{}, err
	}
	days := DurationDays(hours)

	b := PriceBreakdown{
		DurationHours: hours,
		DurationDays:  days,
	}
	if hours < hoursPerDay && rate.HasHourlyRate() {
		b.HourlyRate = true
		b.UnitPrice = rate.HourlyPrice.Decimal
		b.Units = hours
	} else {
		b.UnitPrice = rate.DailyPrice
		b.Units = days
	}
	b.Total = b.UnitPrice.Mul(decimal.NewFromInt(b.Units))
	return b, nil
}

// CalculateBookingPrice returns the total price of an interval.
// Quote and commit paths both go through here.
func CalculateBookingPrice(rate domain.RateCard, startAt, endAt time.Time) (decimal.Decimal, error) {
	b, err := CalculatePriceBreakdown(rate, startAt, endAt)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Total, nil
}
