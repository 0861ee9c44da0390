package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rateCard(daily, hourly string) domain.RateCard {
	rc := domain.RateCard{DailyPrice: d(daily)}
	if hourly != "" {
		rc.HourlyPrice = decimal.NewNullDecimal(d(hourly))
	}
	return rc
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		end      time.Time
		expected int64
	}{
		{"Exact hours", start.Add(3 * time.Hour), 3},
		{"One second over rounds up", start.Add(3*time.Hour + time.Second), 4},
		{"Less than an hour", start.Add(10 * time.Minute), 1},
		{"Exactly one day", start.Add(24 * time.Hour), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := DurationHours(start, tt.end)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, hours)
		})
	}

	t.Run("End before start", func(t *testing.T) {
		_, err := DurationHours(start, start.Add(-time.Hour))
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("Zero length", func(t *testing.T) {
		_, err := DurationHours(start, start)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, int64(1), DurationDays(1))
	assert.Equal(t, int64(1), DurationDays(24))
	assert.Equal(t, int64(2), DurationDays(25))
	assert.Equal(t, int64(2), DurationDays(30))
	assert.Equal(t, int64(3), DurationDays(72))
}

func TestCalculateBookingPrice(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Short booking uses hourly rate", func(t *testing.T) {
		total, err := CalculateBookingPrice(rateCard("100000", "15000"), start, start.Add(3*time.Hour))
		require.NoError(t, err)
		assert.True(t, total.Equal(d("45000")), "got %s", total)
	})

	t.Run("Thirty hours bills two days", func(t *testing.T) {
		total, err := CalculateBookingPrice(rateCard("100000", "15000"), start, start.Add(30*time.Hour))
		require.NoError(t, err)
		assert.True(t, total.Equal(d("200000")), "got %s", total)
	})

	t.Run("Exactly 24 hours bills one day", func(t *testing.T) {
		b, err := CalculatePriceBreakdown(rateCard("100000", "15000"), start, start.Add(24*time.Hour))
		require.NoError(t, err)
		assert.False(t, b.HourlyRate)
		assert.Equal(t, int64(1), b.Units)
		assert.True(t, b.Total.Equal(d("100000")))
	})

	t.Run("Short booking without hourly rate bills a day", func(t *testing.T) {
		total, err := CalculateBookingPrice(rateCard("100000", ""), start, start.Add(3*time.Hour))
		require.NoError(t, err)
		assert.True(t, total.Equal(d("100000")))
	})

	t.Run("Zero hourly rate is ignored", func(t *testing.T) {
		total, err := CalculateBookingPrice(rateCard("100000", "0"), start, start.Add(2*time.Hour))
		require.NoError(t, err)
		assert.True(t, total.Equal(d("100000")))
	})

	t.Run("Partial hour rounds up", func(t *testing.T) {
		b, err := CalculatePriceBreakdown(rateCard("100000", "15000"), start, start.Add(2*time.Hour+time.Minute))
		require.NoError(t, err)
		assert.True(t, b.HourlyRate)
		assert.Equal(t, int64(3), b.DurationHours)
		assert.True(t, b.Total.Equal(d("45000")))
	})

	t.Run("Invalid interval", func(t *testing.T) {
		_, err := CalculateBookingPrice(rateCard("100000", "15000"), start, start)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("Same input gives same price", func(t *testing.T) {
		rc := rateCard("73500.50", "9999.99")
		end := start.Add(17*time.Hour + 42*time.Minute)
		first, err := CalculateBookingPrice(rc, start, end)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := CalculateBookingPrice(rc, start, end)
			require.NoError(t, err)
			assert.True(t, first.Equal(again))
		}
	})
}
