package utils

import (
	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
)

// DerivePaymentStatus classifies how much of a booking has been paid
func DerivePaymentStatus(paid, total decimal.Decimal) domain.PaymentStatus {
	switch {
	case paid.IsZero():
		return domain.PaymentStatusUnpaid
	case paid.GreaterThanOrEqual(total):
		return domain.PaymentStatusPaid
	default:
		return domain.PaymentStatusPartial
	}
}

// SumPayments totals payment amounts
func SumPayments(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
