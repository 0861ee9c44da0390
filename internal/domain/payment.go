package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeAdvance PaymentType = "advance"
	PaymentTypeFinal   PaymentType = "final"
	PaymentTypeOther   PaymentType = "other"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeDeposit, PaymentTypeAdvance, PaymentTypeFinal, PaymentTypeOther:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is append-only.
type Payment struct {
	ID        int32           `json:"id"`
	BookingID int32           `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      PaymentType     `json:"payment_type"`
	Method    PaymentMethod   `json:"payment_method"`
	Notes     string          `json:"notes"`
	CreatedBy *int32          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
