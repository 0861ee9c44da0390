package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type paymentRequest struct {
	Amount decimal.Decimal      `json:"amount"`
	Type   domain.PaymentType   `json:"payment_type"`
	Method domain.PaymentMethod `json:"payment_method"`
	Notes  string               `json:"notes"`
}

type paymentResponse struct {
	Payment *domain.Payment `json:"payment"`
	Booking *domain.Booking `json:"booking"`
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := &domain.Payment{
		BookingID: bookingID,
		Amount:    req.Amount,
		Type:      req.Type,
		Method:    req.Method,
		Notes:     req.Notes,
	}
	b, err := h.paymentSvc.RecordPayment(r.Context(), ActorFromContext(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse{Payment: p, Booking: b})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.paymentSvc.ListPayments(r.Context(), ActorFromContext(r.Context()), bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
