package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	RenterID      int32           `json:"renter_id"`
	VehicleID     int32           `json:"vehicle_id"`
	StartAt       time.Time       `json:"start_at"`
	EndAt         time.Time       `json:"end_at"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
}

type scheduleRequest struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func (h *BookingHandler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := queryInt32(r, "vehicle_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	startAt, err := queryTime(r, "start_at")
	if err != nil {
		writeError(w, r, err)
		return
	}
	endAt, err := queryTime(r, "end_at")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quote, err := h.bookingSvc.QuoteBooking(r.Context(), vehicleID, startAt, endAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// CreateBooking books for the caller. Admins may book on behalf of a renter.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor := ActorFromContext(r.Context())
	renterID := actor.UserID
	if actor.IsAdmin() && req.RenterID != 0 {
		renterID = req.RenterID
	}

	b, err := h.bookingSvc.CreateBooking(r.Context(), service.BookingRequest{
		RenterID:      renterID,
		VehicleID:     req.VehicleID,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		DepositAmount: req.DepositAmount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.GetBooking(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) UpdateBookingSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.UpdateBookingSchedule(r.Context(), ActorFromContext(r.Context()), id, req.StartAt, req.EndAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Status domain.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.UpdateBookingStatus(r.Context(), ActorFromContext(r.Context()), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
