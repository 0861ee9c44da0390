package http

import (
	"net/http"
	"time"

	"carrental-backend/internal/service"
)

type EarningsHandler struct {
	earningsSvc service.EarningsService
}

func NewEarningsHandler(earningsSvc service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsSvc: earningsSvc}
}

func dateRange(r *http.Request) (from, to *time.Time, err error) {
	if from, err = queryDate(r, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(r, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (h *EarningsHandler) VehicleEarnings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.earningsSvc.GetVehicleEarnings(r.Context(), ActorFromContext(r.Context()), id, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EarningsHandler) OwnerEarnings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.earningsSvc.GetOwnerEarnings(r.Context(), ActorFromContext(r.Context()), id, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EarningsHandler) CompanyEarnings(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.earningsSvc.GetCompanyEarnings(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
