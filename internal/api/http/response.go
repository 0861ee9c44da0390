package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/logger"
)

type errorResponse struct {
	Error      string  `json:"error"`
	Code       string  `json:"code"`
	BookingIDs []int32 `json:"conflicting_booking_ids,omitempty"`
	RequestID  string  `json:"request_id,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrTimeConflict, http.StatusConflict, "time_conflict"},
	{domain.ErrVehicleUnavailable, http.StatusConflict, "vehicle_unavailable"},
	{domain.ErrInvalidDuration, http.StatusBadRequest, "invalid_duration"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrPlateFormat, http.StatusBadRequest, "plate_format"},
	{domain.ErrMinimumDuration, http.StatusUnprocessableEntity, "minimum_duration"},
	{domain.ErrContractValidation, http.StatusUnprocessableEntity, "contract_validation"},
	{lock.ErrLockTimeout, http.StatusServiceUnavailable, "lock_timeout"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error(), Code: "internal", RequestID: RequestIDFromContext(r.Context())}
	status := http.StatusInternalServerError
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			status, resp.Code = m.status, m.code
			break
		}
	}

	var conflict *domain.TimeConflictError
	if errors.As(err, &conflict) {
		resp.BookingIDs = conflict.BookingIDs
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err, "request_id", resp.RequestID)
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
