package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc      service.VehicleService
	availabilitySvc service.AvailabilityService
}

func NewVehicleHandler(vehicleSvc service.VehicleService, availabilitySvc service.AvailabilityService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc, availabilitySvc: availabilitySvc}
}

type vehicleRequest struct {
	OwnerID     int32               `json:"owner_id"`
	Name        string              `json:"name"`
	Make        string              `json:"make"`
	Model       string              `json:"model"`
	Year        *int32              `json:"year"`
	PlateNumber string              `json:"plate_number"`
	DailyPrice  decimal.Decimal     `json:"daily_price"`
	HourlyPrice decimal.NullDecimal `json:"hourly_price"`
}

func (req vehicleRequest) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		PlateNumber: req.PlateNumber,
		DailyPrice:  req.DailyPrice,
		HourlyPrice: req.HourlyPrice,
	}
}

type availabilityResponse struct {
	VehicleID int32 `json:"vehicle_id"`
	Available bool  `json:"available"`
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := req.toDomain()
	if err := h.vehicleSvc.CreateVehicle(r.Context(), ActorFromContext(r.Context()), v); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := req.toDomain()
	in.ID = id
	v, err := h.vehicleSvc.UpdateVehicle(r.Context(), ActorFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) UpdateVehicleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Status domain.VehicleStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.vehicleSvc.UpdateVehicleStatus(r.Context(), ActorFromContext(r.Context()), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) ListOwnerVehicles(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	vehicles, err := h.vehicleSvc.ListOwnerVehicles(r.Context(), ActorFromContext(r.Context()), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetAvailableVehicles(w http.ResponseWriter, r *http.Request) {
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
	vehicles, err := h.availabilitySvc.GetAvailableVehicles(r.Context(), startAt, endAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, startAt, endAt, excludeID, err := calendarQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.availabilitySvc.IsAvailable(r.Context(), id, startAt, endAt, excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{VehicleID: id, Available: ok})
}

func (h *VehicleHandler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	id, startAt, endAt, excludeID, err := calendarQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.availabilitySvc.FindConflicts(r.Context(), id, startAt, endAt, excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}
