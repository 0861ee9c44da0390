package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type ContractHandler struct {
	contractSvc service.ContractService
}

func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

type contractRequest struct {
	OwnerID              int32               `json:"owner_id"`
	VehicleID            int32               `json:"vehicle_id"`
	StartDate            string              `json:"start_date"`
	EndDate              string              `json:"end_date"`
	PricingType          domain.PricingType  `json:"pricing_type"`
	OwnerSharePercent    decimal.NullDecimal `json:"owner_share_percent"`
	CompanySharePercent  decimal.NullDecimal `json:"company_share_percent"`
	FixedPayoutAmount    decimal.NullDecimal `json:"fixed_payout_amount"`
	MinRentalDays        *int32              `json:"min_rental_days"`
	EnforceMinRentalDays bool                `json:"enforce_min_rental_days"`
	IsActive             *bool               `json:"is_active"`
	Notes                string              `json:"notes"`
}

func (req contractRequest) toDomain() (*domain.Contract, error) {
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	c := &domain.Contract{
		OwnerID:              req.OwnerID,
		VehicleID:            req.VehicleID,
		StartDate:            start,
		PricingType:          req.PricingType,
		OwnerSharePercent:    req.OwnerSharePercent,
		CompanySharePercent:  req.CompanySharePercent,
		FixedPayoutAmount:    req.FixedPayoutAmount,
		MinRentalDays:        req.MinRentalDays,
		EnforceMinRentalDays: req.EnforceMinRentalDays,
		IsActive:             req.IsActive == nil || *req.IsActive,
		Notes:                req.Notes,
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		c.EndDate = &end
	}
	return c, nil
}

func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.contractSvc.CreateContract(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.contractSvc.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	contracts, err := h.contractSvc.ListContracts(r.Context(), vehicleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	writeJSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) ToggleContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.contractSvc.ToggleContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
