package domain

import "github.com/shopspring/decimal"

type VehicleEarnings struct {
	VehicleID       int32           `json:"vehicle_id"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	OwnerEarnings   decimal.Decimal `json:"owner_earnings"`
	CompanyEarnings decimal.Decimal `json:"company_earnings"`
	BookingCount    int32           `json:"booking_count"`
}

type OwnerEarnings struct {
	OwnerID       int32           `json:"owner_id"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	BookingCount  int32           `json:"booking_count"`
	VehiclesCount int32           `json:"vehicles_count"`
}

type CompanyEarnings struct {
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	BookingCount   int32           `json:"booking_count"`
	VehiclesCount  int32           `json:"vehicles_count"`
	ContractsCount int32           `json:"contracts_count"`
}
