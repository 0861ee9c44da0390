package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"carrental-backend/internal/security"
	"carrental-backend/internal/service"
)

// Services bundles everything the HTTP API calls into.
type Services struct {
	Vehicles     service.VehicleService
	Availability service.AvailabilityService
	Contracts    service.ContractService
	Bookings     service.BookingService
	Payments     service.PaymentService
	Earnings     service.EarningsService
	Settings     service.SettingsService
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter registers the /api/v1 routes. Route names are the keys of
// config.RouteSecurityConfig.
func NewRouter(svcs Services, tm security.TokenManager, db Pinger) *mux.Router {
	vehicles := NewVehicleHandler(svcs.Vehicles, svcs.Availability)
	contracts := NewContractHandler(svcs.Contracts)
	bookings := NewBookingHandler(svcs.Bookings)
	payments := NewPaymentHandler(svcs.Payments)
	earnings := NewEarningsHandler(svcs.Earnings)
	settings := NewSettingsHandler(svcs.Settings)

	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware)

	router.HandleFunc("/health", healthHandler(db)).Methods(http.MethodGet).Name("health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	api.HandleFunc("/vehicles", vehicles.CreateVehicle).Methods(http.MethodPost).Name("vehicles.create")
	api.HandleFunc("/vehicles/available", vehicles.GetAvailableVehicles).Methods(http.MethodGet).Name("vehicles.available")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.GetVehicle).Methods(http.MethodGet).Name("vehicles.get")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.UpdateVehicle).Methods(http.MethodPut).Name("vehicles.update")
	api.HandleFunc("/vehicles/{id:[0-9]+}/status", vehicles.UpdateVehicleStatus).Methods(http.MethodPatch).Name("vehicles.status")
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", vehicles.CheckAvailability).Methods(http.MethodGet).Name("vehicles.calendar")
	api.HandleFunc("/vehicles/{id:[0-9]+}/conflicts", vehicles.ListConflicts).Methods(http.MethodGet).Name("vehicles.conflicts")
	api.HandleFunc("/vehicles/{id:[0-9]+}/contracts", contracts.ListContracts).Methods(http.MethodGet).Name("contracts.list")
	api.HandleFunc("/vehicles/{id:[0-9]+}/earnings", earnings.VehicleEarnings).Methods(http.MethodGet).Name("earnings.vehicle")
	api.HandleFunc("/owners/{id:[0-9]+}/vehicles", vehicles.ListOwnerVehicles).Methods(http.MethodGet).Name("owners.vehicles")
	api.HandleFunc("/owners/{id:[0-9]+}/earnings", earnings.OwnerEarnings).Methods(http.MethodGet).Name("earnings.owner")

	api.HandleFunc("/contracts", contracts.CreateContract).Methods(http.MethodPost).Name("contracts.create")
	api.HandleFunc("/contracts/{id:[0-9]+}", contracts.GetContract).Methods(http.MethodGet).Name("contracts.get")
	api.HandleFunc("/contracts/{id:[0-9]+}/toggle", contracts.ToggleContract).Methods(http.MethodPost).Name("contracts.toggle")

	api.HandleFunc("/bookings/quote", bookings.QuoteBooking).Methods(http.MethodGet).Name("bookings.quote")
	api.HandleFunc("/bookings", bookings.CreateBooking).Methods(http.MethodPost).Name("bookings.create")
	api.HandleFunc("/bookings/{id:[0-9]+}", bookings.GetBooking).Methods(http.MethodGet).Name("bookings.get")
	api.HandleFunc("/bookings/{id:[0-9]+}/schedule", bookings.UpdateBookingSchedule).Methods(http.MethodPut).Name("bookings.schedule")
	api.HandleFunc("/bookings/{id:[0-9]+}/status", bookings.UpdateBookingStatus).Methods(http.MethodPatch).Name("bookings.status")
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", payments.RecordPayment).Methods(http.MethodPost).Name("payments.create")
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", payments.ListPayments).Methods(http.MethodGet).Name("payments.list")

	api.HandleFunc("/earnings/company", earnings.CompanyEarnings).Methods(http.MethodGet).Name("earnings.company")

	api.HandleFunc("/settings", settings.GetSettings).Methods(http.MethodGet).Name("settings.get")
	api.HandleFunc("/settings", settings.UpdateSettings).Methods(http.MethodPut).Name("settings.update")

	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
