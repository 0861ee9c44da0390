package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/cors"

	httpapi "carrental-backend/internal/api/http"
	"carrental-backend/internal/config"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository/postgres"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting car rental backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Lock configuration", "type", cfg.Lock.Type, "ttl_seconds", cfg.Lock.TTLSeconds)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize per-vehicle booking lock
	ctx := context.Background()
	locker, closeLocker, err := lock.NewVehicleLocker(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize vehicle lock", "error", err)
		log.Fatalf("Failed to initialize vehicle lock: %v", err)
	}
	defer closeLocker()

	// Initialize Notifications
	var notifier service.Notifier
	if cfg.Notification.Provider == "sendgrid" {
		notifier = service.NewSendGridNotifier(
			cfg.Notification.SendGridAPIKey,
			cfg.Notification.FromEmail,
			cfg.Notification.FromName,
			cfg.Notification.OpsEmail,
		)
	} else {
		notifier = service.NewNoopNotifier()
	}

	// Initialize Services
	defaults, err := cfg.DefaultSettings()
	if err != nil {
		log.Fatalf("Invalid settings defaults: %v", err)
	}
	settingsSvc := service.NewSettingsService(store.SettingsRepository, defaults)
	availabilitySvc := service.NewAvailabilityService(store.VehicleRepository, store.BookingRepository)
	allocator := service.NewRevenueAllocator(store.ContractRepository)
	svcs := httpapi.Services{
		Vehicles:     service.NewVehicleService(store.VehicleRepository, store.ContractRepository),
		Availability: availabilitySvc,
		Contracts:    service.NewContractService(store.ContractRepository, store.VehicleRepository, settingsSvc),
		Bookings: service.NewBookingService(
			store.VehicleRepository,
			store.BookingRepository,
			availabilitySvc,
			allocator,
			settingsSvc,
			locker,
			notifier,
		),
		Payments: service.NewPaymentService(
			store.PaymentRepository,
			store.BookingRepository,
			store.VehicleRepository,
			allocator,
			locker,
		),
		Earnings: service.NewEarningsService(store.EarningsRepository, store.VehicleRepository),
		Settings: settingsSvc,
	}

	// Make sure the settings record exists before serving traffic
	if _, err := settingsSvc.GetSettings(ctx); err != nil {
		logger.Error("Failed to load system settings", "error", err)
		log.Fatalf("Failed to load system settings: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Set up HTTP server
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      corsHandler.Handler(httpapi.NewRouter(svcs, tokenManager, store)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}
