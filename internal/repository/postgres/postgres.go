package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.ContractRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.SettingsRepository
	repository.EarningsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		VehicleRepository:  NewVehicleRepository(db),
		ContractRepository: NewContractRepository(db),
		BookingRepository:  NewBookingRepository(db),
		PaymentRepository:  NewPaymentRepository(db),
		SettingsRepository: NewSettingsRepository(db),
		EarningsRepository: NewEarningsRepository(db),
	}
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

// notFound maps sql.ErrNoRows onto domain.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}
