package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type earningsRepository struct {
	db *sql.DB
}

func NewEarningsRepository(db *sql.DB) repository.EarningsRepository {
	return &earningsRepository{db: db}
}

// dateRange appends optional bounds on b.start_at to a completed-bookings filter.
func dateRange(where string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND b.start_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND b.start_at < $%d", len(args))
	}
	return where, args
}

func (r *earningsRepository) VehicleEarnings(ctx context.Context, vehicleID int32, from, to *time.Time) (*domain.VehicleEarnings, error) {
	where, args := dateRange(`WHERE b.vehicle_id = $1 AND b.status = 'completed'`, []any{vehicleID}, from, to)
	query := `SELECT COALESCE(SUM(b.total_price), 0), COALESCE(SUM(b.owner_earned), 0), COALESCE(SUM(b.company_earned), 0), count(*)
	          FROM bookings b ` + where

	e := &domain.VehicleEarnings{VehicleID: vehicleID}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.TotalEarnings, &e.OwnerEarnings, &e.CompanyEarnings, &e.BookingCount)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningsRepository) OwnerEarnings(ctx context.Context, ownerID int32, from, to *time.Time) (*domain.OwnerEarnings, error) {
	where, args := dateRange(`WHERE v.owner_id = $1 AND b.status = 'completed'`, []any{ownerID}, from, to)
	query := `SELECT COALESCE(SUM(b.owner_earned), 0), count(b.id), count(DISTINCT b.vehicle_id)
	          FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id ` + where

	e := &domain.OwnerEarnings{OwnerID: ownerID}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.TotalEarnings, &e.BookingCount, &e.VehiclesCount)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningsRepository) CompanyEarnings(ctx context.Context, from, to *time.Time) (*domain.CompanyEarnings, error) {
	where, args := dateRange(`WHERE b.status = 'completed'`, nil, from, to)
	query := `SELECT COALESCE(SUM(b.company_earned), 0), count(b.id), count(DISTINCT b.vehicle_id)
	          FROM bookings b ` + where

	e := &domain.CompanyEarnings{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&e.TotalEarnings, &e.BookingCount, &e.VehiclesCount)
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contracts WHERE is_active = TRUE`).Scan(&e.ContractsCount); err != nil {
		return nil, err
	}
	return e, nil
}
