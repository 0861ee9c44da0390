package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

const vehicleColumns = `id, owner_id, COALESCE(name, ''), COALESCE(make, ''), COALESCE(model, ''), year, plate_number, daily_price, hourly_price, status, created_at, updated_at`

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(row scanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var year sql.NullInt32
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Make, &v.Model, &year, &v.PlateNumber, &v.DailyPrice, &v.HourlyPrice, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if year.Valid {
		v.Year = &year.Int32
	}
	return v, nil
}

func scanVehicles(rows *sql.Rows) ([]domain.Vehicle, error) {
	defer rows.Close()
	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (owner_id, name, make, model, year, plate_number, daily_price, hourly_price, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, v.OwnerID, v.Name, v.Make, v.Model, v.Year, v.PlateNumber, v.DailyPrice, v.HourlyPrice, v.Status, now, now).Scan(&v.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: plate number %s is already registered", domain.ErrInvalidInput, v.PlateNumber)
		}
		return err
	}
	v.CreatedAt, v.UpdatedAt = now, now
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("vehicle %d", id))
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET name=$1, make=$2, model=$3, year=$4, plate_number=$5, daily_price=$6, hourly_price=$7, status=$8, updated_at=$9 WHERE id=$10`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, v.Name, v.Make, v.Model, v.Year, v.PlateNumber, v.DailyPrice, v.HourlyPrice, v.Status, now, v.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: plate number %s is already registered", domain.ErrInvalidInput, v.PlateNumber)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, fmt.Sprintf("vehicle %d", v.ID))
	}
	v.UpdatedAt = now
	return nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	logger.DatabaseCall("UpdateVehicleStatus", "vehicle_id", id, "status", status)
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status=$1, updated_at=$2 WHERE id=$3`, status, time.Now().UTC(), id)
	if err != nil {
		logger.DatabaseResult("UpdateVehicleStatus", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UpdateVehicleStatus", n, nil)
	if n == 0 {
		return notFound(sql.ErrNoRows, fmt.Sprintf("vehicle %d", id))
	}
	return nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return scanVehicles(rows)
}

func (r *vehicleRepository) ListAvailable(ctx context.Context, startAt, endAt time.Time) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v
	          WHERE v.status = 'available' AND v.daily_price > 0
	            AND NOT EXISTS (
	                SELECT 1 FROM bookings b
	                WHERE b.vehicle_id = v.id
	                  AND b.status IN ('pending', 'active')
	                  AND b.start_at < $2 AND b.end_at > $1)
	          ORDER BY v.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, startAt, endAt)
	if err != nil {
		return nil, err
	}
	return scanVehicles(rows)
}

func (r *vehicleRepository) ListStatusDrift(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v
	          WHERE (v.status = 'rented' AND NOT EXISTS (
	                    SELECT 1 FROM bookings b WHERE b.vehicle_id = v.id AND b.status = 'active'))
	             OR (v.status = 'available' AND EXISTS (
	                    SELECT 1 FROM bookings b WHERE b.vehicle_id = v.id AND b.status = 'active'))`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanVehicles(rows)
}
