package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

const bookingColumns = `id, renter_id, vehicle_id, start_at, end_at, status, payment_status, total_price, owner_earned, company_earned, paid_amount, deposit_amount, created_at, updated_at`

const conflictQuery = `SELECT ` + bookingColumns + ` FROM bookings
	WHERE vehicle_id = $1
	  AND status IN ('pending', 'active')
	  AND start_at < $3 AND end_at > $2
	  AND id <> $4
	ORDER BY start_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanBooking(row scanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.RenterID, &b.VehicleID, &b.StartAt, &b.EndAt, &b.Status, &b.PaymentStatus,
		&b.TotalPrice, &b.OwnerEarned, &b.CompanyEarned, &b.PaidAmount, &b.DepositAmount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func queryBookings(ctx context.Context, q queryer, query string, args ...any) ([]domain.Booking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("booking %d", id))
	}
	return b, nil
}

func (r *bookingRepository) FindConflicts(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeID int32) ([]domain.Booking, error) {
	return queryBookings(ctx, r.db, conflictQuery, vehicleID, startAt, endAt, excludeID)
}

// lockVehicle takes the vehicle row lock and re-reads the calendar.
// Writers serialize on the row so a conflict check and the following
// write see the same set of bookings.
func lockVehicle(ctx context.Context, tx *sql.Tx, b *domain.Booking) error {
	var id int32
	err := tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, b.VehicleID).Scan(&id)
	if err != nil {
		return notFound(err, fmt.Sprintf("vehicle %d", b.VehicleID))
	}
	if !b.Status.Blocking() {
		return nil
	}
	conflicts, err := queryBookings(ctx, tx, conflictQuery, b.VehicleID, b.StartAt, b.EndAt, b.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		ids := make([]int32, len(conflicts))
		for i, c := range conflicts {
			ids[i] = c.ID
		}
		return &domain.TimeConflictError{VehicleID: b.VehicleID, BookingIDs: ids}
	}
	return nil
}

func (r *bookingRepository) CreateExclusive(ctx context.Context, b *domain.Booking) error {
	logger.DatabaseCall("CreateBookingExclusive", "vehicle_id", b.VehicleID, "start_at", b.StartAt, "end_at", b.EndAt)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockVehicle(ctx, tx, b); err != nil {
		logger.DatabaseResult("CreateBookingExclusive", 0, err)
		return err
	}

	query := `INSERT INTO bookings (renter_id, vehicle_id, start_at, end_at, status, payment_status, total_price, owner_earned, company_earned, paid_amount, deposit_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now().UTC()
	err = tx.QueryRowContext(ctx, query, b.RenterID, b.VehicleID, b.StartAt, b.EndAt, b.Status, b.PaymentStatus,
		b.TotalPrice, b.OwnerEarned, b.CompanyEarned, b.PaidAmount, b.DepositAmount, now, now).Scan(&b.ID)
	if err != nil {
		logger.DatabaseResult("CreateBookingExclusive", 0, err)
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("CreateBookingExclusive", 0, err)
		return err
	}
	b.CreatedAt, b.UpdatedAt = now, now
	logger.DatabaseResult("CreateBookingExclusive", 1, nil, "booking_id", b.ID)
	return nil
}

func (r *bookingRepository) UpdateExclusive(ctx context.Context, b *domain.Booking) error {
	logger.DatabaseCall("UpdateBookingExclusive", "booking_id", b.ID, "status", b.Status)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockVehicle(ctx, tx, b); err != nil {
		logger.DatabaseResult("UpdateBookingExclusive", 0, err)
		return err
	}

	query := `UPDATE bookings SET start_at=$1, end_at=$2, status=$3, payment_status=$4, total_price=$5, owner_earned=$6,
	          company_earned=$7, paid_amount=$8, deposit_amount=$9, updated_at=$10 WHERE id=$11`
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, query, b.StartAt, b.EndAt, b.Status, b.PaymentStatus, b.TotalPrice, b.OwnerEarned,
		b.CompanyEarned, b.PaidAmount, b.DepositAmount, now, b.ID)
	if err != nil {
		logger.DatabaseResult("UpdateBookingExclusive", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound(sql.ErrNoRows, fmt.Sprintf("booking %d", b.ID))
	}
	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("UpdateBookingExclusive", 0, err)
		return err
	}
	b.UpdatedAt = now
	logger.DatabaseResult("UpdateBookingExclusive", n, nil)
	return nil
}

func (r *bookingRepository) CountActiveByVehicle(ctx context.Context, vehicleID int32, excludeID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND status = 'active' AND id <> $2`
	err := r.db.QueryRowContext(ctx, query, vehicleID, excludeID).Scan(&count)
	return count, err
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vehicle_id = $1 ORDER BY start_at DESC`
	return queryBookings(ctx, r.db, query, vehicleID)
}
