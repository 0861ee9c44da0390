package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Record(ctx context.Context, p *domain.Payment, b *domain.Booking) error {
	logger.DatabaseCall("RecordPayment", "booking_id", b.ID, "amount", p.Amount.StringFixed(2))
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	insert := `INSERT INTO payments (booking_id, amount, payment_type, payment_method, notes, created_by, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := tx.QueryRowContext(ctx, insert, p.BookingID, p.Amount, p.Type, p.Method, p.Notes, p.CreatedBy, now).Scan(&p.ID); err != nil {
		logger.DatabaseResult("RecordPayment", 0, err)
		return err
	}

	update := `UPDATE bookings SET payment_status=$1, total_price=$2, owner_earned=$3, company_earned=$4, paid_amount=$5, updated_at=$6
	           WHERE id=$7`
	res, err := tx.ExecContext(ctx, update, b.PaymentStatus, b.TotalPrice, b.OwnerEarned, b.CompanyEarned, b.PaidAmount, now, b.ID)
	if err != nil {
		logger.DatabaseResult("RecordPayment", 0, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, fmt.Sprintf("booking %d", b.ID))
	}
	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("RecordPayment", 0, err)
		return err
	}
	p.CreatedAt = now
	b.UpdatedAt = now
	logger.DatabaseResult("RecordPayment", 1, nil, "payment_id", p.ID)
	return nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	query := `SELECT id, booking_id, amount, payment_type, payment_method, COALESCE(notes, ''), created_by, created_at
	          FROM payments WHERE booking_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var createdBy sql.NullInt32
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Type, &p.Method, &p.Notes, &createdBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		if createdBy.Valid {
			p.CreatedBy = &createdBy.Int32
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) SumByBooking(ctx context.Context, bookingID int32) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&sum)
	return sum, err
}
