package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository/postgres"
)

var bookingCols = []string{"id", "renter_id", "vehicle_id", "start_at", "end_at", "status", "payment_status",
	"total_price", "owner_earned", "company_earned", "paid_amount", "deposit_amount", "created_at", "updated_at"}

func at(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

func newMockDB(t *testing.T) (*postgres.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return postgres.NewStore(db), mock
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		RenterID:      20,
		VehicleID:     1,
		StartAt:       at(10),
		EndAt:         at(12),
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalPrice:    decimal.RequireFromString("30.00"),
		OwnerEarned:   decimal.RequireFromString("24.00"),
		CompanyEarned: decimal.RequireFromString("6.00"),
		PaidAmount:    decimal.Zero,
		DepositAmount: decimal.Zero,
	}
}

func TestBookingRepository_GetByID(t *testing.T) {
	store, mock := newMockDB(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(7, 20, 1, at(10), at(12), "active", "partial", "30.00", "24.00", "6.00", "10.00", "0", created, created))

		b, err := store.BookingRepository.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int32(7), b.ID)
		assert.Equal(t, domain.BookingStatusActive, b.Status)
		assert.Equal(t, domain.PaymentStatusPartial, b.PaymentStatus)
		assert.True(t, b.PaidAmount.Equal(decimal.RequireFromString("10")))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		_, err := store.BookingRepository.GetByID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CreateExclusive(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("FROM bookings\\s+WHERE vehicle_id = \\$1").
			WithArgs(int32(1), at(10), at(12), int32(0)).
			WillReturnRows(sqlmock.NewRows(bookingCols))
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(int32(20), int32(1), at(10), at(12), "pending", "unpaid",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		b := pendingBooking()
		require.NoError(t, store.BookingRepository.CreateExclusive(ctx, b))
		assert.Equal(t, int32(42), b.ID)
		assert.False(t, b.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict Rolls Back", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("FROM bookings\\s+WHERE vehicle_id = \\$1").
			WithArgs(int32(1), at(10), at(12), int32(0)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(5, 21, 1, at(11), at(13), "active", "paid", "30", "24", "6", "30", "0", at(0), at(0)))
		mock.ExpectRollback()

		err := store.BookingRepository.CreateExclusive(ctx, pendingBooking())
		require.Error(t, err)
		var conflict *domain.TimeConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, []int32{5}, conflict.BookingIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Vehicle Missing", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := store.BookingRepository.CreateExclusive(ctx, pendingBooking())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateExclusive(t *testing.T) {
	ctx := context.Background()

	t.Run("Terminal Status Skips Conflict Check", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		b := pendingBooking()
		b.ID = 7
		b.Status = domain.BookingStatusCompleted
		require.NoError(t, store.BookingRepository.UpdateExclusive(ctx, b))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reschedule Excludes Itself", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("FROM bookings\\s+WHERE vehicle_id = \\$1").
			WithArgs(int32(1), at(10), at(12), int32(7)).
			WillReturnRows(sqlmock.NewRows(bookingCols))
		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		b := pendingBooking()
		b.ID = 7
		require.NoError(t, store.BookingRepository.UpdateExclusive(ctx, b))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Booking", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec("UPDATE bookings SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		b := pendingBooking()
		b.ID = 7
		b.Status = domain.BookingStatusCancelled
		assert.ErrorIs(t, store.BookingRepository.UpdateExclusive(ctx, b), domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_CountActiveByVehicle(t *testing.T) {
	store, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM bookings WHERE vehicle_id = \\$1 AND status = 'active'").
		WithArgs(int32(1), int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := store.BookingRepository.CountActiveByVehicle(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
