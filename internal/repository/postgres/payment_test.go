package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
)

func TestPaymentRepository_Record(t *testing.T) {
	ctx := context.Background()
	payment := func() *domain.Payment {
		return &domain.Payment{BookingID: 7, Amount: decimal.NewFromInt(10), Type: domain.PaymentTypeAdvance, Method: domain.PaymentMethodCash}
	}
	booking := func() *domain.Booking {
		return &domain.Booking{
			ID: 7, VehicleID: 1, StartAt: at(10), EndAt: at(12),
			Status: domain.BookingStatusActive, PaymentStatus: domain.PaymentStatusPartial,
			TotalPrice: decimal.NewFromInt(30), OwnerEarned: decimal.NewFromInt(24), CompanyEarned: decimal.NewFromInt(6),
			PaidAmount: decimal.NewFromInt(10),
		}
	}

	t.Run("Success", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectExec("UPDATE bookings SET payment_status=\\$1").
			WithArgs(domain.PaymentStatusPartial, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		p := payment()
		require.NoError(t, store.PaymentRepository.Record(ctx, p, booking()))
		assert.Equal(t, int32(11), p.ID)
		assert.False(t, p.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Update Fails Rolls Back Payment", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectExec("UPDATE bookings SET payment_status=\\$1").
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		err := store.PaymentRepository.Record(ctx, payment(), booking())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Booking Rolls Back Payment", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectExec("UPDATE bookings SET payment_status=\\$1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.PaymentRepository.Record(ctx, payment(), booking())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
