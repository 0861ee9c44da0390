package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

// The settings table holds at most one row, keyed by id = 1.
const settingsRowID = 1

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	s := &domain.SystemSettings{}
	query := `SELECT min_owner_rental_days, min_renter_rental_hours, late_fee_percent, default_owner_share_percent, default_company_share_percent, updated_at
	          FROM system_settings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(&s.MinOwnerRentalDays, &s.MinRenterRentalHours,
		&s.LateFeePercent, &s.DefaultOwnerSharePercent, &s.DefaultCompanySharePercent, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "system settings")
	}
	return s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s *domain.SystemSettings) error {
	query := `INSERT INTO system_settings (id, min_owner_rental_days, min_renter_rental_hours, late_fee_percent, default_owner_share_percent, default_company_share_percent, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET
	              min_owner_rental_days = EXCLUDED.min_owner_rental_days,
	              min_renter_rental_hours = EXCLUDED.min_renter_rental_hours,
	              late_fee_percent = EXCLUDED.late_fee_percent,
	              default_owner_share_percent = EXCLUDED.default_owner_share_percent,
	              default_company_share_percent = EXCLUDED.default_company_share_percent,
	              updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, settingsRowID, s.MinOwnerRentalDays, s.MinRenterRentalHours,
		s.LateFeePercent, s.DefaultOwnerSharePercent, s.DefaultCompanySharePercent, now)
	if err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}
