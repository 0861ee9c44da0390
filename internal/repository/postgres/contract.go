package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

const contractColumns = `id, owner_id, vehicle_id, start_date, end_date, pricing_type, owner_share_percent, company_share_percent, fixed_payout_amount, min_rental_days, enforce_min_rental_days, is_active, COALESCE(notes, ''), created_at, updated_at`

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func scanContract(row scanner) (*domain.Contract, error) {
	c := &domain.Contract{}
	var endDate pq.NullTime
	var minDays sql.NullInt32
	err := row.Scan(&c.ID, &c.OwnerID, &c.VehicleID, &c.StartDate, &endDate, &c.PricingType,
		&c.OwnerSharePercent, &c.CompanySharePercent, &c.FixedPayoutAmount, &minDays,
		&c.EnforceMinRentalDays, &c.IsActive, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		t := endDate.Time
		c.EndDate = &t
	}
	if minDays.Valid {
		c.MinRentalDays = &minDays.Int32
	}
	return c, nil
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts (owner_id, vehicle_id, start_date, end_date, pricing_type, owner_share_percent, company_share_percent, fixed_payout_amount, min_rental_days, enforce_min_rental_days, is_active, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, c.OwnerID, c.VehicleID, c.StartDate, c.EndDate, c.PricingType,
		c.OwnerSharePercent, c.CompanySharePercent, c.FixedPayoutAmount, c.MinRentalDays,
		c.EnforceMinRentalDays, c.IsActive, c.Notes, now, now).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%w: owner already has a contract for vehicle %d starting on %s",
				domain.ErrContractValidation, c.VehicleID, c.StartDate.Format(time.DateOnly))
		}
		return err
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("contract %d", id))
	}
	return c, nil
}

func (r *contractRepository) Update(ctx context.Context, c *domain.Contract) error {
	// A manual edit replaces whatever the expiry job decided.
	query := `UPDATE contracts SET end_date=$1, pricing_type=$2, owner_share_percent=$3, company_share_percent=$4, fixed_payout_amount=$5,
	          min_rental_days=$6, enforce_min_rental_days=$7, is_active=$8, notes=$9, updated_at=$10, expired_at=NULL WHERE id=$11`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, c.EndDate, c.PricingType, c.OwnerSharePercent, c.CompanySharePercent,
		c.FixedPayoutAmount, c.MinRentalDays, c.EnforceMinRentalDays, c.IsActive, c.Notes, now, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, fmt.Sprintf("contract %d", c.ID))
	}
	c.UpdatedAt = now
	return nil
}

func (r *contractRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE vehicle_id = $1 ORDER BY start_date DESC, created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

// FindInForce also matches contracts retired by the expiry job, so bookings
// inside their former term keep the owner share when saved again. Manually
// deactivated contracts never match.
func (r *contractRepository) FindInForce(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE vehicle_id = $1 AND (is_active = TRUE OR expired_at IS NOT NULL)
	            AND start_date <= $2
	            AND (end_date IS NULL OR end_date >= $3)
	          ORDER BY start_date DESC, created_at DESC, id DESC
	          LIMIT 1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, vehicleID, domain.DateOf(startAt), domain.DateOf(endAt)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) HasActive(ctx context.Context, vehicleID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM contracts WHERE vehicle_id = $1 AND is_active = TRUE)`
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(&exists)
	return exists, err
}

func (r *contractRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	logger.DatabaseCall("DeactivateExpiredContracts", "as_of", asOf)
	query := `UPDATE contracts SET is_active = FALSE, expired_at = $1, updated_at = $1 WHERE is_active = TRUE AND end_date IS NOT NULL AND end_date < $2`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), domain.DateOf(asOf))
	if err != nil {
		logger.DatabaseResult("DeactivateExpiredContracts", 0, err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DeactivateExpiredContracts", n, nil)
	return n, nil
}
