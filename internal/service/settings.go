package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type settingsService struct {
	repo     repository.SettingsRepository
	defaults domain.SystemSettings
}

func NewSettingsService(repo repository.SettingsRepository, defaults domain.SystemSettings) SettingsService {
	return &settingsService{repo: repo, defaults: defaults}
}

func (s *settingsService) GetSettings(ctx context.Context) (domain.SystemSettings, error) {
	current, err := s.repo.Get(ctx)
	if err == nil {
		return *current, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.SystemSettings{}, err
	}

	logger.Info("No system settings found, creating from defaults",
		"min_owner_rental_days", s.defaults.MinOwnerRentalDays,
		"min_renter_rental_hours", s.defaults.MinRenterRentalHours)
	created := s.defaults
	if err := s.repo.Save(ctx, &created); err != nil {
		return domain.SystemSettings{}, fmt.Errorf("failed to create default settings: %w", err)
	}
	return created, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, next domain.SystemSettings) (domain.SystemSettings, error) {
	if err := validateSettings(next); err != nil {
		return domain.SystemSettings{}, err
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		return domain.SystemSettings{}, err
	}
	return next, nil
}

func validateSettings(s domain.SystemSettings) error {
	if s.MinOwnerRentalDays < 0 {
		return fmt.Errorf("%w: min_owner_rental_days cannot be negative", domain.ErrInvalidInput)
	}
	if s.MinRenterRentalHours < 0 {
		return fmt.Errorf("%w: min_renter_rental_hours cannot be negative", domain.ErrInvalidInput)
	}
	if s.LateFeePercent.IsNegative() {
		return fmt.Errorf("%w: late_fee_percent cannot be negative", domain.ErrInvalidInput)
	}
	if s.DefaultOwnerSharePercent.IsNegative() || s.DefaultCompanySharePercent.IsNegative() {
		return fmt.Errorf("%w: default share percentages cannot be negative", domain.ErrInvalidInput)
	}
	if !s.DefaultOwnerSharePercent.Add(s.DefaultCompanySharePercent).Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: default share percentages must sum to 100", domain.ErrInvalidInput)
	}
	return nil
}
