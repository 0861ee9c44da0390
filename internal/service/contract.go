package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type contractService struct {
	contractRepo repository.ContractRepository
	vehicleRepo  repository.VehicleRepository
	settingsSvc  SettingsService
}

func NewContractService(contractRepo repository.ContractRepository, vehicleRepo repository.VehicleRepository, settingsSvc SettingsService) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		vehicleRepo:  vehicleRepo,
		settingsSvc:  settingsSvc,
	}
}

func (s *contractService) CreateContract(ctx context.Context, c *domain.Contract) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, c.VehicleID)
	if err != nil {
		return err
	}
	if c.OwnerID != vehicle.OwnerID {
		return fmt.Errorf("%w: vehicle %d is not owned by owner %d", domain.ErrContractValidation, vehicle.ID, c.OwnerID)
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return err
	}
	c.StartDate = domain.DateOf(c.StartDate)
	if c.EndDate != nil {
		end := domain.DateOf(*c.EndDate)
		c.EndDate = &end
	}
	if err := utils.PrepareContract(c, settings); err != nil {
		return err
	}
	if c.IsActive {
		if err := s.rejectOverlap(ctx, c); err != nil {
			return err
		}
	}

	if err := s.contractRepo.Create(ctx, c); err != nil {
		return err
	}
	logger.Info("Contract created", "contract_id", c.ID, "vehicle_id", c.VehicleID, "pricing_type", c.PricingType)

	if c.IsActive {
		s.activateVehicle(ctx, vehicle)
	}
	return nil
}

func (s *contractService) GetContract(ctx context.Context, id int32) (*domain.Contract, error) {
	return s.contractRepo.GetByID(ctx, id)
}

func (s *contractService) ListContracts(ctx context.Context, vehicleID int32) ([]domain.Contract, error) {
	return s.contractRepo.ListByVehicle(ctx, vehicleID)
}

func (s *contractService) ToggleContract(ctx context.Context, id int32) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = !c.IsActive
	if c.IsActive {
		if err := s.rejectOverlap(ctx, c); err != nil {
			return nil, err
		}
	}
	if err := s.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("Contract toggled", "contract_id", c.ID, "is_active", c.IsActive)

	if c.IsActive {
		vehicle, err := s.vehicleRepo.GetByID(ctx, c.VehicleID)
		if err != nil {
			return nil, err
		}
		s.activateVehicle(ctx, vehicle)
	}
	return c, nil
}

// rejectOverlap keeps at most one active contract per vehicle on any day.
func (s *contractService) rejectOverlap(ctx context.Context, c *domain.Contract) error {
	existing, err := s.contractRepo.ListByVehicle(ctx, c.VehicleID)
	if err != nil {
		return err
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == c.ID || !other.IsActive {
			continue
		}
		if c.Overlaps(other) {
			return fmt.Errorf("%w: overlaps active contract %d on vehicle %d",
				domain.ErrContractValidation, other.ID, c.VehicleID)
		}
	}
	return nil
}

// activateVehicle is best effort: the contract is already stored.
func (s *contractService) activateVehicle(ctx context.Context, v *domain.Vehicle) {
	before := v.Status
	if err := promoteIfReady(ctx, s.contractRepo, v); err != nil {
		logger.Warn("Failed to evaluate vehicle activation", "vehicle_id", v.ID, "error", err)
		return
	}
	if v.Status == before {
		return
	}
	if err := s.vehicleRepo.UpdateStatus(ctx, v.ID, v.Status); err != nil {
		logger.Warn("Failed to activate vehicle", "vehicle_id", v.ID, "error", err)
	}
}
