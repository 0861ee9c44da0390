package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type revenueAllocator struct {
	contractRepo repository.ContractRepository
}

func NewRevenueAllocator(contractRepo repository.ContractRepository) RevenueAllocator {
	return &revenueAllocator{contractRepo: contractRepo}
}

func (a *revenueAllocator) Allocate(ctx context.Context, vehicleID int32, startAt, endAt time.Time, total decimal.Decimal) utils.Allocation {
	contract, err := a.contractRepo.FindInForce(ctx, vehicleID, startAt, endAt)
	if err != nil {
		logger.WarnContext(ctx, "Contract lookup failed, allocating full amount to company",
			"vehicle_id", vehicleID, "total", total.StringFixed(2), "error", err)
		return utils.FailedAllocation(total, fmt.Errorf("contract lookup for vehicle %d: %w", vehicleID, err))
	}

	alloc := utils.AllocateRevenue(total, contract)
	switch alloc.Outcome {
	case utils.AllocationNoContractFallback:
		logger.InfoContext(ctx, "No contract in force, allocating full amount to company",
			"vehicle_id", vehicleID, "start_at", startAt, "end_at", endAt, "total", total.StringFixed(2))
	case utils.AllocationError:
		logger.WarnContext(ctx, "Contract could not be applied, allocating full amount to company",
			"vehicle_id", vehicleID, "contract_id", contract.ID, "error", alloc.Err)
	}
	if alloc.Negative() {
		logger.WarnContext(ctx, "Fixed payout exceeds booking total, company share is negative",
			"vehicle_id", vehicleID, "contract_id", contract.ID,
			"total", total.StringFixed(2), "company_earned", alloc.CompanyEarned.StringFixed(2))
	}
	return alloc
}
