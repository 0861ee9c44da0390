package jobs

import (
	"context"

	"carrental-backend/internal/logger"
)

// ExpireContracts deactivates contracts whose end date has passed
func (jr *JobRunner) ExpireContracts() {
	jr.runWithRecovery("ExpireContracts", func(ctx context.Context) error {
		_, err := jr.expireContracts(ctx)
		return err
	})
}

func (jr *JobRunner) expireContracts(ctx context.Context) (int64, error) {
	n, err := jr.contractRepo.DeactivateExpired(ctx, jr.now().UTC())
	if err != nil {
		return 0, err
	}
	logger.Info("Deactivated expired contracts", "count", n)
	return n, nil
}
