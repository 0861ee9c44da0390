package jobs

import (
	"context"
	"time"

	"carrental-backend/internal/config"
	"carrental-backend/internal/lock"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	vehicleRepo  repository.VehicleRepository
	contractRepo repository.ContractRepository
	bookingRepo  repository.BookingRepository
	locker       lock.VehicleLocker
	config       *config.Config
	now          func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	vehicleRepo repository.VehicleRepository,
	contractRepo repository.ContractRepository,
	bookingRepo repository.BookingRepository,
	locker lock.VehicleLocker,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		vehicleRepo:  vehicleRepo,
		contractRepo: contractRepo,
		bookingRepo:  bookingRepo,
		locker:       locker,
		config:       cfg,
		now:          time.Now,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	start := jr.now()
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration_ms", jr.now().Sub(start).Milliseconds())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpireContracts()
	jr.ReconcileVehicleStatus()
}
