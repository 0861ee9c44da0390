package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"carrental-backend/internal/jobs"
	"carrental-backend/internal/logger"
)

// Scheduler runs the maintenance jobs on their configured cron specs.
// Specs carry a seconds field and are evaluated in UTC.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

type entry struct {
	name string
	spec string
	run  func()
}

// NewScheduler registers every maintenance job. It fails when a
// configured cron spec does not parse.
func NewScheduler(runner *jobs.JobRunner) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		jobs: runner,
	}

	cfg := runner.Config().Scheduler
	entries := []entry{
		{name: "expire-contracts", spec: cfg.ExpireContracts, run: runner.ExpireContracts},
		{name: "reconcile-vehicle-status", spec: cfg.ReconcileVehicleStatus, run: runner.ReconcileVehicleStatus},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.run); err != nil {
			logger.Error("Invalid cron spec", "job", e.name, "spec", e.spec, "error", err)
			return nil, fmt.Errorf("register %s: %w", e.name, err)
		}
		logger.Debug("Registered job", "job", e.name, "spec", e.spec)
	}

	logger.Info("Cron jobs registered", "count", s.Entries())
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
