package jobs

import (
	"context"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

// ReconcileVehicleStatus repairs vehicles whose rented/available status
// disagrees with their active bookings
func (jr *JobRunner) ReconcileVehicleStatus() {
	jr.runWithRecovery("ReconcileVehicleStatus", func(ctx context.Context) error {
		_, err := jr.reconcileVehicleStatus(ctx)
		return err
	})
}

func (jr *JobRunner) reconcileVehicleStatus(ctx context.Context) (int, error) {
	drifted, err := jr.vehicleRepo.ListStatusDrift(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, v := range drifted {
		ok, err := jr.reconcileVehicle(ctx, v.ID)
		if err != nil {
			logger.Error("Failed to reconcile vehicle", "vehicle_id", v.ID, "error", err)
			continue
		}
		if ok {
			fixed++
		}
	}
	logger.Info("Reconciled vehicle status", "drifted", len(drifted), "fixed", fixed)
	return fixed, nil
}

// reconcileVehicle re-reads the vehicle under its booking lock so a
// concurrent status change is not overwritten.
func (jr *JobRunner) reconcileVehicle(ctx context.Context, vehicleID int32) (bool, error) {
	unlock, err := jr.locker.Lock(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	defer unlock()

	v, err := jr.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	active, err := jr.bookingRepo.CountActiveByVehicle(ctx, vehicleID, 0)
	if err != nil {
		return false, err
	}

	var next domain.VehicleStatus
	switch {
	case v.Status == domain.VehicleStatusRented && active == 0:
		next = domain.VehicleStatusAvailable
	case v.Status == domain.VehicleStatusAvailable && active > 0:
		next = domain.VehicleStatusRented
	default:
		return false, nil
	}

	if err := jr.vehicleRepo.UpdateStatus(ctx, vehicleID, next); err != nil {
		return false, err
	}
	logger.Info("Vehicle status repaired", "vehicle_id", vehicleID, "from", v.Status, "to", next, "active_bookings", active)
	return true, nil
}
