package lock

import (
	"context"
	"errors"
	"fmt"

	"carrental-backend/internal/config"
)

var ErrLockTimeout = errors.New("timed out waiting for vehicle lock")

// VehicleLocker serializes booking mutations per vehicle.
// Backends: in-process keyed mutex (single instance) or Redis (multi instance).
type VehicleLocker interface {
	// Lock blocks until the vehicle is held or ctx is done. The returned
	// function releases the lock and is safe to call once.
	Lock(ctx context.Context, vehicleID int32) (unlock func(), err error)
}

func vehicleKey(vehicleID int32) string {
	return fmt.Sprintf("carrental:lock:vehicle:%d", vehicleID)
}

// NewVehicleLocker builds the locker selected by cfg.Lock. The returned
// close function releases backend connections.
func NewVehicleLocker(ctx context.Context, cfg *config.Config) (VehicleLocker, func() error, error) {
	switch cfg.Lock.Type {
	case "redis":
		client, err := NewRedisClient(ctx, cfg.Lock.RedisAddr, cfg.Lock.RedisPassword, cfg.Lock.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisLocker(client, cfg.LockTTL()), client.Close, nil
	case "", "memory":
		return NewMemoryLocker(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported lock type: %s", cfg.Lock.Type)
	}
}
