package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"carrental-backend/internal/logger"
)

// Deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a per-vehicle key with SET NX PX so that several API
// instances serialize on the same vehicle.
type RedisLocker struct {
	client    redis.UniversalClient
	ttl       time.Duration
	retryWait time.Duration
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:    client,
		ttl:       ttl,
		retryWait: 25 * time.Millisecond,
	}
}

// NewRedisClient creates a client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

func (l *RedisLocker) Lock(ctx context.Context, vehicleID int32) (func(), error) {
	key := vehicleKey(vehicleID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: vehicle %d: %v", ErrLockTimeout, vehicleID, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire vehicle lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-time.After(l.retryWait):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: vehicle %d: %v", ErrLockTimeout, vehicleID, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release even if the request context was cancelled meanwhile.
			relCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := releaseScript.Run(relCtx, l.client, []string{key}, token).Err(); err != nil {
				logger.Warn("Failed to release vehicle lock", "vehicle_id", vehicleID, "error", err)
			}
		})
	}, nil
}
