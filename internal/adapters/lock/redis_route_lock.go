package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteLock enforces the single-writer rule per route id: at most one
// optimization or reschedule validation in flight per route. The TTL keeps
// a crashed worker from holding a route forever.
type RedisRouteLock struct {
	client *redis.Client
}

func NewRedisRouteLock(client *redis.Client) *RedisRouteLock {
	return &RedisRouteLock{client: client}
}

func routeKey(routeID int64) string {
	return fmt.Sprintf("lock:route:%d", routeID)
}

// Acquire attempts to take the lock for the route.
// Returns true if the lock was acquired, false if already held.
func (l *RedisRouteLock) Acquire(ctx context.Context, routeID int64, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, routeKey(routeID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire route lock %d: %w", routeID, err)
	}

	return ok, nil
}

// Release frees the lock for the route.
func (l *RedisRouteLock) Release(ctx context.Context, routeID int64) error {
	if err := l.client.Del(ctx, routeKey(routeID)).Err(); err != nil {
		return fmt.Errorf("release route lock %d: %w", routeID, err)
	}
	return nil
}
