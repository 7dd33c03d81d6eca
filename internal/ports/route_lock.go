package ports

import (
	"context"
	"time"
)

// Port: single-writer lock keyed by route id. At most one optimization or
// reschedule validation may be in flight per route, otherwise two callers
// would race on which result gets persisted against the same baseline.
type RouteLock interface {
	// Acquire returns true when the lock was taken, false when already held.
	Acquire(ctx context.Context, routeID int64, ttl time.Duration) (bool, error)
	// Release frees the lock for the route.
	Release(ctx context.Context, routeID int64) error
}
