package ports

import (
	"context"
	"school-route-service/internal/domain"
)

// Port: a boundary for persisting and retrieving RouteOptimization history.
type OptimizationRepository interface {
	// Persist one accepted optimization result.
	SaveOptimization(ctx context.Context, result *domain.OptimizationResult) error
	// Retrieve optimization history for a route, most recent first.
	ListOptimizations(ctx context.Context, routeID int64) ([]*domain.OptimizationResult, error)
}
