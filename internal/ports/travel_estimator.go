package ports

import (
	"context"
	"school-route-service/internal/domain"
	"time"
)

// Travel distance and duration between two geographic points.
type TravelEstimate struct {
	DistanceKm float64
	Duration   time.Duration
}

// Contract for estimating travel between stops. The default implementation
// is pure great-circle geometry; a road-network provider can be plugged in
// behind the same port without touching the sequencing code.
type TravelEstimator interface {
	// Return estimated travel distance and duration between two points.
	Estimate(ctx context.Context, from, to domain.GeoPoint) (TravelEstimate, error)
}
