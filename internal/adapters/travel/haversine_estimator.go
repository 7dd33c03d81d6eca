package travel

import (
	"context"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
)

const defaultAvgSpeedKmh = 30.0

// HaversineEstimator estimates travel as great-circle distance at a fixed
// average speed. It is the default estimator: deterministic, pure CPU, no
// network. School routes are short and urban, so a conservative average
// speed tracks reality closely enough for sequencing decisions.
type HaversineEstimator struct {
	AvgSpeedKmh float64
}

func NewHaversineEstimator(avgSpeedKmh float64) *HaversineEstimator {
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = defaultAvgSpeedKmh
	}
	return &HaversineEstimator{AvgSpeedKmh: avgSpeedKmh}
}

func (e *HaversineEstimator) Estimate(ctx context.Context, from, to domain.GeoPoint) (ports.TravelEstimate, error) {
	d, err := domain.Distance(from, to)
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("haversine estimate: %w", err)
	}

	return ports.TravelEstimate{
		DistanceKm: d,
		Duration:   domain.EstimateDuration(d, e.AvgSpeedKmh),
	}, nil
}
