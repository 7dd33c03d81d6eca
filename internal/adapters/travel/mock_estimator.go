package travel

import (
	"context"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"time"
)

type MockLeg struct {
	From, To domain.GeoPoint
	Km       float64
	Dur      time.Duration
}

// MockEstimator serves fixed travel estimates from an in-memory table.
// Used by tests that need exact distances independent of geometry.
type MockEstimator struct {
	m map[string]ports.TravelEstimate
}

func NewMockEstimator(legs []MockLeg) *MockEstimator {
	m := make(map[string]ports.TravelEstimate, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = ports.TravelEstimate{DistanceKm: l.Km, Duration: l.Dur}
	}
	return &MockEstimator{m: m}
}

func (e *MockEstimator) Estimate(ctx context.Context, from, to domain.GeoPoint) (ports.TravelEstimate, error) {
	r, ok := e.m[legKey(from, to)]
	if !ok {
		return ports.TravelEstimate{}, fmt.Errorf("missing leg %v -> %v", from, to)
	}

	return r, nil
}

func legKey(a, b domain.GeoPoint) string {
	return fmt.Sprintf("%v,%v|%v,%v", a.Lat, a.Lon, b.Lat, b.Lon)
}
