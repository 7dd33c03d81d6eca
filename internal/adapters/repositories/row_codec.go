package repositories

import (
	"encoding/json"
	"fmt"
	"school-route-service/internal/domain"
	"time"
)

// optimizationRow is the flat scan/exec shape shared by the Postgres and
// SQLite adapters. Durations are stored in whole seconds, the stop order
// as a JSON array, and timestamps as RFC3339 text.
type optimizationRow struct {
	optimizationID       string
	routeID              int64
	objective            string
	status               string
	originalDistanceKm   float64
	originalDurationSec  int64
	optimizedDistanceKm  float64
	optimizedDurationSec int64
	savedDistanceKm      float64
	savedDurationSec     int64
	savedFuelLiters      float64
	savedCost            float64
	stopOrder            string
	reason               string
	computedAt           string
}

func toRow(r *domain.OptimizationResult) (optimizationRow, error) {
	order, err := json.Marshal(r.StopOrder)
	if err != nil {
		return optimizationRow{}, fmt.Errorf("encode stop order: %w", err)
	}

	return optimizationRow{
		optimizationID:       r.OptimizationID,
		routeID:              r.RouteID,
		objective:            string(r.Objective),
		status:               string(r.Status),
		originalDistanceKm:   r.OriginalDistance,
		originalDurationSec:  int64(r.OriginalDuration.Seconds()),
		optimizedDistanceKm:  r.OptimizedDistance,
		optimizedDurationSec: int64(r.OptimizedDuration.Seconds()),
		savedDistanceKm:      r.Savings.DistanceKm,
		savedDurationSec:     int64(r.Savings.Duration.Seconds()),
		savedFuelLiters:      r.Savings.FuelLiters,
		savedCost:            r.Savings.Cost,
		stopOrder:            string(order),
		reason:               r.Reason,
		computedAt:           r.ComputedAt.UTC().Format(time.RFC3339),
	}, nil
}

func fromRow(row optimizationRow) (*domain.OptimizationResult, error) {
	var order []int64
	if err := json.Unmarshal([]byte(row.stopOrder), &order); err != nil {
		return nil, fmt.Errorf("decode stop order for %q: %w", row.optimizationID, err)
	}

	computedAt, err := time.Parse(time.RFC3339, row.computedAt)
	if err != nil {
		return nil, fmt.Errorf("parse computed_at for %q: %w", row.optimizationID, err)
	}

	return &domain.OptimizationResult{
		OptimizationID:    row.optimizationID,
		RouteID:           row.routeID,
		Objective:         domain.Objective(row.objective),
		Status:            domain.OptimizationStatus(row.status),
		OriginalDistance:  row.originalDistanceKm,
		OriginalDuration:  time.Duration(row.originalDurationSec) * time.Second,
		OptimizedDistance: row.optimizedDistanceKm,
		OptimizedDuration: time.Duration(row.optimizedDurationSec) * time.Second,
		Savings: domain.Savings{
			DistanceKm: row.savedDistanceKm,
			Duration:   time.Duration(row.savedDurationSec) * time.Second,
			FuelLiters: row.savedFuelLiters,
			Cost:       row.savedCost,
		},
		StopOrder:  order,
		Reason:     row.reason,
		ComputedAt: computedAt,
	}, nil
}
