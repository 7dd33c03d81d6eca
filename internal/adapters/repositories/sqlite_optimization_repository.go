package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
)

// SQLite-backed implementation of the OptimizationRepository port, used
// for local runs without a Postgres instance.
type SqliteOptimizationRepository struct {
	DB *sql.DB
}

func NewSqliteOptimizationRepository(db *sql.DB) *SqliteOptimizationRepository {
	return &SqliteOptimizationRepository{DB: db}
}

func (s *SqliteOptimizationRepository) SaveOptimization(ctx context.Context, result *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "optimizations.Save")(&err)

	if s.DB == nil {
		return errors.New("optimization repository: DB is nil")
	}
	if result == nil {
		return errors.New("save optimization: result must be non-nil")
	}

	row, err := toRow(result)
	if err != nil {
		return fmt.Errorf("save optimization: %w", err)
	}

	q := `
	INSERT INTO route_optimizations (
		optimization_id, route_id, objective, status,
		original_distance_km, original_duration_sec,
		optimized_distance_km, optimized_duration_sec,
		saved_distance_km, saved_duration_sec, saved_fuel_liters, saved_cost,
		stop_order, reason, computed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		row.optimizationID, row.routeID, row.objective, row.status,
		row.originalDistanceKm, row.originalDurationSec,
		row.optimizedDistanceKm, row.optimizedDurationSec,
		row.savedDistanceKm, row.savedDurationSec, row.savedFuelLiters, row.savedCost,
		row.stopOrder, row.reason, row.computedAt,
	); err != nil {
		return fmt.Errorf("save optimization %q: %w", row.optimizationID, err)
	}

	return nil
}

func (s *SqliteOptimizationRepository) ListOptimizations(ctx context.Context, routeID int64) (_ []*domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizations.List")(&err)

	if s.DB == nil {
		return nil, errors.New("optimization repository: DB is nil")
	}

	q := `
	SELECT
		optimization_id, route_id, objective, status,
		original_distance_km, original_duration_sec,
		optimized_distance_km, optimized_duration_sec,
		saved_distance_km, saved_duration_sec, saved_fuel_liters, saved_cost,
		stop_order, reason, computed_at
	FROM route_optimizations
	WHERE route_id = ?
	ORDER BY computed_at DESC, optimization_id;
	`

	rows, err := s.DB.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("list optimizations route=%d: query: %w", routeID, err)
	}
	defer rows.Close()

	return scanOptimizations(rows, routeID)
}
