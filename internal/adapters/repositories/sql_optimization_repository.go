package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the OptimizationRepository port.
type SQLOptimizationRepository struct {
	DB *sql.DB
}

func NewSQLOptimizationRepository(db *sql.DB) *SQLOptimizationRepository {
	return &SQLOptimizationRepository{DB: db}
}

// Persist one optimization result.
func (s *SQLOptimizationRepository) SaveOptimization(ctx context.Context, result *domain.OptimizationResult) (err error) {
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
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

// Return the optimization history of one route, most recent first.
func (s *SQLOptimizationRepository) ListOptimizations(ctx context.Context, routeID int64) (_ []*domain.OptimizationResult, err error) {
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
	WHERE route_id = $1
	ORDER BY computed_at DESC, optimization_id;
	`

	rows, err := s.DB.QueryContext(ctx, q, routeID)
	if err != nil {
		return nil, fmt.Errorf("list optimizations route=%d: query: %w", routeID, err)
	}
	defer rows.Close()

	return scanOptimizations(rows, routeID)
}

func scanOptimizations(rows *sql.Rows, routeID int64) ([]*domain.OptimizationResult, error) {
	out := make([]*domain.OptimizationResult, 0, 16)
	for rows.Next() {
		var row optimizationRow
		if err := rows.Scan(
			&row.optimizationID, &row.routeID, &row.objective, &row.status,
			&row.originalDistanceKm, &row.originalDurationSec,
			&row.optimizedDistanceKm, &row.optimizedDurationSec,
			&row.savedDistanceKm, &row.savedDurationSec, &row.savedFuelLiters, &row.savedCost,
			&row.stopOrder, &row.reason, &row.computedAt,
		); err != nil {
			return nil, fmt.Errorf("list optimizations route=%d: scan row: %w", routeID, err)
		}

		result, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("list optimizations route=%d: %w", routeID, err)
		}
		out = append(out, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list optimizations route=%d: row iteration: %w", routeID, err)
	}

	return out, nil
}
