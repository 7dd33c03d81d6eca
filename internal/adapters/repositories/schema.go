package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the route_optimizations history table. The DDL sticks to the
// common subset of Postgres and SQLite so both backends share it; only the
// DML placeholders differ per adapter.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOptimizationsQuery := `
	CREATE TABLE IF NOT EXISTS route_optimizations (
		optimization_id        TEXT PRIMARY KEY,
		route_id               INTEGER NOT NULL,
		objective              TEXT NOT NULL,
		status                 TEXT NOT NULL,
		original_distance_km   REAL NOT NULL,
		original_duration_sec  INTEGER NOT NULL,
		optimized_distance_km  REAL NOT NULL,
		optimized_duration_sec INTEGER NOT NULL,
		saved_distance_km      REAL NOT NULL,
		saved_duration_sec     INTEGER NOT NULL,
		saved_fuel_liters      REAL NOT NULL,
		saved_cost             REAL NOT NULL,
		stop_order             TEXT NOT NULL,
		reason                 TEXT NOT NULL,
		computed_at            TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_optimizations_route_computed
	ON route_optimizations(route_id, computed_at);
	`

	statements := []string{
		createOptimizationsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
