package repositories

import (
	"context"
	"database/sql"
	"school-route-service/internal/domain"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SqliteOptimizationRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewSqliteOptimizationRepository(db)
}

func TestOptimizationHistoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	result := &domain.OptimizationResult{
		OptimizationID:    "opt-1",
		RouteID:           42,
		Objective:         domain.ObjectiveDistance,
		Status:            domain.OptimizationSuccess,
		OriginalDistance:  15.6,
		OriginalDuration:  40 * time.Minute,
		OptimizedDistance: 5.5,
		OptimizedDuration: 47 * time.Minute,
		Savings: domain.Savings{
			DistanceKm: 10.1,
			Duration:   -7 * time.Minute,
			FuelLiters: 3.5,
			Cost:       8.2,
		},
		StopOrder:  []int64{1, 3, 5, 2, 4},
		ComputedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	if err := repo.SaveOptimization(ctx, result); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ListOptimizations(ctx, 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	r := got[0]
	if r.OptimizationID != "opt-1" || r.RouteID != 42 {
		t.Fatalf("identity mismatch: %+v", r)
	}
	if r.Status != domain.OptimizationSuccess || r.Objective != domain.ObjectiveDistance {
		t.Fatalf("tags mismatch: %+v", r)
	}
	if r.OriginalDistance != 15.6 || r.OptimizedDistance != 5.5 {
		t.Fatalf("distances mismatch: %+v", r)
	}
	if r.Savings.Duration != -7*time.Minute {
		t.Fatalf("negative duration saving must survive storage, got %s", r.Savings.Duration)
	}
	if len(r.StopOrder) != 5 || r.StopOrder[0] != 1 || r.StopOrder[4] != 4 {
		t.Fatalf("stop order mismatch: %v", r.StopOrder)
	}
	if !r.ComputedAt.Equal(result.ComputedAt) {
		t.Fatalf("computed_at = %v, want %v", r.ComputedAt, result.ComputedAt)
	}
}

func TestListOptimizationsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"opt-a", "opt-b", "opt-c"} {
		if err := repo.SaveOptimization(ctx, &domain.OptimizationResult{
			OptimizationID: id,
			RouteID:        7,
			Objective:      domain.ObjectiveDistance,
			Status:         domain.OptimizationNoImprovement,
			StopOrder:      []int64{},
			ComputedAt:     base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := repo.ListOptimizations(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].OptimizationID != "opt-c" || got[2].OptimizationID != "opt-a" {
		t.Fatalf("expected newest first, got %s..%s", got[0].OptimizationID, got[2].OptimizationID)
	}

	// Other routes keep independent histories.
	if other, err := repo.ListOptimizations(ctx, 8); err != nil || len(other) != 0 {
		t.Fatalf("route 8 history = (%v, %v), want empty", other, err)
	}
}
