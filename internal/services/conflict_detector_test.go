package services

import (
	"school-route-service/internal/domain"
	"testing"
	"time"
)

func trip(id, routeID, vehicleID, driverID int64, start, end time.Time) domain.Trip {
	return domain.Trip{
		TripID:         id,
		TenantID:       1,
		RouteID:        routeID,
		VehicleID:      vehicleID,
		DriverID:       driverID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         domain.TripStatusScheduled,
	}
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestDetectConflictsVehicleOverlapHigh(t *testing.T) {
	// Two trips on vehicle 5: 08:00-08:30 and 08:20-08:50. Overlap is 10
	// of 30 minutes (33%), which classifies as High.
	trips := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(8, 20), at(8, 50)),
	}

	conflicts := DetectConflicts(trips, ConflictOptions{})
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d: %+v", len(conflicts), conflicts)
	}

	c := conflicts[0]
	if c.Type != domain.ConflictTypeVehicle {
		t.Fatalf("type = %s, want VEHICLE_CONFLICT", c.Type)
	}
	if c.Severity != domain.SeverityHigh {
		t.Fatalf("severity = %s, want HIGH", c.Severity)
	}
	if c.ResourceID != 5 {
		t.Fatalf("resource = %d, want 5", c.ResourceID)
	}
	if len(c.AffectedTripIDs) != 2 || c.AffectedTripIDs[0] != 1 || c.AffectedTripIDs[1] != 2 {
		t.Fatalf("affected trips = %v, want [1 2]", c.AffectedTripIDs)
	}
	if c.ConflictID == "" {
		t.Fatal("conflict id not assigned")
	}
}

func TestDetectConflictsSeverityLadder(t *testing.T) {
	cases := []struct {
		name     string
		second   domain.Trip
		severity domain.ConflictSeverity
	}{
		// Overlap 20 of 30 minutes (66%) is Critical.
		{"critical overlap", trip(2, 101, 5, 202, at(8, 10), at(8, 40)), domain.SeverityCritical},
		// Overlap 10 of 30 minutes (33%) is High.
		{"high overlap", trip(2, 101, 5, 202, at(8, 20), at(8, 50)), domain.SeverityHigh},
		// Overlap 5 of 30 minutes (16%) is Medium.
		{"medium overlap", trip(2, 101, 5, 202, at(8, 25), at(8, 55)), domain.SeverityMedium},
		// Back-to-back with a 3 minute gap is Critical.
		{"tight gap", trip(2, 101, 5, 202, at(8, 33), at(9, 0)), domain.SeverityCritical},
		// A 10 minute gap under the 15 minute turnaround is Low.
		{"short turnaround", trip(2, 101, 5, 202, at(8, 40), at(9, 10)), domain.SeverityLow},
	}

	for _, tc := range cases {
		trips := []domain.Trip{trip(1, 100, 5, 201, at(8, 0), at(8, 30)), tc.second}
		conflicts := DetectConflicts(trips, ConflictOptions{})
		if len(conflicts) != 1 {
			t.Fatalf("%s: expected 1 conflict, got %d", tc.name, len(conflicts))
		}
		if conflicts[0].Severity != tc.severity {
			t.Fatalf("%s: severity = %s, want %s", tc.name, conflicts[0].Severity, tc.severity)
		}
	}
}

func TestDetectConflictsNoConflictWithAmpleGap(t *testing.T) {
	trips := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(8, 50), at(9, 20)),
	}

	if conflicts := DetectConflicts(trips, ConflictOptions{}); len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %+v", conflicts)
	}
}

func TestDetectConflictsOneRecordPerResource(t *testing.T) {
	// Same vehicle and same driver: two records, one per resource, so the
	// dispatcher can resolve them independently.
	trips := []domain.Trip{
		trip(1, 100, 5, 200, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 200, at(8, 20), at(8, 50)),
	}

	conflicts := DetectConflicts(trips, ConflictOptions{})
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d: %+v", len(conflicts), conflicts)
	}

	kinds := map[domain.ConflictType]int{}
	for _, c := range conflicts {
		kinds[c.Type]++
	}
	if kinds[domain.ConflictTypeVehicle] != 1 || kinds[domain.ConflictTypeDriver] != 1 {
		t.Fatalf("expected one vehicle and one driver conflict, got %v", kinds)
	}
}

func TestDetectConflictsPairSymmetry(t *testing.T) {
	// Synthetic set with a long trip spanning two short ones plus an
	// unrelated vehicle. Exhaustive pairwise overlap on one resource must
	// match the detector: one record per overlapping pair, no duplicates.
	trips := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(10, 0)),
		trip(2, 101, 5, 202, at(8, 30), at(9, 0)),
		trip(3, 102, 5, 203, at(9, 20), at(9, 50)),
		trip(4, 103, 6, 204, at(8, 0), at(9, 0)),
	}

	conflicts := DetectConflicts(trips, ConflictOptions{})

	want := map[string]bool{}
	for i := 0; i < len(trips); i++ {
		for j := i + 1; j < len(trips); j++ {
			if trips[i].VehicleID != trips[j].VehicleID {
				continue
			}
			if trips[i].Overlap(trips[j]) > 0 {
				key := domain.ScheduleConflict{
					Type:            domain.ConflictTypeVehicle,
					AffectedTripIDs: []int64{trips[i].TripID, trips[j].TripID},
				}.PairKey()
				want[key] = true
			}
		}
	}

	got := map[string]int{}
	for _, c := range conflicts {
		if c.Type == domain.ConflictTypeVehicle {
			got[c.PairKey()]++
		}
	}

	for key := range want {
		if got[key] != 1 {
			t.Fatalf("pair %s reported %d times, want exactly 1 (got %v)", key, got[key], got)
		}
	}
	for key, n := range got {
		if !want[key] && n > 0 {
			// Gap-based records are allowed only between neighbours; none
			// apply in this set.
			t.Fatalf("unexpected conflict pair %s", key)
		}
	}
}

func TestDetectConflictsSkipsCancelledTrips(t *testing.T) {
	cancelled := trip(2, 101, 5, 202, at(8, 20), at(8, 50))
	cancelled.Status = domain.TripStatusCancelled

	trips := []domain.Trip{trip(1, 100, 5, 201, at(8, 0), at(8, 30)), cancelled}

	if conflicts := DetectConflicts(trips, ConflictOptions{}); len(conflicts) != 0 {
		t.Fatalf("cancelled trips hold no resources, got %+v", conflicts)
	}
}

func TestDetectConflictsResolutions(t *testing.T) {
	trips := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(8, 10), at(8, 40)), // 20 of 30 min: Critical
	}

	conflicts := DetectConflicts(trips, ConflictOptions{
		AlternateVehicleIDs: []int64{5, 9},
	})
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}

	kinds := map[domain.ResolutionKind]domain.Resolution{}
	for _, r := range conflicts[0].Resolutions {
		kinds[r.Kind] = r
	}

	reassign, ok := kinds[domain.ResolutionReassign]
	if !ok {
		t.Fatalf("expected a reassignment suggestion, got %+v", conflicts[0].Resolutions)
	}
	if reassign.AlternateResourceID != 9 {
		t.Fatalf("reassignment picked resource %d, want 9 (5 is the conflicted one)", reassign.AlternateResourceID)
	}

	shift, ok := kinds[domain.ResolutionShiftTime]
	if !ok {
		t.Fatalf("expected a shift suggestion, got %+v", conflicts[0].Resolutions)
	}
	// Trip 2 must move from 08:10 to 08:45 to restore the 15 min turnaround.
	if shift.Shift != 35*time.Minute {
		t.Fatalf("shift = %s, want 35m", shift.Shift)
	}

	// Critical severity always includes manual review.
	if _, ok := kinds[domain.ResolutionManualReview]; !ok {
		t.Fatalf("critical conflict missing manual review, got %+v", conflicts[0].Resolutions)
	}
}
