package services

import (
	"school-route-service/internal/domain"
	"testing"
)

func TestValidateRescheduleRejectsNewCriticalOverlap(t *testing.T) {
	existing := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(10, 0), at(10, 30)),
	}

	// Moving trip 2 on top of trip 1 creates a near-total vehicle overlap.
	v, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   2,
		NewStart: at(8, 5),
		NewEnd:   at(8, 35),
	}, ConflictOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Accepted {
		t.Fatal("reschedule into a critical overlap must be rejected")
	}
	if len(v.Blocking) == 0 {
		t.Fatal("rejected reschedule must carry the blocking conflicts")
	}
	for _, c := range v.Blocking {
		if len(c.Resolutions) == 0 {
			t.Fatalf("blocking conflict %s has no suggested resolutions", c.ConflictID)
		}
	}
}

func TestValidateRescheduleWarningsDoNotBlock(t *testing.T) {
	existing := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(10, 0), at(10, 30)),
	}

	// A 10 minute turnaround gap is a Low-severity warning, not a block.
	v, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   2,
		NewStart: at(8, 40),
		NewEnd:   at(9, 10),
	}, ConflictOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !v.Accepted {
		t.Fatalf("low severity must not block, got blocking %+v", v.Blocking)
	}
	if len(v.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", v.Warnings)
	}
}

func TestValidateReschedulePreexistingConflictsDoNotBlock(t *testing.T) {
	// Trips 1 and 2 already overlap before the change; trip 3 moves to a
	// clean slot elsewhere. The old conflict is not this change's fault.
	existing := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 5, 202, at(8, 10), at(8, 40)),
		trip(3, 102, 6, 203, at(9, 0), at(9, 30)),
	}

	v, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   3,
		NewStart: at(12, 0),
		NewEnd:   at(12, 30),
	}, ConflictOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !v.Accepted {
		t.Fatalf("pre-existing conflicts must not block an unrelated move, got %+v", v.Blocking)
	}
}

func TestValidateRescheduleSeverityEscalationBlocks(t *testing.T) {
	// The 10 minute gap between the trips is already a Low turnaround
	// warning on vehicle 5. Moving trip 2 fully on top of trip 1 keeps
	// the same conflicting pair but escalates it to a Critical overlap,
	// which must block despite the pair appearing in the before-set.
	existing := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(9, 0)),
		trip(2, 101, 5, 202, at(9, 10), at(10, 10)),
	}

	v, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   2,
		NewStart: at(8, 0),
		NewEnd:   at(9, 0),
	}, ConflictOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Accepted {
		t.Fatal("escalation from a turnaround warning to a full overlap must be rejected")
	}
	if len(v.Blocking) == 0 {
		t.Fatal("expected the escalated vehicle conflict in the blocking list")
	}
	for _, c := range v.Blocking {
		if c.Severity != domain.SeverityCritical {
			t.Fatalf("expected a Critical block for a full overlap, got %s", c.Severity)
		}
	}
}

func TestValidateRescheduleResourceChange(t *testing.T) {
	existing := []domain.Trip{
		trip(1, 100, 5, 201, at(8, 0), at(8, 30)),
		trip(2, 101, 6, 202, at(8, 0), at(8, 30)),
	}

	// Same slot, but switching trip 2 onto vehicle 5 double-books it.
	newVehicle := int64(5)
	v, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:       2,
		NewStart:     at(8, 0),
		NewEnd:       at(8, 30),
		NewVehicleID: &newVehicle,
	}, ConflictOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Accepted {
		t.Fatal("vehicle switch into a full overlap must be rejected")
	}
}

func TestValidateRescheduleUnknownTrip(t *testing.T) {
	existing := []domain.Trip{trip(1, 100, 5, 201, at(8, 0), at(8, 30))}

	if _, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   99,
		NewStart: at(9, 0),
		NewEnd:   at(9, 30),
	}, ConflictOptions{}); err == nil {
		t.Fatal("expected an error for a trip missing from the set")
	}
}

func TestValidateRescheduleInvalidWindow(t *testing.T) {
	existing := []domain.Trip{trip(1, 100, 5, 201, at(8, 0), at(8, 30))}

	if _, err := ValidateReschedule(existing, RescheduleRequest{
		TripID:   1,
		NewStart: at(9, 0),
		NewEnd:   at(9, 0),
	}, ConflictOptions{}); err == nil {
		t.Fatal("expected an error when new end is not after new start")
	}
}
