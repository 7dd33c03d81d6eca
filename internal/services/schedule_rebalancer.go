package services

import (
	"fmt"
	"school-route-service/internal/domain"
	"time"
)

// RescheduleRequest is one proposed change to a scheduled trip. Vehicle
// and driver overrides are optional; nil keeps the current assignment.
type RescheduleRequest struct {
	TripID       int64
	NewStart     time.Time
	NewEnd       time.Time
	NewVehicleID *int64
	NewDriverID  *int64
}

// RescheduleValidation is the outcome of gating one reschedule request.
// Blocking conflicts are new High or Critical conflicts the change would
// introduce; warnings are new Low and Medium conflicts that do not block
// the commit.
type RescheduleValidation struct {
	Accepted bool
	Blocking []domain.ScheduleConflict
	Warnings []domain.ScheduleConflict
}

// ValidateReschedule gates a reschedule request against the tenant's trip
// set. The hypothetical set (the existing trips with the one trip
// replaced) is run through conflict detection; only conflicts that did not
// exist before the change count against it. Committing the accepted change
// is the caller's responsibility; this is a pure validation step.
func ValidateReschedule(
	existing []domain.Trip,
	change RescheduleRequest,
	opts ConflictOptions,
) (*RescheduleValidation, error) {
	if !change.NewEnd.After(change.NewStart) {
		return nil, fmt.Errorf("validate reschedule: trip %d: new end %v not after new start %v",
			change.TripID, change.NewEnd, change.NewStart)
	}

	found := false
	proposed := make([]domain.Trip, 0, len(existing))
	for _, t := range existing {
		if t.TripID != change.TripID {
			proposed = append(proposed, t)
			continue
		}
		found = true

		moved := t
		moved.ScheduledStart = change.NewStart
		moved.ScheduledEnd = change.NewEnd
		if change.NewVehicleID != nil {
			moved.VehicleID = *change.NewVehicleID
		}
		if change.NewDriverID != nil {
			moved.DriverID = *change.NewDriverID
		}
		proposed = append(proposed, moved)
	}
	if !found {
		return nil, fmt.Errorf("validate reschedule: trip %d not in existing trip set", change.TripID)
	}

	// Pre-existing conflicts are not this change's fault: only conflicts
	// absent from the before-set, or escalated past their before-set
	// severity, can block the commit. A pair that already had a Low
	// turnaround warning still counts as new when the change turns it
	// into an overlap.
	before := make(map[string]domain.ConflictSeverity)
	for _, c := range DetectConflicts(existing, opts) {
		if c.Severity.Rank() > before[c.PairKey()].Rank() {
			before[c.PairKey()] = c.Severity
		}
	}

	v := &RescheduleValidation{Accepted: true}
	for _, c := range DetectConflicts(proposed, opts) {
		if prev, existed := before[c.PairKey()]; existed && c.Severity.Rank() <= prev.Rank() {
			continue
		}

		switch c.Severity {
		case domain.SeverityHigh, domain.SeverityCritical:
			v.Accepted = false
			v.Blocking = append(v.Blocking, c)
		default:
			v.Warnings = append(v.Warnings, c)
		}
	}

	return v, nil
}
