package services

import (
	"fmt"
	"school-route-service/internal/domain"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTurnaround is the minimum idle time expected between two
	// trips on the same resource before the pairing is flagged as risky.
	DefaultTurnaround = 15 * time.Minute

	// criticalGap is the hard floor below which back-to-back trips on one
	// resource are treated as critical regardless of overlap.
	criticalGap = 5 * time.Minute
)

// ConflictOptions tunes one detection run. The zero value applies the
// default turnaround and generates no reassignment suggestions.
type ConflictOptions struct {
	// Turnaround is the minimum acceptable gap between trips on the same
	// resource; zero means DefaultTurnaround.
	Turnaround time.Duration
	// AlternateVehicleIDs and AlternateDriverIDs, when supplied, feed
	// reassignment suggestions for vehicle and driver conflicts.
	AlternateVehicleIDs []int64
	AlternateDriverIDs  []int64
}

func (o ConflictOptions) turnaround() time.Duration {
	if o.Turnaround > 0 {
		return o.Turnaround
	}
	return DefaultTurnaround
}

// resourceKind binds a conflict type to the trip field it double-books.
type resourceKind struct {
	conflictType domain.ConflictType
	label        string
	resourceID   func(domain.Trip) int64
}

var resourceKinds = []resourceKind{
	{domain.ConflictTypeVehicle, "vehicle", func(t domain.Trip) int64 { return t.VehicleID }},
	{domain.ConflictTypeDriver, "driver", func(t domain.Trip) int64 { return t.DriverID }},
	{domain.ConflictTypeRoute, "route", func(t domain.Trip) int64 { return t.RouteID }},
}

// DetectConflicts finds resource double-bookings across all trips of one
// tenant. It is state-free: trips are grouped per resource kind, sorted by
// scheduled start, and swept for interval overlap. Each overlapping (or
// too-tightly packed) pair yields exactly one conflict per resource kind,
// so a pair sharing both vehicle and driver produces two records whose
// resolutions can be applied independently.
//
// Cancelled trips hold no resources and are skipped.
func DetectConflicts(trips []domain.Trip, opts ConflictOptions) []domain.ScheduleConflict {
	active := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if t.Status == domain.TripStatusCancelled {
			continue
		}
		active = append(active, t)
	}

	conflicts := []domain.ScheduleConflict{}
	for _, kind := range resourceKinds {
		conflicts = append(conflicts, sweepResource(active, kind, opts)...)
	}
	return conflicts
}

func sweepResource(trips []domain.Trip, kind resourceKind, opts ConflictOptions) []domain.ScheduleConflict {
	groups := make(map[int64][]domain.Trip)
	for _, t := range trips {
		id := kind.resourceID(t)
		if id == 0 {
			continue
		}
		groups[id] = append(groups[id], t)
	}

	out := []domain.ScheduleConflict{}
	for resID, group := range groups {
		slices.SortFunc(group, func(a, b domain.Trip) int {
			if c := a.ScheduledStart.Compare(b.ScheduledStart); c != 0 {
				return c
			}
			if a.TripID < b.TripID {
				return -1
			}
			if a.TripID > b.TripID {
				return 1
			}
			return 0
		})

		// Sweep: each trip is checked against every earlier trip that has
		// not yet ended, so a long trip spanning several short ones is
		// still paired with each of them.
		for i := 1; i < len(group); i++ {
			for j := i - 1; j >= 0; j-- {
				earlier, later := group[j], group[i]

				overlap := earlier.Overlap(later)
				gap := earlier.Gap(later)

				// Turnaround pressure only applies between neighbouring
				// trips; non-adjacent pairs matter only when they overlap.
				if overlap == 0 && (j != i-1 || gap >= opts.turnaround()) {
					continue
				}

				sev := classify(earlier, later, overlap, gap)
				out = append(out, buildConflict(kind, resID, earlier, later, overlap, gap, sev, opts))
			}
		}
	}

	// Deterministic output order for identical input.
	slices.SortFunc(out, func(a, b domain.ScheduleConflict) int {
		return slices.Compare(a.AffectedTripIDs, b.AffectedTripIDs)
	})
	return out
}

// classify applies the severity rules in order; the first match wins.
func classify(a, b domain.Trip, overlap, gap time.Duration) domain.ConflictSeverity {
	shorter := a.Duration()
	if b.Duration() < shorter {
		shorter = b.Duration()
	}

	switch {
	case overlap > 0 && shorter > 0 && overlap*2 >= shorter:
		return domain.SeverityCritical
	case overlap == 0 && gap < criticalGap:
		return domain.SeverityCritical
	case overlap > 0 && shorter > 0 && overlap*4 >= shorter:
		return domain.SeverityHigh
	case overlap > 0:
		return domain.SeverityMedium
	default:
		// Back-to-back with a gap under the turnaround: a scheduling
		// risk, not a true double-booking.
		return domain.SeverityLow
	}
}

func buildConflict(
	kind resourceKind,
	resourceID int64,
	earlier, later domain.Trip,
	overlap, gap time.Duration,
	sev domain.ConflictSeverity,
	opts ConflictOptions,
) domain.ScheduleConflict {
	var desc string
	if overlap > 0 {
		desc = fmt.Sprintf("trips %d and %d overlap by %s on %s %d",
			earlier.TripID, later.TripID, overlap, kind.label, resourceID)
	} else {
		desc = fmt.Sprintf("trips %d and %d leave only %s turnaround on %s %d",
			earlier.TripID, later.TripID, gap, kind.label, resourceID)
	}

	c := domain.ScheduleConflict{
		ConflictID:      uuid.NewString(),
		Type:            kind.conflictType,
		Severity:        sev,
		ResourceID:      resourceID,
		AffectedTripIDs: []int64{earlier.TripID, later.TripID},
		Description:     desc,
	}
	c.Resolutions = suggestResolutions(c, kind, earlier, later, overlap, opts)
	return c
}

// suggestResolutions generates rule-based ways out: reassign to an
// alternate resource from the caller's pool, shift the later trip by the
// minimal amount that restores the turnaround, and manual review for
// anything critical.
func suggestResolutions(
	c domain.ScheduleConflict,
	kind resourceKind,
	earlier, later domain.Trip,
	overlap time.Duration,
	opts ConflictOptions,
) []domain.Resolution {
	res := []domain.Resolution{}

	var pool []int64
	switch kind.conflictType {
	case domain.ConflictTypeVehicle:
		pool = opts.AlternateVehicleIDs
	case domain.ConflictTypeDriver:
		pool = opts.AlternateDriverIDs
	}
	for _, alt := range pool {
		if alt == c.ResourceID {
			continue
		}
		res = append(res, domain.Resolution{
			Kind:                domain.ResolutionReassign,
			Description:         fmt.Sprintf("reassign trip %d to %s %d", later.TripID, kind.label, alt),
			TripID:              later.TripID,
			AlternateResourceID: alt,
		})
		break
	}

	// Minimal shift: push the later trip until the turnaround gap holds.
	shift := earlier.ScheduledEnd.Add(opts.turnaround()).Sub(later.ScheduledStart)
	if shift > 0 {
		res = append(res, domain.Resolution{
			Kind:        domain.ResolutionShiftTime,
			Description: fmt.Sprintf("shift trip %d start by %s", later.TripID, shift),
			TripID:      later.TripID,
			Shift:       shift,
		})
	}

	if c.Severity == domain.SeverityCritical || len(res) == 0 {
		res = append(res, domain.Resolution{
			Kind:        domain.ResolutionManualReview,
			Description: fmt.Sprintf("flag trips %d and %d for dispatcher review", earlier.TripID, later.TripID),
			TripID:      later.TripID,
		})
	}

	return res
}
