package domain

import (
	"fmt"
	"time"
)

type ConflictType string

const (
	ConflictTypeVehicle  ConflictType = "VEHICLE_CONFLICT"
	ConflictTypeDriver   ConflictType = "DRIVER_CONFLICT"
	ConflictTypeRoute    ConflictType = "ROUTE_CONFLICT"
	ConflictTypeTime     ConflictType = "TIME_CONFLICT"
	ConflictTypeResource ConflictType = "RESOURCE_CONFLICT"
)

type ConflictSeverity string

// Rank orders severities for comparison; higher is worse. Unknown
// severities rank below Low.
func (s ConflictSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

const (
	SeverityLow      ConflictSeverity = "LOW"
	SeverityMedium   ConflictSeverity = "MEDIUM"
	SeverityHigh     ConflictSeverity = "HIGH"
	SeverityCritical ConflictSeverity = "CRITICAL"
)

type ResolutionKind string

const (
	ResolutionReassign     ResolutionKind = "REASSIGN_RESOURCE"
	ResolutionShiftTime    ResolutionKind = "SHIFT_TIME"
	ResolutionManualReview ResolutionKind = "MANUAL_REVIEW"
)

// Suggested way out of a conflict. Generated from simple rules, not search:
// the dispatcher still decides.
type Resolution struct {
	Kind        ResolutionKind
	Description string
	// TripID the resolution applies to.
	TripID int64
	// AlternateResourceID is set for REASSIGN_RESOURCE suggestions.
	AlternateResourceID int64
	// Shift is the minimal start shift for SHIFT_TIME suggestions.
	Shift time.Duration
}

// ScheduleConflict is a derived, ephemeral view over a pair of trips that
// double-book one resource. It is recomputed whenever trips change and is
// never persisted as ground truth. A pair conflicting on both vehicle and
// driver yields two records, one per resource, so resolutions can be
// applied independently.
type ScheduleConflict struct {
	ConflictID      string
	Type            ConflictType
	Severity        ConflictSeverity
	ResourceID      int64
	AffectedTripIDs []int64
	Description     string
	Resolutions     []Resolution
}

// PairKey identifies the conflicting pair on its resource regardless of
// trip order, used to diff conflict sets across a reschedule.
func (c ScheduleConflict) PairKey() string {
	if len(c.AffectedTripIDs) != 2 {
		return string(c.Type) + ":" + c.ConflictID
	}
	a, b := c.AffectedTripIDs[0], c.AffectedTripIDs[1]
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%d:%d", c.Type, a, b)
}
