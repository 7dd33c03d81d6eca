package domain

import (
	"fmt"
	"time"
)

type TripStatus string

const (
	TripStatusScheduled  TripStatus = "SCHEDULED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
	TripStatusDelayed    TripStatus = "DELAYED"
)

// Trip is the unit over which conflicts are detected: one scheduled run of
// a route with a vehicle and a driver. All trips passed into a detection
// call are assumed to share a tenant.
type Trip struct {
	TripID         int64
	TenantID       int64
	RouteID        int64
	VehicleID      int64
	DriverID       int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         TripStatus
}

// Validate checks the trip's time invariant.
func (t Trip) Validate() error {
	if !t.ScheduledEnd.After(t.ScheduledStart) {
		return fmt.Errorf("trip %d: scheduled end %v not after start %v",
			t.TripID, t.ScheduledEnd, t.ScheduledStart)
	}
	return nil
}

// Duration is the scheduled length of the trip.
func (t Trip) Duration() time.Duration {
	return t.ScheduledEnd.Sub(t.ScheduledStart)
}

// Overlap returns how long two trips run at the same time. Zero means the
// trips do not overlap.
func (t Trip) Overlap(other Trip) time.Duration {
	start := t.ScheduledStart
	if other.ScheduledStart.After(start) {
		start = other.ScheduledStart
	}
	end := t.ScheduledEnd
	if other.ScheduledEnd.Before(end) {
		end = other.ScheduledEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// Gap returns the idle time between two non-overlapping trips, and zero
// when they overlap or touch.
func (t Trip) Gap(other Trip) time.Duration {
	if t.ScheduledEnd.Before(other.ScheduledStart) || t.ScheduledEnd.Equal(other.ScheduledStart) {
		return other.ScheduledStart.Sub(t.ScheduledEnd)
	}
	if other.ScheduledEnd.Before(t.ScheduledStart) || other.ScheduledEnd.Equal(t.ScheduledStart) {
		return t.ScheduledStart.Sub(other.ScheduledEnd)
	}
	return 0
}
