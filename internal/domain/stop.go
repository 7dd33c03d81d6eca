package domain

import (
	"fmt"
	"time"
)

// Represents a single stop on a school transport route.
// A Stop is a value snapshot assembled by the caller: ids plus flat data,
// no back-references into routes or students. Pickup stops board the listed
// students, dropoff stops alight them.
type Stop struct {
	StopID             int64
	RouteID            int64
	Location           GeoPoint
	StopOrder          int
	ScheduledArrival   time.Time
	ScheduledDeparture time.Time
	IsPickup           bool
	IsDropoff          bool
	StudentIDs         []int64
}

// Validate checks the stop's own invariants.
func (s Stop) Validate() error {
	if err := s.Location.Validate(); err != nil {
		return fmt.Errorf("stop %d: %w", s.StopID, err)
	}
	if s.ScheduledDeparture.Before(s.ScheduledArrival) {
		return fmt.Errorf("stop %d: departure %v before arrival %v",
			s.StopID, s.ScheduledDeparture, s.ScheduledArrival)
	}
	return nil
}

// OnboardDelta is the change in onboard student count when the stop is
// served: pickups board, dropoffs alight. A combined pickup/dropoff stop
// nets to zero.
func (s Stop) OnboardDelta() int {
	delta := 0
	if s.IsPickup {
		delta += len(s.StudentIDs)
	}
	if s.IsDropoff {
		delta -= len(s.StudentIDs)
	}
	return delta
}
