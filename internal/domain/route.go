package domain

import (
	"fmt"
	"slices"
)

type RouteStatus string

const (
	RouteStatusActive    RouteStatus = "ACTIVE"
	RouteStatusInactive  RouteStatus = "INACTIVE"
	RouteStatusSuspended RouteStatus = "SUSPENDED"
)

// Flat snapshot of one route as assembled by the persistence layer.
// Vehicle and Driver are nil when the route has no assignment; a route
// without a vehicle cannot be optimized for objectives that consume its
// fuel factor (fuel, cost, hybrid).
// StartLocation, when set, is the depot the vehicle departs from.
type RouteSnapshot struct {
	RouteID       int64
	TenantID      int64
	Name          string
	Status        RouteStatus
	Stops         []Stop
	Vehicle       *Vehicle
	Driver        *Driver
	StartLocation *GeoPoint
}

// Validate checks the route-level invariants: every stop belongs to this
// route and stop orders form a contiguous 1-based sequence.
func (r RouteSnapshot) Validate() error {
	seen := make(map[int]int64, len(r.Stops))
	for _, s := range r.Stops {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("route %d: %w", r.RouteID, err)
		}
		if s.RouteID != r.RouteID {
			return fmt.Errorf("route %d: stop %d belongs to route %d", r.RouteID, s.StopID, s.RouteID)
		}
		if other, ok := seen[s.StopOrder]; ok {
			return fmt.Errorf("route %d: stops %d and %d share order %d", r.RouteID, other, s.StopID, s.StopOrder)
		}
		seen[s.StopOrder] = s.StopID
	}
	for order := 1; order <= len(r.Stops); order++ {
		if _, ok := seen[order]; !ok {
			return fmt.Errorf("route %d: stop order %d missing from 1..%d", r.RouteID, order, len(r.Stops))
		}
	}
	return nil
}

// OrderedStops returns the stops sorted by their declared stop order.
// The snapshot itself is not modified.
func (r RouteSnapshot) OrderedStops() []Stop {
	out := make([]Stop, len(r.Stops))
	copy(out, r.Stops)
	slices.SortFunc(out, func(a, b Stop) int { return a.StopOrder - b.StopOrder })
	return out
}
