package domain

import "time"

// Optimization objective chosen by the caller.
type Objective string

const (
	ObjectiveDistance Objective = "DISTANCE"
	ObjectiveTime     Objective = "TIME"
	ObjectiveFuel     Objective = "FUEL"
	ObjectiveCost     Objective = "COST"
	ObjectiveHybrid   Objective = "HYBRID"
)

// RequiresVehicle reports whether the objective needs an assigned
// vehicle to be evaluated: fuel, cost and hybrid all consume the
// vehicle's fuel factor, which a capacity override cannot supply.
func (o Objective) RequiresVehicle() bool {
	switch o {
	case ObjectiveFuel, ObjectiveCost, ObjectiveHybrid:
		return true
	}
	return false
}

type OptimizationStatus string

const (
	OptimizationSuccess       OptimizationStatus = "SUCCESS"
	OptimizationNoImprovement OptimizationStatus = "NO_IMPROVEMENT_FOUND"
	OptimizationFailed        OptimizationStatus = "FAILED"
)

// One sequenced visit inside an Ordering, with the simulated arrival and
// departure time at the stop.
type SequencedStop struct {
	Stop      Stop
	ArriveAt  time.Time
	DepartAt  time.Time
	OnboardAt int // students onboard after serving this stop
}

// Ordering is the output of the stop sequencer: the visiting order plus
// aggregate distance and duration. It is planning data only and carries no
// side effects.
type Ordering struct {
	Stops           []SequencedStop
	TotalDistanceKm float64
	TotalDuration   time.Duration
}

// StopIDs returns the visit order as stop ids.
func (o Ordering) StopIDs() []int64 {
	ids := make([]int64, 0, len(o.Stops))
	for _, s := range o.Stops {
		ids = append(ids, s.Stop.StopID)
	}
	return ids
}

// Savings reports baseline minus candidate across all cost dimensions,
// not only the optimized objective.
type Savings struct {
	DistanceKm float64
	Duration   time.Duration
	FuelLiters float64
	Cost       float64
}

// OptimizationResult is the one durable artifact produced by this core.
// The caller persists accepted results as RouteOptimization history.
type OptimizationResult struct {
	OptimizationID    string
	RouteID           int64
	Objective         Objective
	Status            OptimizationStatus
	OriginalDistance  float64
	OriginalDuration  time.Duration
	OptimizedDistance float64
	OptimizedDuration time.Duration
	Savings           Savings
	StopOrder         []int64
	Reason            string
	ComputedAt        time.Time
}
