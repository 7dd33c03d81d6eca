package services

import (
	"context"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

// Tunable cost model shared by the fuel, cost and hybrid objectives.
// Zero values fall back to defaults.
type CostModel struct {
	FuelPricePerLiter  float64
	DriverCostPerMin   float64
	MinImprovementFrac float64 // minimum relative gain to accept a candidate
}

const (
	defaultFuelPrice          = 1.6
	defaultDriverCostPerMin   = 0.5
	defaultMinImprovementFrac = 0.01
)

func (m CostModel) fuelPrice() float64 {
	if m.FuelPricePerLiter > 0 {
		return m.FuelPricePerLiter
	}
	return defaultFuelPrice
}

func (m CostModel) driverCost() float64 {
	if m.DriverCostPerMin > 0 {
		return m.DriverCostPerMin
	}
	return defaultDriverCostPerMin
}

func (m CostModel) minImprovement() float64 {
	if m.MinImprovementFrac > 0 {
		return m.MinImprovementFrac
	}
	return defaultMinImprovementFrac
}

// Typed constraint set for one optimization call. This replaces the
// open-ended parameter bags of the request DTOs with the constraints the
// algorithms actually consume.
type Constraints struct {
	// CapacityOverride replaces the vehicle capacity when non-nil.
	CapacityOverride *int
	// Tolerance is the time-window tolerance; zero means DefaultTolerance.
	Tolerance time.Duration
	// ExcludedStopIDs are left out of the candidate ordering entirely.
	ExcludedStopIDs []int64
	// HybridWeights weigh normalized distance/time/fuel/cost; nil means
	// equal weighting.
	HybridWeights *HybridWeights
	// Cost overrides the default cost model.
	Cost CostModel
}

type HybridWeights struct {
	Distance float64
	Time     float64
	Fuel     float64
	Cost     float64
}

// DefaultTolerance is applied when a caller does not name one.
const DefaultTolerance = 10 * time.Minute

// routeCosts carries every cost dimension of one ordering so savings can
// be reported in full, not just on the optimized objective.
type routeCosts struct {
	distanceKm float64
	duration   time.Duration
	fuelLiters float64
	cost       float64
}

// OptimizeRoute sequences the route's stops under the given objective and
// compares the candidate against the route's current ordering.
//
// The result is Success only when the candidate beats the baseline by more
// than the minimum-improvement threshold; a candidate that merely matches
// (or worsens) the baseline yields NoImprovementFound with the baseline
// untouched. Infeasibility from the sequencer yields Failed with the
// reason. The route snapshot itself is never mutated; the caller persists
// the accepted result.
func OptimizeRoute(
	ctx context.Context,
	estimator ports.TravelEstimator,
	route domain.RouteSnapshot,
	objective domain.Objective,
	constraints Constraints,
) (*domain.OptimizationResult, error) {
	if err := route.Validate(); err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	if objective.RequiresVehicle() && route.Vehicle == nil {
		return nil, fmt.Errorf("optimize route %d: objective %s requires an assigned vehicle for its fuel factor",
			route.RouteID, objective)
	}

	capacity := 0
	fuelPerKm := 0.0
	if route.Vehicle != nil {
		capacity = route.Vehicle.Capacity
		fuelPerKm = route.Vehicle.FuelPerKm
	}
	if constraints.CapacityOverride != nil {
		capacity = *constraints.CapacityOverride
	}

	tolerance := constraints.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	excluded := make(map[int64]struct{}, len(constraints.ExcludedStopIDs))
	for _, id := range constraints.ExcludedStopIDs {
		excluded[id] = struct{}{}
	}

	stops := make([]domain.Stop, 0, len(route.Stops))
	baselineOrder := make([]domain.Stop, 0, len(route.Stops))
	for _, s := range route.OrderedStops() {
		if _, skip := excluded[s.StopID]; skip {
			continue
		}
		stops = append(stops, s)
		baselineOrder = append(baselineOrder, s)
	}

	result := &domain.OptimizationResult{
		OptimizationID: uuid.NewString(),
		RouteID:        route.RouteID,
		Objective:      objective,
		ComputedAt:     time.Now().UTC(),
	}

	baseline, err := measureOrdering(ctx, estimator, baselineOrder, route.StartLocation, tolerance)
	if err != nil {
		return nil, fmt.Errorf("optimize route %d: baseline: %w", route.RouteID, err)
	}
	baseCosts := computeCosts(baseline, fuelPerKm, constraints.Cost)

	result.OriginalDistance = baseline.TotalDistanceKm
	result.OriginalDuration = baseline.TotalDuration

	candidate, err := SequenceStops(ctx, estimator, stops, capacity, tolerance, route.StartLocation)
	if err != nil {
		if errors.Is(err, ErrInfeasibleStopSet) {
			result.Status = domain.OptimizationFailed
			result.Reason = err.Error()
			result.OptimizedDistance = baseline.TotalDistanceKm
			result.OptimizedDuration = baseline.TotalDuration
			result.StopOrder = orderIDs(baselineOrder)
			return result, nil
		}
		return nil, fmt.Errorf("optimize route %d: %w", route.RouteID, err)
	}

	candCosts := computeCosts(candidate, fuelPerKm, constraints.Cost)

	baseObjective := objectiveValue(objective, baseCosts, baseCosts, constraints.HybridWeights)
	candObjective := objectiveValue(objective, candCosts, baseCosts, constraints.HybridWeights)

	threshold := constraints.Cost.minImprovement()
	if baseObjective <= 0 || candObjective >= baseObjective*(1-threshold) {
		// Already optimal, or the gain is too small to be worth churning
		// the published route.
		result.Status = domain.OptimizationNoImprovement
		result.Reason = "baseline ordering is within the improvement threshold"
		result.OptimizedDistance = baseline.TotalDistanceKm
		result.OptimizedDuration = baseline.TotalDuration
		result.StopOrder = orderIDs(baselineOrder)
		return result, nil
	}

	result.Status = domain.OptimizationSuccess
	result.OptimizedDistance = candidate.TotalDistanceKm
	result.OptimizedDuration = candidate.TotalDuration
	result.StopOrder = candidate.StopIDs()
	result.Savings = domain.Savings{
		DistanceKm: baseCosts.distanceKm - candCosts.distanceKm,
		Duration:   baseCosts.duration - candCosts.duration,
		FuelLiters: baseCosts.fuelLiters - candCosts.fuelLiters,
		Cost:       baseCosts.cost - candCosts.cost,
	}
	return result, nil
}

// measureOrdering simulates the given fixed order to obtain its distance
// and duration. Window violations do not matter here: the baseline is the
// published route and serves only as the comparison yardstick.
func measureOrdering(
	ctx context.Context,
	est ports.TravelEstimator,
	stops []domain.Stop,
	start *domain.GeoPoint,
	tolerance time.Duration,
) (*domain.Ordering, error) {
	if len(stops) == 0 {
		return &domain.Ordering{Stops: []domain.SequencedStop{}}, nil
	}

	current := stops[0].Location
	if start != nil {
		current = *start
	}
	departAt := stops[0].ScheduledArrival
	now := departAt

	out := &domain.Ordering{Stops: make([]domain.SequencedStop, 0, len(stops))}
	onboard := initialOnboardCount(stops)

	for _, s := range stops {
		leg, err := est.Estimate(ctx, current, s.Location)
		if err != nil {
			return nil, fmt.Errorf("measure ordering: leg to stop %d: %w", s.StopID, err)
		}

		out.TotalDistanceKm += leg.DistanceKm
		now = now.Add(leg.Duration)
		if s.ScheduledArrival.After(now) {
			now = s.ScheduledArrival
		}
		arrive := now
		if s.ScheduledDeparture.After(now) {
			now = s.ScheduledDeparture
		}

		onboard += s.OnboardDelta()
		current = s.Location

		out.Stops = append(out.Stops, domain.SequencedStop{
			Stop:      s,
			ArriveAt:  arrive,
			DepartAt:  now,
			OnboardAt: onboard,
		})
	}

	out.TotalDuration = now.Sub(departAt)
	return out, nil
}

func computeCosts(o *domain.Ordering, fuelPerKm float64, model CostModel) routeCosts {
	fuel := o.TotalDistanceKm * fuelPerKm
	return routeCosts{
		distanceKm: o.TotalDistanceKm,
		duration:   o.TotalDuration,
		fuelLiters: fuel,
		cost:       fuel*model.fuelPrice() + o.TotalDuration.Minutes()*model.driverCost(),
	}
}

// objectiveValue scores one ordering under the chosen objective. Hybrid
// normalizes each dimension against the baseline so the weights compare
// like with like; the baseline's own hybrid score is therefore 1.0.
func objectiveValue(obj domain.Objective, c, base routeCosts, w *HybridWeights) float64 {
	switch obj {
	case domain.ObjectiveDistance:
		return c.distanceKm
	case domain.ObjectiveTime:
		return c.duration.Minutes()
	case domain.ObjectiveFuel:
		return c.fuelLiters
	case domain.ObjectiveCost:
		return c.cost
	case domain.ObjectiveHybrid:
		weights := HybridWeights{Distance: 1, Time: 1, Fuel: 1, Cost: 1}
		if w != nil {
			weights = *w
		}
		sum := 0.0
		sum += weights.Distance * ratio(c.distanceKm, base.distanceKm)
		sum += weights.Time * ratio(c.duration.Minutes(), base.duration.Minutes())
		sum += weights.Fuel * ratio(c.fuelLiters, base.fuelLiters)
		sum += weights.Cost * ratio(c.cost, base.cost)
		total := weights.Distance + weights.Time + weights.Fuel + weights.Cost
		if total <= 0 {
			return 0
		}
		return sum / total
	}
	return c.distanceKm
}

func ratio(v, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return v / base
}

func orderIDs(stops []domain.Stop) []int64 {
	ids := make([]int64, 0, len(stops))
	for _, s := range stops {
		ids = append(ids, s.StopID)
	}
	return ids
}
