package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"slices"
	"time"
)

// ErrInfeasibleStopSet reports that no visiting order satisfies the hard
// constraints (capacity, pickup-before-dropoff, time windows). The caller
// decides whether to relax tolerance and retry.
var ErrInfeasibleStopSet = errors.New("infeasible stop set: no ordering satisfies hard constraints")

// Ceiling on 2-opt improvement passes regardless of stop count.
const maxImprovePasses = 64

// SequenceStops orders a set of stops for one route under capacity and
// time-window constraints.
//
// Construction is greedy nearest-neighbor from a fixed start point (the
// route's declared start location, or the earliest-scheduled stop when nil),
// followed by bounded 2-opt passes that shorten the tour. The algorithm
// minimizes immediate travel distance at each step and does not attempt
// exact VRP solving; determinism and feasibility take priority over
// optimality.
//
// Hard constraints on every returned ordering:
//   - cumulative onboard count never exceeds capacity at any prefix;
//   - a student's pickup stop precedes their dropoff stop;
//   - simulated arrival at each stop is no later than its scheduled
//     arrival plus tolerance (arriving early, the vehicle waits).
func SequenceStops(
	ctx context.Context,
	estimator ports.TravelEstimator,
	stops []domain.Stop,
	vehicleCapacity int,
	tolerance time.Duration,
	start *domain.GeoPoint,
) (*domain.Ordering, error) {
	if estimator == nil {
		return nil, errors.New("sequence stops: estimator must be non-nil")
	}

	for _, s := range stops {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sequence stops: %w", err)
		}
	}

	if len(stops) == 0 {
		return &domain.Ordering{Stops: []domain.SequencedStop{}}, nil
	}

	prob, err := newSequenceProblem(stops, vehicleCapacity, tolerance, start)
	if err != nil {
		return nil, fmt.Errorf("sequence stops: %w", err)
	}

	order, err := prob.construct(ctx, estimator)
	if err != nil {
		return nil, fmt.Errorf("sequence stops: %w", err)
	}

	order, err = prob.improve(ctx, estimator, order)
	if err != nil {
		return nil, fmt.Errorf("sequence stops: %w", err)
	}

	sim, feasible, err := prob.simulate(ctx, estimator, order)
	if err != nil {
		return nil, fmt.Errorf("sequence stops: %w", err)
	}
	if !feasible {
		return nil, fmt.Errorf("sequence stops: %w", ErrInfeasibleStopSet)
	}

	return sim, nil
}

// sequenceProblem holds the immutable inputs of one sequencing call.
type sequenceProblem struct {
	stops     []domain.Stop
	capacity  int
	tolerance time.Duration
	start     domain.GeoPoint
	departAt  time.Time

	// pickupOf maps a student to the index of their pickup stop, for the
	// pickup-before-dropoff constraint.
	pickupOf map[int64]int
	// initialOnboard counts students that only appear in dropoff stops;
	// they are onboard when the vehicle departs.
	initialOnboard int
}

func newSequenceProblem(
	stops []domain.Stop,
	capacity int,
	tolerance time.Duration,
	start *domain.GeoPoint,
) (*sequenceProblem, error) {
	p := &sequenceProblem{
		stops:     stops,
		capacity:  capacity,
		tolerance: tolerance,
		pickupOf:  make(map[int64]int),
	}

	earliest := 0
	for i, s := range stops {
		if s.ScheduledArrival.Before(stops[earliest].ScheduledArrival) {
			earliest = i
		}
		if s.IsPickup {
			for _, student := range s.StudentIDs {
				if prev, ok := p.pickupOf[student]; ok {
					return nil, fmt.Errorf("student %d picked up at both stop %d and stop %d",
						student, stops[prev].StopID, s.StopID)
				}
				p.pickupOf[student] = i
			}
		}
	}

	p.initialOnboard = initialOnboardCount(stops)

	if capacity > 0 && p.initialOnboard > capacity {
		return nil, fmt.Errorf("%w: %d students onboard at departure exceed capacity %d",
			ErrInfeasibleStopSet, p.initialOnboard, capacity)
	}

	if start != nil {
		if err := start.Validate(); err != nil {
			return nil, err
		}
		p.start = *start
	} else {
		p.start = stops[earliest].Location
	}
	p.departAt = stops[earliest].ScheduledArrival

	return p, nil
}

// initialOnboardCount counts distinct students with a dropoff but no
// pickup in the set. They are already onboard when the vehicle departs
// and count against capacity from the start.
func initialOnboardCount(stops []domain.Stop) int {
	pickups := make(map[int64]struct{})
	for _, s := range stops {
		if !s.IsPickup {
			continue
		}
		for _, student := range s.StudentIDs {
			pickups[student] = struct{}{}
		}
	}

	count := 0
	seen := make(map[int64]struct{})
	for _, s := range stops {
		if !s.IsDropoff {
			continue
		}
		for _, student := range s.StudentIDs {
			if _, ok := pickups[student]; ok {
				continue
			}
			if _, dup := seen[student]; dup {
				continue
			}
			seen[student] = struct{}{}
			count++
		}
	}
	return count
}

// construct builds an initial visiting order with greedy nearest-neighbor.
// Candidates that would break capacity or visit a dropoff before its pickup
// are deferred. Ties on distance prefer the earlier scheduled arrival, then
// the lower stop id, so identical input always yields identical output.
func (p *sequenceProblem) construct(ctx context.Context, est ports.TravelEstimator) ([]int, error) {
	n := len(p.stops)
	remaining := make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		remaining[i] = struct{}{}
	}

	order := make([]int, 0, n)
	onboard := p.initialOnboard
	visited := make(map[int]bool, n)
	current := p.start

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64

		for i := range remaining {
			s := p.stops[i]
			if !p.admissible(s, onboard, visited) {
				continue
			}

			estLeg, err := est.Estimate(ctx, current, s.Location)
			if err != nil {
				return nil, fmt.Errorf("construct: leg to stop %d: %w", s.StopID, err)
			}

			if best == -1 || p.better(estLeg.DistanceKm, bestDist, i, best) {
				best = i
				bestDist = estLeg.DistanceKm
			}
		}

		if best == -1 {
			// Every remaining stop is blocked by capacity or precedence.
			return nil, ErrInfeasibleStopSet
		}

		order = append(order, best)
		visited[best] = true
		onboard += p.stops[best].OnboardDelta()
		current = p.stops[best].Location
		delete(remaining, best)
	}

	return order, nil
}

// admissible reports whether the stop can be served next without breaking
// capacity or pickup-before-dropoff.
func (p *sequenceProblem) admissible(s domain.Stop, onboard int, visited map[int]bool) bool {
	if s.IsDropoff {
		for _, student := range s.StudentIDs {
			if pi, ok := p.pickupOf[student]; ok && !visited[pi] {
				return false
			}
		}
	}
	if p.capacity > 0 && onboard+s.OnboardDelta() > p.capacity {
		return false
	}
	return true
}

// better implements the deterministic candidate comparison: shorter leg,
// then earlier scheduled arrival, then lower stop id.
func (p *sequenceProblem) better(dist, bestDist float64, i, best int) bool {
	if dist != bestDist {
		return dist < bestDist
	}
	a, b := p.stops[i], p.stops[best]
	if !a.ScheduledArrival.Equal(b.ScheduledArrival) {
		return a.ScheduledArrival.Before(b.ScheduledArrival)
	}
	return a.StopID < b.StopID
}

// improve runs bounded 2-opt passes over the order. A segment reversal is
// kept only when it both shortens the tour and stays feasible on every
// hard constraint; otherwise lateness-reducing reversals are accepted to
// pull a window-violating tour back into feasibility.
func (p *sequenceProblem) improve(ctx context.Context, est ports.TravelEstimator, order []int) ([]int, error) {
	n := len(order)
	if n < 3 {
		return order, nil
	}

	passes := n * n
	if passes > maxImprovePasses {
		passes = maxImprovePasses
	}

	_, bestDist, bestLate, err := p.evaluate(ctx, est, order)
	if err != nil {
		return nil, err
	}

	for pass := 0; pass < passes; pass++ {
		improved := false

		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				cand := make([]int, n)
				copy(cand, order)
				slices.Reverse(cand[i : j+1])

				ok, dist, late, err := p.evaluate(ctx, est, cand)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}

				// Feasibility first: less lateness always wins; with equal
				// lateness the shorter tour wins.
				if late < bestLate || (late == bestLate && dist < bestDist) {
					order = cand
					bestDist = dist
					bestLate = late
					improved = true
				}
			}
		}

		if !improved {
			break
		}
	}

	return order, nil
}

// evaluate simulates an order and returns whether capacity and precedence
// hold, the total distance, and the summed lateness beyond tolerance.
func (p *sequenceProblem) evaluate(ctx context.Context, est ports.TravelEstimator, order []int) (bool, float64, time.Duration, error) {
	onboard := p.initialOnboard
	visited := make(map[int]bool, len(order))
	current := p.start
	now := p.departAt

	totalDist := 0.0
	var lateness time.Duration

	for _, i := range order {
		s := p.stops[i]
		if !p.admissible(s, onboard, visited) {
			return false, 0, 0, nil
		}

		leg, err := est.Estimate(ctx, current, s.Location)
		if err != nil {
			return false, 0, 0, fmt.Errorf("evaluate: leg to stop %d: %w", s.StopID, err)
		}

		totalDist += leg.DistanceKm
		now = now.Add(leg.Duration)

		// Early arrival waits at the stop; only lateness counts against
		// the window.
		if late := now.Sub(s.ScheduledArrival.Add(p.tolerance)); late > 0 {
			lateness += late
		}
		if s.ScheduledArrival.After(now) {
			now = s.ScheduledArrival
		}
		if s.ScheduledDeparture.After(now) {
			now = s.ScheduledDeparture
		}

		visited[i] = true
		onboard += s.OnboardDelta()
		current = s.Location
	}

	return true, totalDist, lateness, nil
}

// simulate produces the final Ordering with per-stop arrival times, and
// reports whether the order meets every hard constraint.
func (p *sequenceProblem) simulate(ctx context.Context, est ports.TravelEstimator, order []int) (*domain.Ordering, bool, error) {
	onboard := p.initialOnboard
	visited := make(map[int]bool, len(order))
	current := p.start
	now := p.departAt

	out := &domain.Ordering{Stops: make([]domain.SequencedStop, 0, len(order))}
	feasible := true

	for _, i := range order {
		s := p.stops[i]
		if !p.admissible(s, onboard, visited) {
			return nil, false, nil
		}

		leg, err := est.Estimate(ctx, current, s.Location)
		if err != nil {
			return nil, false, fmt.Errorf("simulate: leg to stop %d: %w", s.StopID, err)
		}

		out.TotalDistanceKm += leg.DistanceKm
		now = now.Add(leg.Duration)

		if now.After(s.ScheduledArrival.Add(p.tolerance)) {
			feasible = false
		}
		if s.ScheduledArrival.After(now) {
			now = s.ScheduledArrival
		}
		arrive := now
		if s.ScheduledDeparture.After(now) {
			now = s.ScheduledDeparture
		}

		visited[i] = true
		onboard += s.OnboardDelta()
		current = s.Location

		// Stops are renumbered to their position in the new order.
		seq := s
		seq.StopOrder = len(out.Stops) + 1
		out.Stops = append(out.Stops, domain.SequencedStop{
			Stop:      seq,
			ArriveAt:  arrive,
			DepartAt:  now,
			OnboardAt: onboard,
		})
	}

	out.TotalDuration = now.Sub(p.departAt)
	return out, feasible, nil
}
