package services

import (
	"school-route-service/internal/domain"
	"time"
)

// DefaultOnTimeTolerance matches the fleet's existing on-time definition:
// a trip ending within five minutes of schedule still counts as on time.
const DefaultOnTimeTolerance = 5 * time.Minute

// MetricsOptions tunes one metrics computation. Zero values fall back to
// the defaults; Bounds must be supplied by the caller for the blended
// score to be meaningful across fleets of different sizes.
type MetricsOptions struct {
	OnTimeTolerance time.Duration
	Weights         domain.ScoreWeights
	Bounds          domain.ScoreBounds
}

func (o MetricsOptions) tolerance() time.Duration {
	if o.OnTimeTolerance > 0 {
		return o.OnTimeTolerance
	}
	return DefaultOnTimeTolerance
}

func (o MetricsOptions) weights() domain.ScoreWeights {
	w := o.Weights
	if w.OnTime == 0 && w.FuelEfficiency == 0 && w.CostPerStudent == 0 {
		return domain.DefaultScoreWeights()
	}
	return w
}

// ComputeMetrics aggregates completed-trip outcomes into efficiency and
// performance metrics. It is read-only over the caller-supplied set.
//
// Empty input returns a zero-valued metrics object with InsufficientData
// set rather than NaN or a division error.
func ComputeMetrics(outcomes []domain.TripOutcome, opts MetricsOptions) domain.EfficiencyMetrics {
	if len(outcomes) == 0 {
		return domain.EfficiencyMetrics{InsufficientData: true}
	}

	m := domain.EfficiencyMetrics{CompletedTrips: len(outcomes)}
	tol := opts.tolerance()

	onTime := 0
	var totalDelay time.Duration
	delayed := 0

	totalKm := 0.0
	totalFuel := 0.0
	withTelemetry := 0

	totalCost := 0.0
	students := make(map[int64]struct{})

	for _, o := range outcomes {
		if !o.ActualEnd.After(o.ScheduledEnd.Add(tol)) {
			onTime++
		}
		// Trips finishing early contribute zero delay, not negative delay.
		if delay := o.ActualEnd.Sub(o.ScheduledEnd); delay > 0 {
			totalDelay += delay
			delayed++
		}

		if o.DistanceKm != nil && o.FuelUsed != nil {
			totalKm += *o.DistanceKm
			totalFuel += *o.FuelUsed
			withTelemetry++
		} else {
			m.IncompleteData++
		}

		totalCost += o.TotalCost
		for _, id := range o.StudentIDs {
			students[id] = struct{}{}
		}
	}

	m.OnTimeRate = float64(onTime) / float64(len(outcomes))
	if delayed > 0 {
		m.AverageDelay = totalDelay / time.Duration(delayed)
	}
	if withTelemetry > 0 && totalFuel > 0 {
		m.FuelEfficiency = totalKm / totalFuel
	}
	if len(students) > 0 {
		m.CostPerStudent = totalCost / float64(len(students))
	}
	m.OptimizationScore = blendScore(m, opts.weights(), opts.Bounds)

	return m
}

// blendScore combines the three headline metrics into one bounded score.
// Fuel efficiency and cost per student are normalized against the caller's
// reference bounds; on-time rate is already a ratio.
func blendScore(m domain.EfficiencyMetrics, w domain.ScoreWeights, b domain.ScoreBounds) float64 {
	fuelScore := normalize(m.FuelEfficiency, b.FuelEfficiencyMin, b.FuelEfficiencyMax)
	// Lower cost is better, so the normalized value is inverted.
	costScore := 1 - normalize(m.CostPerStudent, b.CostPerStudentMin, b.CostPerStudentMax)

	total := w.OnTime + w.FuelEfficiency + w.CostPerStudent
	if total <= 0 {
		return 0
	}

	score := (w.OnTime*m.OnTimeRate + w.FuelEfficiency*fuelScore + w.CostPerStudent*costScore) / total
	return clamp(score*100, 0, 100)
}

func normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return clamp((v-min)/(max-min), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
