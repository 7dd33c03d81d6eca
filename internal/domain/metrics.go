package domain

import "time"

// TripOutcome is the historical record of one completed trip as reported by
// the trip tracking system. FuelUsed and DistanceKm are nil when telemetry
// did not report them; such trips are excluded from fuel efficiency and
// counted separately as incomplete data.
type TripOutcome struct {
	TripID       int64
	RouteID      int64
	VehicleID    int64
	DriverID     int64
	ScheduledEnd time.Time
	ActualEnd    time.Time
	DistanceKm   *float64
	FuelUsed     *float64
	TotalCost    float64
	StudentIDs   []int64
}

// Weights for the blended optimization score. Defaults are 0.4 on-time,
// 0.3 fuel efficiency, 0.3 cost per student.
type ScoreWeights struct {
	OnTime         float64
	FuelEfficiency float64
	CostPerStudent float64
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{OnTime: 0.4, FuelEfficiency: 0.3, CostPerStudent: 0.3}
}

// Caller-supplied reference bounds used to normalize fuel efficiency and
// cost per student into [0,1], so scores compare across fleet sizes.
type ScoreBounds struct {
	FuelEfficiencyMin float64
	FuelEfficiencyMax float64
	CostPerStudentMin float64
	CostPerStudentMax float64
}

// EfficiencyMetrics summarizes historical outcomes over one date range.
type EfficiencyMetrics struct {
	OnTimeRate        float64
	AverageDelay      time.Duration
	FuelEfficiency    float64 // km per liter
	CostPerStudent    float64
	OptimizationScore float64 // bounded to [0,100]
	CompletedTrips    int
	IncompleteData    int // trips missing distance or fuel telemetry
	InsufficientData  bool
}
