package dto

import (
	"school-route-service/internal/domain"
	"time"
)

type TripOutcomeDTO struct {
	TripID       int64     `json:"trip_id"`
	RouteID      int64     `json:"route_id"`
	VehicleID    int64     `json:"vehicle_id"`
	DriverID     int64     `json:"driver_id"`
	ScheduledEnd time.Time `json:"scheduled_end"`
	ActualEnd    time.Time `json:"actual_end"`
	DistanceKm   *float64  `json:"distance_km"`
	FuelUsed     *float64  `json:"fuel_used"`
	TotalCost    float64   `json:"total_cost"`
	StudentIDs   []int64   `json:"student_ids"`
}

type ScoreWeightsDTO struct {
	OnTime         float64 `json:"on_time"`
	FuelEfficiency float64 `json:"fuel_efficiency"`
	CostPerStudent float64 `json:"cost_per_student"`
}

type ScoreBoundsDTO struct {
	FuelEfficiencyMin float64 `json:"fuel_efficiency_min"`
	FuelEfficiencyMax float64 `json:"fuel_efficiency_max"`
	CostPerStudentMin float64 `json:"cost_per_student_min"`
	CostPerStudentMax float64 `json:"cost_per_student_max"`
}

type ComputeMetricsRequest struct {
	Trips                  []TripOutcomeDTO `json:"trips"`
	OnTimeToleranceMinutes int              `json:"on_time_tolerance_minutes"`
	Weights                *ScoreWeightsDTO `json:"weights"`
	Bounds                 ScoreBoundsDTO   `json:"bounds"`
}

type MetricsResponse struct {
	OnTimeRate          float64 `json:"on_time_rate"`
	AverageDelayMinutes float64 `json:"average_delay_minutes"`
	FuelEfficiency      float64 `json:"fuel_efficiency"`
	CostPerStudent      float64 `json:"cost_per_student"`
	OptimizationScore   float64 `json:"optimization_score"`
	CompletedTrips      int     `json:"completed_trips"`
	IncompleteData      int     `json:"incomplete_data"`
	InsufficientData    bool    `json:"insufficient_data"`
}

func (o TripOutcomeDTO) ToDomain() domain.TripOutcome {
	return domain.TripOutcome{
		TripID:       o.TripID,
		RouteID:      o.RouteID,
		VehicleID:    o.VehicleID,
		DriverID:     o.DriverID,
		ScheduledEnd: o.ScheduledEnd,
		ActualEnd:    o.ActualEnd,
		DistanceKm:   o.DistanceKm,
		FuelUsed:     o.FuelUsed,
		TotalCost:    o.TotalCost,
		StudentIDs:   o.StudentIDs,
	}
}

func FromMetrics(m domain.EfficiencyMetrics) MetricsResponse {
	return MetricsResponse{
		OnTimeRate:          m.OnTimeRate,
		AverageDelayMinutes: m.AverageDelay.Minutes(),
		FuelEfficiency:      m.FuelEfficiency,
		CostPerStudent:      m.CostPerStudent,
		OptimizationScore:   m.OptimizationScore,
		CompletedTrips:      m.CompletedTrips,
		IncompleteData:      m.IncompleteData,
		InsufficientData:    m.InsufficientData,
	}
}
