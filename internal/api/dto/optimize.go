package dto

import (
	"school-route-service/internal/domain"
	"time"
)

type HybridWeightsDTO struct {
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
	Fuel     float64 `json:"fuel"`
	Cost     float64 `json:"cost"`
}

type ConstraintsDTO struct {
	CapacityOverride *int              `json:"capacity_override"`
	ToleranceMinutes int               `json:"tolerance_minutes"`
	ExcludedStopIDs  []int64           `json:"excluded_stop_ids"`
	HybridWeights    *HybridWeightsDTO `json:"hybrid_weights"`
}

type OptimizeRequest struct {
	Route       RouteSnapshotDTO `json:"route"`
	Objective   string           `json:"objective"`
	Constraints ConstraintsDTO   `json:"constraints"`
}

type SavingsResponse struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	FuelLiters      float64 `json:"fuel_liters"`
	Cost            float64 `json:"cost"`
}

type OptimizationResponse struct {
	OptimizationID          string          `json:"optimization_id"`
	RouteID                 int64           `json:"route_id"`
	Objective               string          `json:"objective"`
	Status                  string          `json:"status"`
	Success                 bool            `json:"success"`
	Message                 string          `json:"message,omitempty"`
	OriginalDistanceKm      float64         `json:"original_distance_km"`
	OriginalDurationMinutes float64         `json:"original_duration_minutes"`
	OptimizedDistanceKm     float64         `json:"optimized_distance_km"`
	OptimizedDurationMin    float64         `json:"optimized_duration_minutes"`
	Savings                 SavingsResponse `json:"savings"`
	StopOrder               []int64         `json:"stop_order"`
	ComputedAt              time.Time       `json:"computed_at"`
}

type ListOptimizationsResponse struct {
	Optimizations []OptimizationResponse `json:"optimizations"`
}

func FromOptimizationResult(r *domain.OptimizationResult) OptimizationResponse {
	return OptimizationResponse{
		OptimizationID:          r.OptimizationID,
		RouteID:                 r.RouteID,
		Objective:               string(r.Objective),
		Status:                  string(r.Status),
		Success:                 r.Status == domain.OptimizationSuccess,
		Message:                 r.Reason,
		OriginalDistanceKm:      r.OriginalDistance,
		OriginalDurationMinutes: r.OriginalDuration.Minutes(),
		OptimizedDistanceKm:     r.OptimizedDistance,
		OptimizedDurationMin:    r.OptimizedDuration.Minutes(),
		Savings: SavingsResponse{
			DistanceKm:      r.Savings.DistanceKm,
			DurationMinutes: r.Savings.Duration.Minutes(),
			FuelLiters:      r.Savings.FuelLiters,
			Cost:            r.Savings.Cost,
		},
		StopOrder:  r.StopOrder,
		ComputedAt: r.ComputedAt,
	}
}
