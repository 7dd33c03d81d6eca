package handlers

import (
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/domain"
	"school-route-service/internal/services"
	"time"
)

// MetricsHandler computes fleet efficiency metrics over caller-supplied
// completed-trip outcomes.
type MetricsHandler struct{}

func (h *MetricsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.ComputeMetricsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	outcomes := make([]domain.TripOutcome, 0, len(req.Trips))
	for _, t := range req.Trips {
		outcomes = append(outcomes, t.ToDomain())
	}

	opts := services.MetricsOptions{
		OnTimeTolerance: time.Duration(req.OnTimeToleranceMinutes) * time.Minute,
		Bounds: domain.ScoreBounds{
			FuelEfficiencyMin: req.Bounds.FuelEfficiencyMin,
			FuelEfficiencyMax: req.Bounds.FuelEfficiencyMax,
			CostPerStudentMin: req.Bounds.CostPerStudentMin,
			CostPerStudentMax: req.Bounds.CostPerStudentMax,
		},
	}
	if req.Weights != nil {
		opts.Weights = domain.ScoreWeights{
			OnTime:         req.Weights.OnTime,
			FuelEfficiency: req.Weights.FuelEfficiency,
			CostPerStudent: req.Weights.CostPerStudent,
		}
	}

	metrics := services.ComputeMetrics(outcomes, opts)
	writeJSON(w, r, http.StatusOK, dto.FromMetrics(metrics))
}
