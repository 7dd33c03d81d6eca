package handlers

import (
	"errors"
	"log"
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"school-route-service/internal/services"
	"strconv"
	"time"
)

// OptimizeHandler orchestrates route optimization: it holds the per-route
// lock for the duration of the computation, persists the result as
// RouteOptimization history, and maps the tagged outcome onto HTTP.
type OptimizeHandler struct {
	Repo      ports.OptimizationRepository
	Estimator ports.TravelEstimator
	Locks     ports.RouteLock
	LockTTL   time.Duration
	Cost      services.CostModel
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	objective := domain.Objective(req.Objective)
	switch objective {
	case domain.ObjectiveDistance, domain.ObjectiveTime, domain.ObjectiveFuel,
		domain.ObjectiveCost, domain.ObjectiveHybrid:
	case "":
		objective = domain.ObjectiveDistance
	default:
		writeError(w, r, http.StatusBadRequest, "unknown objective "+req.Objective)
		return
	}

	route := req.Route.ToDomain()
	if len(route.Stops) == 0 {
		writeError(w, r, http.StatusBadRequest, "route has no stops")
		return
	}

	// Single-writer rule: one optimization in flight per route, otherwise
	// two results would race on the same persisted baseline.
	acquired, err := h.Locks.Acquire(r.Context(), route.RouteID, h.LockTTL)
	if err != nil {
		log.Printf("route lock failed: route=%d err=%v", route.RouteID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !acquired {
		writeError(w, r, http.StatusConflict, "an optimization is already in flight for this route")
		return
	}
	defer func() {
		if err := h.Locks.Release(r.Context(), route.RouteID); err != nil {
			log.Printf("route unlock failed: route=%d err=%v", route.RouteID, err)
		}
	}()

	constraints := services.Constraints{
		CapacityOverride: req.Constraints.CapacityOverride,
		Tolerance:        time.Duration(req.Constraints.ToleranceMinutes) * time.Minute,
		ExcludedStopIDs:  req.Constraints.ExcludedStopIDs,
		Cost:             h.Cost,
	}
	if req.Constraints.HybridWeights != nil {
		constraints.HybridWeights = &services.HybridWeights{
			Distance: req.Constraints.HybridWeights.Distance,
			Time:     req.Constraints.HybridWeights.Time,
			Fuel:     req.Constraints.HybridWeights.Fuel,
			Cost:     req.Constraints.HybridWeights.Cost,
		}
	}

	result, err := services.OptimizeRoute(r.Context(), h.Estimator, route, objective, constraints)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGeometry) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("optimize route failed: route=%d err=%v", route.RouteID, err)
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.SaveOptimization(r.Context(), result); err != nil {
		log.Printf("save optimization failed: route=%d err=%v", route.RouteID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	// An infeasible stop set is a caller problem, not a server one; no
	// improvement is still a successful computation.
	status := http.StatusOK
	if result.Status == domain.OptimizationFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, dto.FromOptimizationResult(result))
}

// History returns the persisted optimization history for one route.
func (h *OptimizeHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	routeID, err := strconv.ParseInt(r.URL.Query().Get("route_id"), 10, 64)
	if err != nil || routeID <= 0 {
		writeError(w, r, http.StatusBadRequest, "route_id query parameter is required")
		return
	}

	results, err := h.Repo.ListOptimizations(r.Context(), routeID)
	if err != nil {
		log.Printf("list optimizations failed: route=%d err=%v", routeID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOptimizationsResponse{
		Optimizations: make([]dto.OptimizationResponse, 0, len(results)),
	}
	for _, result := range results {
		res.Optimizations = append(res.Optimizations, dto.FromOptimizationResult(result))
	}

	writeJSON(w, r, http.StatusOK, res)
}
