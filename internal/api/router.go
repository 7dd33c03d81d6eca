package api

import (
	"net/http"
	"school-route-service/internal/api/handlers"
	"school-route-service/internal/config"
	"school-route-service/internal/ports"
	"school-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.OptimizationRepository,
	estimator ports.TravelEstimator,
	locks ports.RouteLock,
	cfg config.OptimizerConfig,
) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{
		Repo:      repo,
		Estimator: estimator,
		Locks:     locks,
		LockTTL:   cfg.LockTTL,
		Cost: services.CostModel{
			FuelPricePerLiter: cfg.FuelPricePerLiter,
			DriverCostPerMin:  cfg.DriverCostPerMin,
		},
	}
	conflictsHandler := &handlers.ConflictsHandler{Turnaround: cfg.Turnaround}
	rescheduleHandler := &handlers.RescheduleHandler{
		Locks:      locks,
		LockTTL:    cfg.LockTTL,
		Turnaround: cfg.Turnaround,
	}
	metricsHandler := &handlers.MetricsHandler{}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/optimizations", optimizeHandler.History)
	mux.HandleFunc("/conflicts/detect", conflictsHandler.Detect)
	mux.HandleFunc("/schedule/validate", rescheduleHandler.Validate)
	mux.HandleFunc("/metrics/efficiency", metricsHandler.Compute)

	return loggingMiddleware(mux)
}
