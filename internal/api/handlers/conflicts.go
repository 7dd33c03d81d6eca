package handlers

import (
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/services"
	"time"
)

// ConflictsHandler wraps stateless conflict detection for the API. The
// caller supplies the full trip set of interest; the service holds no
// schedule state of its own.
type ConflictsHandler struct {
	Turnaround time.Duration
}

func (h *ConflictsHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.DetectConflictsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Trips) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one trip is required")
		return
	}

	trips := dto.TripsToDomain(req.Trips)
	for _, t := range trips {
		if err := t.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	opts := h.options(req.TurnaroundMinutes)
	opts.AlternateVehicleIDs = req.AlternateVehicleIDs
	opts.AlternateDriverIDs = req.AlternateDriverIDs

	conflicts := services.DetectConflicts(trips, opts)
	writeJSON(w, r, http.StatusOK, dto.DetectConflictsResponse{
		Conflicts: dto.FromConflicts(conflicts),
	})
}

// options prefers the per-request turnaround, then the configured one.
func (h *ConflictsHandler) options(turnaroundMinutes int) services.ConflictOptions {
	opts := services.ConflictOptions{Turnaround: h.Turnaround}
	if turnaroundMinutes > 0 {
		opts.Turnaround = time.Duration(turnaroundMinutes) * time.Minute
	}
	return opts
}
