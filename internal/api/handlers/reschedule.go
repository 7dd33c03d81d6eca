package handlers

import (
	"log"
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"
	"school-route-service/internal/services"
	"time"
)

// RescheduleHandler validates one proposed trip change against the
// caller's trip set. The route lock is held while validating so a
// concurrent optimization cannot interleave with the check.
type RescheduleHandler struct {
	Locks      ports.RouteLock
	LockTTL    time.Duration
	Turnaround time.Duration
}

func (h *RescheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.ValidateRescheduleRequest
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

	routeID := routeOfTrip(trips, req.Change.TripID)
	if routeID == 0 {
		writeError(w, r, http.StatusBadRequest, "change references a trip outside the supplied set")
		return
	}

	acquired, err := h.Locks.Acquire(r.Context(), routeID, h.LockTTL)
	if err != nil {
		log.Printf("route lock failed: route=%d err=%v", routeID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !acquired {
		writeError(w, r, http.StatusConflict, "route is being modified by another request")
		return
	}
	defer func() {
		if err := h.Locks.Release(r.Context(), routeID); err != nil {
			log.Printf("route unlock failed: route=%d err=%v", routeID, err)
		}
	}()

	change := services.RescheduleRequest{
		TripID:       req.Change.TripID,
		NewStart:     req.Change.NewStart,
		NewEnd:       req.Change.NewEnd,
		NewVehicleID: req.Change.NewVehicleID,
		NewDriverID:  req.Change.NewDriverID,
	}

	opts := services.ConflictOptions{Turnaround: h.Turnaround}
	if req.TurnaroundMinutes > 0 {
		opts.Turnaround = time.Duration(req.TurnaroundMinutes) * time.Minute
	}

	validation, err := services.ValidateReschedule(trips, change, opts)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// A rejected reschedule is a well-formed request whose change the
	// schedule cannot absorb.
	status := http.StatusOK
	if !validation.Accepted {
		status = http.StatusConflict
	}
	writeJSON(w, r, status, dto.ValidateRescheduleResponse{
		Accepted: validation.Accepted,
		Blocking: dto.FromConflicts(validation.Blocking),
		Warnings: dto.FromConflicts(validation.Warnings),
	})
}

// routeOfTrip resolves the route the changed trip belongs to, for
// locking. Zero means the trip is not in the set.
func routeOfTrip(trips []domain.Trip, tripID int64) int64 {
	for _, t := range trips {
		if t.TripID == tripID {
			return t.RouteID
		}
	}
	return 0
}
