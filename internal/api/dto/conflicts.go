package dto

import (
	"school-route-service/internal/domain"
	"time"
)

type DetectConflictsRequest struct {
	Trips               []TripDTO `json:"trips"`
	TurnaroundMinutes   int       `json:"turnaround_minutes"`
	AlternateVehicleIDs []int64   `json:"alternate_vehicle_ids"`
	AlternateDriverIDs  []int64   `json:"alternate_driver_ids"`
}

type ResolutionResponse struct {
	Kind                string  `json:"kind"`
	Description         string  `json:"description"`
	TripID              int64   `json:"trip_id"`
	AlternateResourceID int64   `json:"alternate_resource_id,omitempty"`
	ShiftMinutes        float64 `json:"shift_minutes,omitempty"`
}

type ConflictResponse struct {
	ConflictID      string               `json:"conflict_id"`
	Type            string               `json:"type"`
	Severity        string               `json:"severity"`
	ResourceID      int64                `json:"resource_id"`
	AffectedTripIDs []int64              `json:"affected_trip_ids"`
	Description     string               `json:"description"`
	Resolutions     []ResolutionResponse `json:"resolutions"`
}

type DetectConflictsResponse struct {
	Conflicts []ConflictResponse `json:"conflicts"`
}

type RescheduleChangeDTO struct {
	TripID       int64     `json:"trip_id"`
	NewStart     time.Time `json:"new_start"`
	NewEnd       time.Time `json:"new_end"`
	NewVehicleID *int64    `json:"new_vehicle_id"`
	NewDriverID  *int64    `json:"new_driver_id"`
}

type ValidateRescheduleRequest struct {
	Trips             []TripDTO           `json:"trips"`
	Change            RescheduleChangeDTO `json:"change"`
	TurnaroundMinutes int                 `json:"turnaround_minutes"`
}

type ValidateRescheduleResponse struct {
	Accepted bool               `json:"accepted"`
	Blocking []ConflictResponse `json:"blocking"`
	Warnings []ConflictResponse `json:"warnings"`
}

func FromConflict(c domain.ScheduleConflict) ConflictResponse {
	resolutions := make([]ResolutionResponse, 0, len(c.Resolutions))
	for _, r := range c.Resolutions {
		resolutions = append(resolutions, ResolutionResponse{
			Kind:                string(r.Kind),
			Description:         r.Description,
			TripID:              r.TripID,
			AlternateResourceID: r.AlternateResourceID,
			ShiftMinutes:        r.Shift.Minutes(),
		})
	}

	return ConflictResponse{
		ConflictID:      c.ConflictID,
		Type:            string(c.Type),
		Severity:        string(c.Severity),
		ResourceID:      c.ResourceID,
		AffectedTripIDs: c.AffectedTripIDs,
		Description:     c.Description,
		Resolutions:     resolutions,
	}
}

func FromConflicts(conflicts []domain.ScheduleConflict) []ConflictResponse {
	out := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, FromConflict(c))
	}
	return out
}
