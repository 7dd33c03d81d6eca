package dto

import (
	"school-route-service/internal/domain"
	"time"
)

// Wire shapes for the caller-assembled domain snapshots. The API layer
// receives already-validated entities from the surrounding service and
// maps them onto flat value structs; it never loads them itself.

type GeoPointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type StopDTO struct {
	StopID             int64     `json:"stop_id"`
	RouteID            int64     `json:"route_id"`
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	StopOrder          int       `json:"stop_order"`
	ScheduledArrival   time.Time `json:"scheduled_arrival"`
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	IsPickup           bool      `json:"is_pickup"`
	IsDropoff          bool      `json:"is_dropoff"`
	StudentIDs         []int64   `json:"student_ids"`
}

type VehicleDTO struct {
	VehicleID int64   `json:"vehicle_id"`
	Capacity  int     `json:"capacity"`
	FuelPerKm float64 `json:"fuel_per_km"`
}

type DriverDTO struct {
	DriverID         int64 `json:"driver_id"`
	MaxOnDutyMinutes int   `json:"max_on_duty_minutes"`
}

type RouteSnapshotDTO struct {
	RouteID  int64        `json:"route_id"`
	TenantID int64        `json:"tenant_id"`
	Name     string       `json:"name"`
	Status   string       `json:"status"`
	Stops    []StopDTO    `json:"stops"`
	Vehicle  *VehicleDTO  `json:"vehicle"`
	Driver   *DriverDTO   `json:"driver"`
	Start    *GeoPointDTO `json:"start"`
}

type TripDTO struct {
	TripID         int64     `json:"trip_id"`
	TenantID       int64     `json:"tenant_id"`
	RouteID        int64     `json:"route_id"`
	VehicleID      int64     `json:"vehicle_id"`
	DriverID       int64     `json:"driver_id"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	Status         string    `json:"status"`
}

func (s StopDTO) ToDomain() domain.Stop {
	return domain.Stop{
		StopID:             s.StopID,
		RouteID:            s.RouteID,
		Location:           domain.GeoPoint{Lat: s.Lat, Lon: s.Lon},
		StopOrder:          s.StopOrder,
		ScheduledArrival:   s.ScheduledArrival,
		ScheduledDeparture: s.ScheduledDeparture,
		IsPickup:           s.IsPickup,
		IsDropoff:          s.IsDropoff,
		StudentIDs:         s.StudentIDs,
	}
}

func (r RouteSnapshotDTO) ToDomain() domain.RouteSnapshot {
	route := domain.RouteSnapshot{
		RouteID:  r.RouteID,
		TenantID: r.TenantID,
		Name:     r.Name,
		Status:   domain.RouteStatus(r.Status),
	}

	route.Stops = make([]domain.Stop, 0, len(r.Stops))
	for _, s := range r.Stops {
		route.Stops = append(route.Stops, s.ToDomain())
	}

	if r.Vehicle != nil {
		route.Vehicle = &domain.Vehicle{
			VehicleID: r.Vehicle.VehicleID,
			Capacity:  r.Vehicle.Capacity,
			FuelPerKm: r.Vehicle.FuelPerKm,
		}
	}
	if r.Driver != nil {
		route.Driver = &domain.Driver{
			DriverID:  r.Driver.DriverID,
			MaxOnDuty: time.Duration(r.Driver.MaxOnDutyMinutes) * time.Minute,
		}
	}
	if r.Start != nil {
		route.StartLocation = &domain.GeoPoint{Lat: r.Start.Lat, Lon: r.Start.Lon}
	}

	return route
}

func (t TripDTO) ToDomain() domain.Trip {
	return domain.Trip{
		TripID:         t.TripID,
		TenantID:       t.TenantID,
		RouteID:        t.RouteID,
		VehicleID:      t.VehicleID,
		DriverID:       t.DriverID,
		ScheduledStart: t.ScheduledStart,
		ScheduledEnd:   t.ScheduledEnd,
		Status:         domain.TripStatus(t.Status),
	}
}

func TripsToDomain(trips []TripDTO) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ToDomain())
	}
	return out
}
