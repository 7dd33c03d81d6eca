package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidGeometry reports coordinates outside the WGS84 range.
var ErrInvalidGeometry = errors.New("invalid geometry: coordinates out of range")

// Immutable geographic point in decimal degrees (WGS84).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidGeometry, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidGeometry, p.Lon)
	}
	return nil
}

const earthRadiusKm = 6371.0

// Distance returns the great-circle (haversine) distance between two points
// in kilometers.
func Distance(a, b GeoPoint) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("distance: point a: %w", err)
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("distance: point b: %w", err)
	}

	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	latA := toRadians(a.Lat)
	latB := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}

// RouteLength returns the sum of consecutive great-circle distances over an
// ordered list of points. Fewer than two points yields zero.
func RouteLength(points []GeoPoint) (float64, error) {
	total := 0.0
	for i := 1; i < len(points); i++ {
		d, err := Distance(points[i-1], points[i])
		if err != nil {
			return 0, fmt.Errorf("route length: leg %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}

// EstimateDuration converts a distance into travel time at an average speed.
// Non-positive speed yields zero duration rather than a division error.
func EstimateDuration(distanceKm, avgSpeedKmh float64) time.Duration {
	if avgSpeedKmh <= 0 || distanceKm <= 0 {
		return 0
	}
	hours := distanceKm / avgSpeedKmh
	return time.Duration(hours * float64(time.Hour))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
