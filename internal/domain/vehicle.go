package domain

// Vehicle snapshot: seating capacity in students and the fuel burn factor
// in liters per kilometer, used by the fuel and cost objectives.
type Vehicle struct {
	VehicleID int64
	Capacity  int
	FuelPerKm float64
}
