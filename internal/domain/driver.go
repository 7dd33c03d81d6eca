package domain

import "time"

// Driver snapshot. MaxOnDuty is the driver's on-duty window, derived by the
// workforce system and consumed here as-is.
type Driver struct {
	DriverID  int64
	MaxOnDuty time.Duration
}
