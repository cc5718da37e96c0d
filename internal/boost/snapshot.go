package boost

import "github.com/lumen-home/lumen-core/internal/sun"

// Snapshot is the environmental input for one calculation pass.
//
// Pointer fields are nil when the corresponding sensor has no fresh
// reading; calculators substitute a neutral contribution rather than
// failing. A Snapshot is rebuilt every tick and never persisted.
type Snapshot struct {
	// Lux is the outdoor illuminance in lux, nil if unavailable.
	Lux *float64

	// Weather is the current condition string (e.g., "cloudy", "fog"),
	// nil if unavailable.
	Weather *string

	// Season is the meteorological season at the site.
	Season sun.Season

	// SunElevation is the sun's elevation in degrees, nil if neither a
	// sensor reading nor a computed position is available.
	SunElevation *float64

	// ClockHour is the local wall-clock hour [0,23], used as the
	// time-of-day fallback when SunElevation is nil.
	ClockHour int
}
