package boost

import "math"

const (
	// sunsetWindowDeg bounds the elevation window: the calculator is
	// active while the sun sits within this many degrees of the horizon
	// in either direction. Sunrise qualifies as well as sunset; dark
	// mornings benefit from the same ramp.
	sunsetWindowDeg = 4.0

	// sunsetMaxBoost is the brightness boost at the bottom of the window.
	sunsetMaxBoost = 25.0

	// sunsetMaxWarmth is the warmth shift (Kelvin) at the bottom of the
	// window. Negative shifts the boundary toward warmer light.
	sunsetMaxWarmth = -500.0
)

// SunsetCalculator boosts brightness and warms colour temperature while
// the sun crosses the horizon on a dark day.
type SunsetCalculator struct {
	darkDayLux float64
}

// NewSunsetCalculator creates a calculator that activates only when
// outdoor illuminance is below darkDayLux.
func NewSunsetCalculator(darkDayLux float64) *SunsetCalculator {
	return &SunsetCalculator{darkDayLux: darkDayLux}
}

// Calculate returns the sunset brightness boost in [0,25] and warmth
// offset in [-500,0] Kelvin.
//
// Both are zero unless lux is known, below the dark-day threshold, and
// the sun is within the horizon window. Inside the window both outputs
// ramp linearly with descending elevation: deeper below the horizon
// means brighter and warmer.
func (s *SunsetCalculator) Calculate(snap Snapshot) (brightness, warmth float64) {
	if snap.Lux == nil || snap.SunElevation == nil {
		return 0, 0
	}
	if *snap.Lux >= s.darkDayLux {
		return 0, 0
	}

	elev := *snap.SunElevation
	if elev < -sunsetWindowDeg || elev > sunsetWindowDeg {
		return 0, 0
	}

	// Fraction of the way down through the window: 0 at +4, 1 at -4.
	frac := (sunsetWindowDeg - elev) / (2 * sunsetWindowDeg)

	brightness = math.Min(math.Max(frac*sunsetMaxBoost, 0), sunsetMaxBoost)
	warmth = math.Max(math.Min(frac*sunsetMaxWarmth, 0), sunsetMaxWarmth)
	return brightness, warmth
}
