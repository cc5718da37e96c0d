package boost

import (
	"math"

	"github.com/lumen-home/lumen-core/internal/sun"
)

// envMaxBoost caps the environmental contribution.
const envMaxBoost = 25.0

// LuxStep is one rung of the illuminance ladder: readings below Lux earn
// Boost percent. Steps must be ordered by ascending Lux.
type LuxStep struct {
	Lux   float64
	Boost float64
}

// defaultLuxLadder is inverse-graduated: the darker it is outside, the
// larger the boost.
var defaultLuxLadder = []LuxStep{
	{Lux: 10, Boost: 15},
	{Lux: 25, Boost: 10},
	{Lux: 50, Boost: 8},
	{Lux: 100, Boost: 5},
	{Lux: 200, Boost: 3},
}

// weatherBoosts maps condition strings to brightness boosts. Conditions
// that block the most daylight earn the most; clear skies earn nothing.
// Unknown conditions contribute zero.
var weatherBoosts = map[string]float64{
	"fog":             15,
	"pouring":         15,
	"hail":            15,
	"snowy-rainy":     14,
	"snowy":           13,
	"cloudy":          13,
	"lightning-rainy": 13,
	"rainy":           12,
	"lightning":       12,
	"exceptional":     10,
	"partlycloudy":    6,
	"windy":           3,
	"windy-variant":   3,
	"clear-night":     0,
	"sunny":           0,
	"clear":           0,
}

// seasonBoost biases toward brighter interiors in winter and slightly
// dimmer in summer.
func seasonBoost(s sun.Season) float64 {
	switch s {
	case sun.SeasonWinter:
		return 8
	case sun.SeasonSummer:
		return -3
	default:
		return 0
	}
}

// EnvironmentalCalculator derives a brightness boost from ambient
// conditions: illuminance, weather, and season, scaled by time of day.
type EnvironmentalCalculator struct {
	ladder []LuxStep
}

// NewEnvironmentalCalculator creates a calculator with the given lux
// ladder, or the default ladder if steps is empty.
func NewEnvironmentalCalculator(steps []LuxStep) *EnvironmentalCalculator {
	if len(steps) == 0 {
		steps = defaultLuxLadder
	}
	return &EnvironmentalCalculator{ladder: steps}
}

// Calculate returns the environmental brightness boost in [0,25].
//
// Three factors are summed (lux ladder, weather table, season bias) and
// the sum is scaled by a time-of-day multiplier before clamping. The
// multiplier suppresses the boost entirely when the sun is well below
// the horizon: at night the adaptive engine is already dimming and an
// environmental boost would fight it.
func (e *EnvironmentalCalculator) Calculate(snap Snapshot) float64 {
	sum := e.luxBoost(snap.Lux) + weatherBoost(snap.Weather) + seasonBoost(snap.Season)

	sum *= timeOfDayMultiplier(snap.SunElevation, snap.ClockHour)

	return math.Min(math.Max(sum, 0), envMaxBoost)
}

// luxBoost walks the ladder and returns the boost for the first rung the
// reading falls under. Nil readings contribute zero.
func (e *EnvironmentalCalculator) luxBoost(lux *float64) float64 {
	if lux == nil {
		return 0
	}
	for _, step := range e.ladder {
		if *lux < step.Lux {
			return step.Boost
		}
	}
	return 0
}

func weatherBoost(condition *string) float64 {
	if condition == nil {
		return 0
	}
	return weatherBoosts[*condition]
}

// timeOfDayMultiplier scales the environmental sum by sun position:
// below -6 degrees the boost is suppressed, in the dawn/dusk band it is
// reduced, and in daylight it passes through unscaled. When no sun data
// is available a clock-hour table with the same shape is used instead.
func timeOfDayMultiplier(elevation *float64, clockHour int) float64 {
	if elevation != nil {
		switch {
		case *elevation < -6:
			return 0.0
		case *elevation <= 0:
			return 0.7
		default:
			return 1.0
		}
	}
	return clockMultiplier(clockHour)
}

// clockMultiplier approximates the elevation bands from the wall clock.
// Early-morning hours stay at neutral: without sun data we cannot tell a
// dark winter morning from a bright summer one, and penalizing the hours
// people most need light would be the wrong default.
func clockMultiplier(hour int) float64 {
	switch {
	case hour >= 22 || hour < 5:
		return 0.0
	case hour < 8:
		return 1.0
	case hour >= 18:
		return 0.7
	default:
		return 1.0
	}
}
