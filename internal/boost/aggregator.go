package boost

import (
	"math"

	"github.com/lumen-home/lumen-core/internal/boundary"
)

// Stacking caps relative to the zone's base range width. A zone whose
// base range is narrower than narrowRangeWidth gets the tighter cap so
// stacked boosts cannot collapse it to a sliver.
const (
	narrowRangeWidth = 45
	narrowRangeCap   = 30
	wideRangeCap     = 50
)

// ZoneFlags carries the per-zone switches the aggregator honours.
type ZoneFlags struct {
	EnvironmentalEnabled bool
	SunsetEnabled        bool
	WakeEnabled          bool
	WakeActive           bool
}

// Inputs are the contributions for one zone on one pass. Calculator
// outputs are floats; user-driven offsets are the integers the API
// accepted.
type Inputs struct {
	Environmental float64
	Sunset        float64
	SunsetWarmth  float64
	Wake          float64

	ManualBrightness int
	ManualWarmth     int
	SceneBrightness  int
	SceneWarmth      int
}

// Result is the aggregated pair of deltas handed to the boundary engine.
type Result struct {
	BrightnessDelta int
	WarmthDelta     int

	// Capped is true when the brightness sum exceeded the zone's cap.
	Capped bool
}

// Aggregate combines calculator boosts, manual adjustments, and scene
// offsets into a single brightness/warmth delta pair for a zone.
//
// While the zone's wake ramp is active, environmental and sunset
// contributions (brightness and warmth alike) are excluded entirely:
// wake has exclusive authority over the curve so a cloudy morning cannot
// distort the ramp. The summed brightness delta is clamped to the zone's
// range-width cap before it reaches the boundary engine.
//
// Aggregate never fails; missing contributions arrive as zero.
func Aggregate(base boundary.Range, flags ZoneFlags, in Inputs) Result {
	brightness := float64(in.ManualBrightness + in.SceneBrightness)
	warmth := float64(in.ManualWarmth + in.SceneWarmth)

	if flags.WakeActive {
		if flags.WakeEnabled {
			brightness += in.Wake
		}
	} else {
		if flags.EnvironmentalEnabled {
			brightness += in.Environmental
		}
		if flags.SunsetEnabled {
			brightness += in.Sunset
			warmth += in.SunsetWarmth
		}
		if flags.WakeEnabled {
			brightness += in.Wake
		}
	}

	maxAllowed := float64(wideRangeCap)
	if base.Width() < narrowRangeWidth {
		maxAllowed = narrowRangeCap
	}

	capped := false
	if brightness > maxAllowed {
		brightness = maxAllowed
		capped = true
	} else if brightness < -maxAllowed {
		brightness = -maxAllowed
		capped = true
	}

	return Result{
		BrightnessDelta: int(math.Round(brightness)),
		WarmthDelta:     int(math.Round(warmth)),
		Capped:          capped,
	}
}
