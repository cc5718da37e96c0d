package boost

import (
	"testing"

	"github.com/lumen-home/lumen-core/internal/boundary"
	"github.com/lumen-home/lumen-core/internal/sun"
)

func TestAggregateNarrowZoneCap(t *testing.T) {
	// Range width 30 (narrow): {+20,+18,+10} must clamp to +30, not +48.
	base := boundary.Range{Min: 30, Max: 60}
	flags := ZoneFlags{EnvironmentalEnabled: true, SunsetEnabled: true}
	in := Inputs{
		Environmental:    20,
		Sunset:           18,
		ManualBrightness: 10,
	}

	res := Aggregate(base, flags, in)
	if res.BrightnessDelta != 30 {
		t.Errorf("narrow zone delta = %d, want 30", res.BrightnessDelta)
	}
	if !res.Capped {
		t.Error("Capped not reported")
	}
}

func TestAggregateWideZoneCap(t *testing.T) {
	base := boundary.Range{Min: 20, Max: 100}
	flags := ZoneFlags{EnvironmentalEnabled: true, SunsetEnabled: true}
	in := Inputs{
		Environmental:    20,
		Sunset:           18,
		ManualBrightness: 10,
	}

	res := Aggregate(base, flags, in)
	if res.BrightnessDelta != 48 {
		t.Errorf("wide zone delta = %d, want 48 uncapped", res.BrightnessDelta)
	}
	if res.Capped {
		t.Error("Capped reported for in-range sum")
	}

	// But the wide cap still binds at 50.
	in.ManualBrightness = 20
	res = Aggregate(base, flags, in)
	if res.BrightnessDelta != 50 || !res.Capped {
		t.Errorf("wide zone over-cap = %d capped=%v, want 50 capped", res.BrightnessDelta, res.Capped)
	}
}

func TestAggregateWakeExclusivity(t *testing.T) {
	base := boundary.Range{Min: 20, Max: 100}
	flags := ZoneFlags{EnvironmentalEnabled: true, SunsetEnabled: true, WakeEnabled: true, WakeActive: true}
	in := Inputs{
		Environmental: 25,
		Sunset:        25,
		SunsetWarmth:  -500,
		Wake:          45,
	}

	res := Aggregate(base, flags, in)
	if res.BrightnessDelta != 45 {
		t.Errorf("wake-active delta = %d, want wake contribution only (45)", res.BrightnessDelta)
	}
	if res.WarmthDelta != 0 {
		t.Errorf("wake-active warmth = %d, want sunset warmth excluded (0)", res.WarmthDelta)
	}
}

func TestAggregateDisabledContributions(t *testing.T) {
	base := boundary.Range{Min: 20, Max: 100}
	in := Inputs{
		Environmental: 10,
		Sunset:        15,
		SunsetWarmth:  -300,
		Wake:          45,
	}

	// Sunset and wake both disabled: only environmental remains.
	res := Aggregate(base, ZoneFlags{EnvironmentalEnabled: true}, in)
	if res.BrightnessDelta != 10 {
		t.Errorf("delta = %d, want 10", res.BrightnessDelta)
	}
	if res.WarmthDelta != 0 {
		t.Errorf("warmth = %d, want 0", res.WarmthDelta)
	}
}

func TestAggregateWarmthSum(t *testing.T) {
	base := boundary.Range{Min: 20, Max: 100}
	flags := ZoneFlags{EnvironmentalEnabled: true, SunsetEnabled: true}
	in := Inputs{
		SunsetWarmth: -375,
		ManualWarmth: -250,
		SceneWarmth:  100,
	}

	res := Aggregate(base, flags, in)
	if res.WarmthDelta != -525 {
		t.Errorf("warmth = %d, want -525", res.WarmthDelta)
	}
}

// TestDarkAfternoonScenario walks the full calculator chain for a cloudy
// winter afternoon with the sun just below the horizon: lux 1200, a wide
// 20-100 zone. Environmental lands near 15, sunset near 19 with a -375K
// warmth shift, and the combined floor rises to 53.
func TestDarkAfternoonScenario(t *testing.T) {
	env := NewEnvironmentalCalculator(nil)
	sunset := NewSunsetCalculator(3000)

	snap := Snapshot{
		Lux:          ptr(1200.0),
		Weather:      ptr("cloudy"),
		Season:       sun.SeasonWinter,
		SunElevation: ptr(-2.0),
	}

	envBoost := env.Calculate(snap)
	if envBoost < 14 || envBoost > 16 {
		t.Errorf("environmental = %.2f, want about 15", envBoost)
	}

	sunBoost, warmth := sunset.Calculate(snap)
	if sunBoost < 18 || sunBoost > 19 {
		t.Errorf("sunset = %.2f, want about 18.75", sunBoost)
	}
	if warmth != -375 {
		t.Errorf("warmth = %.0f, want -375", warmth)
	}

	base := boundary.Range{Min: 20, Max: 100}
	res := Aggregate(base, ZoneFlags{EnvironmentalEnabled: true, SunsetEnabled: true}, Inputs{
		Environmental: envBoost,
		Sunset:        sunBoost,
		SunsetWarmth:  warmth,
	})

	got := boundary.ApplyAsymmetric(base, res.BrightnessDelta, boundary.Brightness)
	if got.Min != 53 || got.Max != 100 {
		t.Errorf("boundary = %v, want {53,100}", got)
	}
}
