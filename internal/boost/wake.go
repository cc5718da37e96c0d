package boost

import "time"

// wakeMaxBoost is the ceiling of the wake ramp in brightness percent.
const wakeMaxBoost = 90.0

// wakeStages maps ramp progress quarters to fractions of wakeMaxBoost.
// The curve holds at zero through the first quarter so the room stays
// dark while the sleeper is deepest, then steps up; the perceived
// brightening is gradual rather than linear from zero.
var wakeStages = []struct {
	progress float64
	fraction float64
}{
	{0.25, 0.0},
	{0.50, 0.2},
	{0.75, 0.5},
	{1.00, 0.9},
}

// WakeCalculator produces the staged brightness ramp ahead of a
// scheduled alarm. It is stateless; the coordinator owns the alarm and
// ramp-start timestamps.
type WakeCalculator struct{}

// NewWakeCalculator creates a WakeCalculator.
func NewWakeCalculator() *WakeCalculator {
	return &WakeCalculator{}
}

// Calculate returns the wake brightness boost in [0,90] for the given
// instant.
//
// Zero when no alarm is scheduled (nextAlarm zero), before the ramp
// starts, or at and after the alarm itself. At the alarm the sequence is
// complete and the zone's own state machine handles the wake-end
// transition; the calculator simply stops contributing.
func (w *WakeCalculator) Calculate(rampStart, nextAlarm, now time.Time) float64 {
	if nextAlarm.IsZero() || rampStart.IsZero() {
		return 0
	}
	if now.Before(rampStart) || !now.Before(nextAlarm) {
		return 0
	}

	total := nextAlarm.Sub(rampStart)
	if total <= 0 {
		return 0
	}
	progress := float64(now.Sub(rampStart)) / float64(total)

	for _, stage := range wakeStages {
		if progress < stage.progress {
			return stage.fraction * wakeMaxBoost
		}
	}
	return 0.9 * wakeMaxBoost
}

// Active reports whether the ramp window contains now.
func (w *WakeCalculator) Active(rampStart, nextAlarm, now time.Time) bool {
	if nextAlarm.IsZero() || rampStart.IsZero() {
		return false
	}
	return !now.Before(rampStart) && now.Before(nextAlarm)
}
