package coordinator

import (
	"sync"
	"time"

	"github.com/lumen-home/lumen-core/internal/scene"
)

// adjustmentState is the process-wide adjustment bundle.
//
// Temporary tracks whether the current offsets came from button nudges:
// those reset to zero once every manual hold has expired. Slider-set
// (persistent) offsets and the active scene survive both the all-clear
// sweep and process restarts.
type adjustmentState struct {
	mu sync.Mutex

	brightness int
	warmth     int
	temporary  bool

	activeScene string
	paused      bool
}

func newAdjustmentState() *adjustmentState {
	return &adjustmentState{activeScene: scene.AutomaticID}
}

// snapshotLocked copies the fields callers report on. Callers hold mu.
type adjustmentSnapshot struct {
	Brightness  int
	Warmth      int
	Temporary   bool
	ActiveScene string
	Paused      bool
}

func (s *adjustmentState) snapshot() adjustmentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return adjustmentSnapshot{
		Brightness:  s.brightness,
		Warmth:      s.warmth,
		Temporary:   s.temporary,
		ActiveScene: s.activeScene,
		Paused:      s.paused,
	}
}

// wakeState tracks the alarm the engine is ramping toward.
//
// The alarm can come from the alarm sensor topic or be set explicitly
// through the API; an explicit alarm wins until cleared. TargetZone
// narrows the ramp to one zone; empty means every wake-enabled zone.
type wakeState struct {
	mu sync.Mutex

	explicitAlarm time.Time
	targetZone    string
}

// effectiveAlarm picks the alarm to ramp toward: the explicit one when
// set, otherwise the sensor-reported one.
func (w *wakeState) effectiveAlarm(sensorAlarm time.Time) (alarm time.Time, targetZone string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.explicitAlarm.IsZero() {
		return w.explicitAlarm, w.targetZone
	}
	return sensorAlarm, ""
}

func (w *wakeState) set(alarm time.Time, targetZone string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.explicitAlarm = alarm
	w.targetZone = targetZone
}

// clear drops the explicit alarm. Returns true if one was set, so the
// caller can skip side effects on a repeat clear.
func (w *wakeState) clear() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	had := !w.explicitAlarm.IsZero()
	w.explicitAlarm = time.Time{}
	w.targetZone = ""
	return had
}
