package zone

import (
	"sync"
	"time"
)

// State names the control mode a zone is in.
type State string

const (
	// StateAutomatic means the coordinator recomputes the zone each tick.
	StateAutomatic State = "automatic"

	// StateManualHeld means a user adjustment holds the zone until its
	// timer expires.
	StateManualHeld State = "manual_held"

	// StateWakeOverride means the wake ramp owns the zone. It takes
	// precedence over a concurrent manual hold without cancelling it.
	StateWakeOverride State = "wake_override"
)

// Smart-timeout multipliers and clamps. At night or after a dim-down a
// manual hold should outlive the default; in a scene the user has made a
// deliberate choice and gets more time still.
const (
	nightMultiplier = 1.5
	dimMultiplier   = 1.3
	sceneMultiplier = 1.5

	minManualHold = 5 * time.Minute
	maxManualHold = 2 * time.Hour

	nightElevationDeg = -6.0
	dimDeltaThreshold = -20
)

// TimeoutContext carries the conditions the smart-timeout rule inspects.
type TimeoutContext struct {
	// Base is the configured hold duration before multipliers.
	Base time.Duration

	// SunElevation is the current sun elevation in degrees, nil when
	// unknown (treated as daytime, no night multiplier).
	SunElevation *float64

	// BrightnessDelta is the current global brightness adjustment.
	BrightnessDelta int

	// SceneActive is true when a non-default scene is applied.
	SceneActive bool
}

// ComputeTimeout applies the smart-timeout rule to the context.
//
// Returns the base duration scaled by the night, dim, and scene
// multipliers, hard-clamped to [5min, 2h].
func ComputeTimeout(tc TimeoutContext) time.Duration {
	d := float64(tc.Base)
	if tc.SunElevation != nil && *tc.SunElevation < nightElevationDeg {
		d *= nightMultiplier
	}
	if tc.BrightnessDelta < dimDeltaThreshold {
		d *= dimMultiplier
	}
	if tc.SceneActive {
		d *= sceneMultiplier
	}

	out := time.Duration(d)
	if out < minManualHold {
		return minManualHold
	}
	if out > maxManualHold {
		return maxManualHold
	}
	return out
}

// runtimeState is the volatile per-zone control state. Never persisted;
// a restart means automatic control everywhere.
type runtimeState struct {
	manualActive bool
	manualExpiry time.Time
	wakeActive   bool
}

// Manager is the per-zone control state machine.
//
// Timers are expiry timestamps compared at each coordinator tick, not OS
// timers. The slop this admits (at most one tick interval) buys full
// determinism: no zone's expiry check can race another's, and tests
// drive the clock explicitly.
//
// Thread Safety: all methods are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	states map[string]*runtimeState
	logger Logger
}

// NewManager creates a Manager with every zone in automatic control.
func NewManager() *Manager {
	return &Manager{
		states: make(map[string]*runtimeState),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

func (m *Manager) state(id string) *runtimeState {
	s, ok := m.states[id]
	if !ok {
		s = &runtimeState{}
		m.states[id] = s
	}
	return s
}

// StartManualTimer places the zone in ManualHeld until now + duration.
//
// When explicit is zero the smart-timeout rule computes the duration
// from tc. Restarting an already-held zone's timer replaces the expiry;
// holds extend, they do not stack.
//
// Returns the effective duration so callers can report it.
func (m *Manager) StartManualTimer(zoneID string, now time.Time, explicit time.Duration, tc TimeoutContext) time.Duration {
	duration := explicit
	if duration == 0 {
		duration = ComputeTimeout(tc)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	s.manualActive = true
	s.manualExpiry = now.Add(duration)

	m.logger.Debug("manual hold started",
		"zone_id", zoneID, "duration", duration, "expiry", s.manualExpiry)
	return duration
}

// ClearManualTimer returns the zone to automatic control immediately.
// Idempotent; clearing an unheld zone is a no-op.
func (m *Manager) ClearManualTimer(zoneID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	if !s.manualActive {
		return false
	}
	s.manualActive = false
	s.manualExpiry = time.Time{}
	return true
}

// CheckExpiries clears every manual hold whose expiry has passed.
//
// Returns:
//   - expired: Zone ids whose holds just ended, for restore side effects
//   - allClear: true when no zone holds manual control after the sweep
//
// Calling again with the same clock is a no-op that reports no newly
// expired zones.
func (m *Manager) CheckExpiries(now time.Time) (expired []string, allClear bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	allClear = true
	for id, s := range m.states {
		if s.manualActive && !s.manualExpiry.After(now) {
			s.manualActive = false
			s.manualExpiry = time.Time{}
			expired = append(expired, id)
			m.logger.Info("manual hold expired", "zone_id", id)
		}
		if s.manualActive {
			allClear = false
		}
	}
	return expired, allClear
}

// EnterWake places the zone in WakeOverride.
//
// A concurrent manual hold is overridden, not cancelled: its timer keeps
// counting, so if it expires during the wake window the zone returns to
// automatic when the ramp ends. Idempotent; returns true only on the
// transition.
func (m *Manager) EnterWake(zoneID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	if s.wakeActive {
		return false
	}
	s.wakeActive = true
	m.logger.Info("wake override started", "zone_id", zoneID)
	return true
}

// ExitWake clears the wake override. Idempotent; returns true only on
// the transition. The caller must trigger a boundary recompute for the
// zone after a true return.
func (m *Manager) ExitWake(zoneID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	if !s.wakeActive {
		return false
	}
	s.wakeActive = false
	m.logger.Info("wake override ended", "zone_id", zoneID)
	return true
}

// ManualActive reports whether the zone is under a manual hold at now,
// without mutating state.
func (m *Manager) ManualActive(zoneID string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	return s.manualActive && s.manualExpiry.After(now)
}

// WakeActive reports whether the zone is in WakeOverride.
func (m *Manager) WakeActive(zoneID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(zoneID).wakeActive
}

// StateOf returns the zone's current control state. WakeOverride wins
// over ManualHeld when both flags are set.
func (m *Manager) StateOf(zoneID string, now time.Time) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state(zoneID)
	switch {
	case s.wakeActive:
		return StateWakeOverride
	case s.manualActive && s.manualExpiry.After(now):
		return StateManualHeld
	default:
		return StateAutomatic
	}
}

// ManualExpiry returns the hold expiry for a zone, zero when unheld.
func (m *Manager) ManualExpiry(zoneID string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(zoneID).manualExpiry
}
