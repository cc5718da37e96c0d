package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumen-home/lumen-core/internal/scene"
	"github.com/lumen-home/lumen-core/internal/zone"
)

// Adjustment bounds. Accumulated offsets clamp here; a single delta
// outside the bound is rejected outright.
const (
	maxBrightnessAdjustment = 100
	maxWarmthAdjustment     = 2500
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// saveState persists the current adjustment bundle when a repository is
// attached.
func (e *Engine) saveState(ctx context.Context) error {
	if e.adjustRepo == nil {
		return nil
	}
	return e.adjustRepo.Save(ctx, e.adjust.snapshot())
}

// AdjustBrightness shifts the global brightness adjustment by delta.
//
// Persistent adjustments (sliders) update the offset, survive restarts,
// and never start timers. Non-persistent adjustments (button nudges)
// additionally place every enabled, unheld zone under a manual hold with
// a smart timeout, locking each zone's lights before its new boundary is
// applied.
func (e *Engine) AdjustBrightness(ctx context.Context, delta int, persistent bool) error {
	if delta < -maxBrightnessAdjustment || delta > maxBrightnessAdjustment {
		return fmt.Errorf("%w: brightness delta %d", ErrValueOutOfRange, delta)
	}

	e.adjust.mu.Lock()
	e.adjust.brightness = clampInt(e.adjust.brightness+delta, -maxBrightnessAdjustment, maxBrightnessAdjustment)
	e.adjust.temporary = !persistent
	e.adjust.mu.Unlock()

	e.logger.Info("brightness adjusted", "delta", delta, "persistent", persistent)

	if persistent {
		if err := e.saveState(ctx); err != nil {
			return err
		}
	} else {
		e.applyNudge()
	}

	e.RequestRecompute()
	return nil
}

// AdjustColorTemp shifts the global warmth adjustment by delta Kelvin.
// Negative is warmer. Semantics mirror AdjustBrightness.
func (e *Engine) AdjustColorTemp(ctx context.Context, delta int, persistent bool) error {
	if delta < -maxWarmthAdjustment || delta > maxWarmthAdjustment {
		return fmt.Errorf("%w: warmth delta %d", ErrValueOutOfRange, delta)
	}

	e.adjust.mu.Lock()
	e.adjust.warmth = clampInt(e.adjust.warmth+delta, -maxWarmthAdjustment, maxWarmthAdjustment)
	e.adjust.temporary = !persistent
	e.adjust.mu.Unlock()

	e.logger.Info("color temperature adjusted", "delta", delta, "persistent", persistent)

	if persistent {
		if err := e.saveState(ctx); err != nil {
			return err
		}
	} else {
		e.applyNudge()
	}

	e.RequestRecompute()
	return nil
}

// applyNudge pushes the new adjustment to every enabled zone not already
// under a manual or wake hold, locking each zone before its boundary so
// the adaptation engine cannot fight the user in the gap. Runs as a
// single-flight pass.
func (e *Engine) applyNudge() {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	now := e.now()
	envSnap := e.buildSnapshot(now)
	adj := e.adjust.snapshot()

	alarm, wakeTarget := e.wake.effectiveAlarm(e.sensors.NextAlarm())
	var rampStart time.Time
	if !alarm.IsZero() {
		rampStart = alarm.Add(-e.opts.WakeRampDuration)
	}

	sceneActive := adj.ActiveScene != scene.AutomaticID

	for _, z := range e.zones.Active() {
		if e.zoneState.ManualActive(z.ID, now) || e.zoneState.WakeActive(z.ID) {
			continue
		}

		if err := e.lights.SetManualOverride(z.ID, z.Lights, true); err != nil {
			e.logger.Warn("nudge lock failed, zone left automatic", "zone_id", z.ID, "error", err)
			continue
		}

		result := e.computeZone(z, envSnap, adj, now, rampStart, alarm, wakeTarget)
		if result.Error != "" {
			// Boundary apply failed; undo the lock so the zone is not
			// stranded at its old state until the timer expires.
			e.restoreAutomatic(z.ID)
			continue
		}

		base := e.opts.ManualTimeoutBase
		if z.ManualTimeout > 0 {
			base = z.ManualTimeout
		}
		e.zoneState.StartManualTimer(z.ID, now, 0, zone.TimeoutContext{
			Base:            base,
			SunElevation:    envSnap.SunElevation,
			BrightnessDelta: adj.Brightness,
			SceneActive:     sceneActive,
		})
	}
}

// ApplyScene activates a scene by id. Scene selection is persistent:
// it survives restarts and never starts manual timers. Applying the
// automatic scene returns every zone to plain adaptive behaviour.
func (e *Engine) ApplyScene(ctx context.Context, sceneID string) error {
	sc, err := e.scenes.Get(sceneID)
	if err != nil {
		return err
	}

	e.adjust.mu.Lock()
	e.adjust.activeScene = sc.ID
	e.adjust.mu.Unlock()

	e.logger.Info("scene applied", "scene", sc.ID)

	if err := e.saveState(ctx); err != nil {
		return err
	}
	e.notifySceneChanged(sc)
	e.RequestRecompute()
	return nil
}

// CycleScene advances to the next scene in cycle order and returns it.
func (e *Engine) CycleScene(ctx context.Context) (scene.Scene, error) {
	current := e.adjust.snapshot().ActiveScene
	next := e.scenes.Next(current)
	if err := e.ApplyScene(ctx, next.ID); err != nil {
		return scene.Scene{}, err
	}
	return next, nil
}

// notifySceneChanged publishes a scene-change event for dashboards that
// want it ahead of the next full snapshot.
func (e *Engine) notifySceneChanged(sc scene.Scene) {
	if e.broadcaster != nil {
		e.broadcaster.Broadcast("scene", sc)
	}
	if e.publisher != nil {
		if payload, err := json.Marshal(sc); err == nil {
			if err := e.publisher.PublishRetained(e.topics.CoreSceneChanged(), payload); err != nil {
				e.logger.Warn("publishing scene change", "error", err)
			}
		}
	}
}

// ResetAdjustments zeroes the global brightness and warmth offsets,
// persistent or not. The active scene and manual holds are untouched.
func (e *Engine) ResetAdjustments(ctx context.Context) error {
	e.adjust.mu.Lock()
	e.adjust.brightness = 0
	e.adjust.warmth = 0
	e.adjust.temporary = false
	e.adjust.mu.Unlock()

	e.logger.Info("adjustments reset")

	if err := e.saveState(ctx); err != nil {
		return err
	}
	e.RequestRecompute()
	return nil
}

// ResetAll returns the whole engine to its hands-off state: zero
// offsets, automatic scene, unpaused, no explicit alarm, and every
// manual hold and wake override released.
func (e *Engine) ResetAll(ctx context.Context) error {
	e.adjust.mu.Lock()
	e.adjust.brightness = 0
	e.adjust.warmth = 0
	e.adjust.temporary = false
	e.adjust.activeScene = scene.AutomaticID
	e.adjust.paused = false
	e.adjust.mu.Unlock()

	e.wake.clear()

	for _, z := range e.zones.List() {
		released := e.zoneState.ClearManualTimer(z.ID)
		if e.zoneState.ExitWake(z.ID) {
			released = true
		}
		if released {
			e.restoreAutomatic(z.ID)
		}
	}

	e.logger.Info("full reset")

	if err := e.saveState(ctx); err != nil {
		return err
	}
	e.RequestRecompute()
	return nil
}

// SetWakeAlarm schedules a wake ramp toward the given alarm time.
//
// Parameters:
//   - at: Alarm time; must be in the future
//   - zoneID: Optional target zone; empty ramps every wake-enabled zone
func (e *Engine) SetWakeAlarm(ctx context.Context, at time.Time, zoneID string) error {
	if !at.After(e.now()) {
		return fmt.Errorf("%w: %s", ErrAlarmInPast, at.Format(time.RFC3339))
	}
	if zoneID != "" {
		z, err := e.zones.Get(zoneID)
		if err != nil {
			return err
		}
		if !z.Wake {
			return fmt.Errorf("%w: %q", ErrWakeNotEnabled, zoneID)
		}
	}

	e.wake.set(at, zoneID)
	e.logger.Info("wake alarm set", "alarm", at, "zone_id", zoneID)
	e.RequestRecompute()
	return nil
}

// ClearWakeAlarm drops the explicit alarm and ends any running wake
// overrides. A ramp riding a sensor-published alarm is not affected:
// the sensor schedule would re-arm it on the next pass, so ending it
// here would only flap the lock. Idempotent: a second call is a no-op
// with no side effects.
func (e *Engine) ClearWakeAlarm(ctx context.Context) error {
	if !e.wake.clear() {
		for _, z := range e.zones.List() {
			if e.zoneState.WakeActive(z.ID) {
				e.logger.Info("no explicit alarm to clear, sensor-driven ramp continues", "zone_id", z.ID)
			}
		}
		return nil
	}

	now := e.now()
	for _, z := range e.zones.List() {
		if e.zoneState.ExitWake(z.ID) && !e.zoneState.ManualActive(z.ID, now) {
			e.restoreAutomatic(z.ID)
		}
	}

	e.logger.Info("wake alarm cleared")
	e.RequestRecompute()
	return nil
}

// SetZoneEnabled toggles a zone's participation in automatic control.
// Disabling also releases any hold so the lights are not left locked.
func (e *Engine) SetZoneEnabled(ctx context.Context, zoneID string, enabled bool) error {
	if err := e.zones.SetEnabled(zoneID, enabled); err != nil {
		return err
	}

	if !enabled {
		released := e.zoneState.ClearManualTimer(zoneID)
		if e.zoneState.ExitWake(zoneID) {
			released = true
		}
		if released {
			e.restoreAutomatic(zoneID)
		}
	}

	e.RequestRecompute()
	return nil
}

// SetPaused stops or resumes boundary application without tearing down
// the loop; passes still run and emit snapshots so observers can see the
// paused state.
func (e *Engine) SetPaused(ctx context.Context, paused bool) error {
	e.adjust.mu.Lock()
	changed := e.adjust.paused != paused
	e.adjust.paused = paused
	e.adjust.mu.Unlock()

	if changed {
		e.logger.Info("paused state changed", "paused", paused)
		if err := e.saveState(ctx); err != nil {
			return err
		}
		e.RequestRecompute()
	}
	return nil
}

// ZoneStatus summarizes one configured zone for the API: definition,
// control state, hold expiry, and health.
type ZoneStatus struct {
	Zone         zone.Zone  `json:"zone"`
	State        zone.State `json:"state"`
	ManualExpiry *time.Time `json:"manual_expiry,omitempty"`
	Blocked      bool       `json:"blocked"`
	Healthy      bool       `json:"healthy"`
}

// ZoneStates returns the status of every configured zone in
// configuration order.
func (e *Engine) ZoneStates() []ZoneStatus {
	now := e.now()
	var out []ZoneStatus
	for _, z := range e.zones.List() {
		st := ZoneStatus{
			Zone:    z,
			State:   e.zoneState.StateOf(z.ID, now),
			Blocked: e.zones.IsBlocked(z.ID),
			Healthy: e.health.healthy(z.ID),
		}
		if exp := e.zoneState.ManualExpiry(z.ID); !exp.IsZero() {
			st.ManualExpiry = &exp
		}
		out = append(out, st)
	}
	return out
}
