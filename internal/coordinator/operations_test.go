package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumen-home/lumen-core/internal/scene"
	"github.com/lumen-home/lumen-core/internal/zone"
)

func TestNudgeLocksHoldsAndApplies(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	if err := e.AdjustBrightness(ctx, 20, false); err != nil {
		t.Fatalf("AdjustBrightness: %v", err)
	}

	for _, id := range []string{"living-room", "bedroom"} {
		calls := te.lights.callsFor(id)
		if len(calls) != 2 {
			t.Fatalf("%s received %d calls, want lock+boundaries", id, len(calls))
		}
		// Lock strictly before boundary: the known race this ordering
		// prevents is the boundary landing on an unlocked zone.
		if calls[0].kind != "override" || !calls[0].active {
			t.Errorf("%s first call = %+v, want lock", id, calls[0])
		}
		if calls[1].kind != "boundaries" {
			t.Errorf("%s second call = %+v, want boundaries", id, calls[1])
		}

		if !e.zoneState.ManualActive(id, *te.clock) {
			t.Errorf("%s has no manual hold after nudge", id)
		}
	}

	// Daytime, no dim, no scene: base duration exactly.
	wantExpiry := te.clock.Add(30 * time.Minute)
	if got := e.zoneState.ManualExpiry("living-room"); !got.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", got, wantExpiry)
	}

	// Floor rises by the nudge on the wide zone.
	calls := te.lights.callsFor("living-room")
	if calls[1].brightness.Min != 40 {
		t.Errorf("floor = %d, want 40", calls[1].brightness.Min)
	}
}

func TestNudgeSkipsHeldZones(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine

	e.zoneState.StartManualTimer("living-room", *te.clock, time.Hour, zone.TimeoutContext{})
	te.lights.reset()

	if err := e.AdjustBrightness(context.Background(), 10, false); err != nil {
		t.Fatalf("AdjustBrightness: %v", err)
	}

	if calls := te.lights.callsFor("living-room"); len(calls) != 0 {
		t.Errorf("held zone nudged: %+v", calls)
	}
	if len(te.lights.callsFor("bedroom")) != 2 {
		t.Error("unheld zone not nudged")
	}
}

func TestTemporaryAdjustmentResetsOnAllClear(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	if err := e.AdjustBrightness(ctx, 20, false); err != nil {
		t.Fatalf("AdjustBrightness: %v", err)
	}

	// Holds still running: adjustment survives the next pass.
	e.runTick(ctx, TriggerInterval)
	if got := e.adjust.snapshot().Brightness; got != 20 {
		t.Fatalf("adjustment = %d mid-hold, want 20", got)
	}

	// All holds expired: the nudge resets to zero.
	te.advance(31 * time.Minute)
	e.runTick(ctx, TriggerInterval)
	if got := e.adjust.snapshot().Brightness; got != 0 {
		t.Errorf("adjustment = %d after all-clear, want 0", got)
	}
}

func TestPersistentAdjustmentSurvivesAllClear(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	if err := e.AdjustBrightness(ctx, 15, true); err != nil {
		t.Fatalf("AdjustBrightness: %v", err)
	}
	// A hold from some other zone's nudge expiring must not clear a
	// slider-set offset.
	e.zoneState.StartManualTimer("bedroom", *te.clock, 5*time.Minute, zone.TimeoutContext{})
	te.advance(10 * time.Minute)
	e.runTick(ctx, TriggerInterval)

	if got := e.adjust.snapshot().Brightness; got != 15 {
		t.Errorf("persistent adjustment = %d after all-clear, want 15", got)
	}
}

func TestAdjustmentValidation(t *testing.T) {
	te := newTestEngine(t)
	ctx := context.Background()

	if err := te.engine.AdjustBrightness(ctx, 150, true); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("oversize delta err = %v, want ErrValueOutOfRange", err)
	}
	if err := te.engine.AdjustColorTemp(ctx, -3000, true); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("oversize warmth err = %v, want ErrValueOutOfRange", err)
	}

	// A deep warmth shift is a legitimate state, reachable in one step.
	if err := te.engine.AdjustColorTemp(ctx, -2000, true); err != nil {
		t.Fatalf("AdjustColorTemp(-2000): %v", err)
	}
	if got := te.engine.adjust.snapshot().Warmth; got != -2000 {
		t.Errorf("warmth = %d, want -2000", got)
	}

	// Accumulation clamps instead of erroring.
	for i := 0; i < 6; i++ {
		if err := te.engine.AdjustBrightness(ctx, 20, true); err != nil {
			t.Fatalf("AdjustBrightness: %v", err)
		}
	}
	if got := te.engine.adjust.snapshot().Brightness; got != maxBrightnessAdjustment {
		t.Errorf("accumulated = %d, want clamp at %d", got, maxBrightnessAdjustment)
	}
}

func TestSceneOperations(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	if err := e.ApplyScene(ctx, "relax"); err != nil {
		t.Fatalf("ApplyScene: %v", err)
	}
	if got := e.adjust.snapshot().ActiveScene; got != "relax" {
		t.Errorf("active scene = %s, want relax", got)
	}

	if err := e.ApplyScene(ctx, "nope"); !errors.Is(err, scene.ErrNotFound) {
		t.Errorf("unknown scene err = %v, want scene.ErrNotFound", err)
	}

	next, err := e.CycleScene(ctx)
	if err != nil {
		t.Fatalf("CycleScene: %v", err)
	}
	if next.ID != "focus" {
		t.Errorf("cycle from relax = %s, want focus", next.ID)
	}

	// Scene offsets flow into the computed boundary.
	te.lights.reset()
	e.runTick(ctx, TriggerInterval)
	calls := te.lights.callsFor("living-room")
	last := calls[len(calls)-1]
	if last.brightness.Min != 35 {
		t.Errorf("floor with focus scene = %d, want 20+15=35", last.brightness.Min)
	}
}

func TestSetWakeAlarmValidation(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	if err := e.SetWakeAlarm(ctx, te.clock.Add(-time.Hour), ""); !errors.Is(err, ErrAlarmInPast) {
		t.Errorf("past alarm err = %v, want ErrAlarmInPast", err)
	}
	if err := e.SetWakeAlarm(ctx, te.clock.Add(time.Hour), "garage"); !errors.Is(err, zone.ErrZoneNotFound) {
		t.Errorf("unknown zone err = %v, want ErrZoneNotFound", err)
	}
	// living-room has wake disabled.
	if err := e.SetWakeAlarm(ctx, te.clock.Add(time.Hour), "living-room"); !errors.Is(err, ErrWakeNotEnabled) {
		t.Errorf("non-wake zone err = %v, want ErrWakeNotEnabled", err)
	}
	if err := e.SetWakeAlarm(ctx, te.clock.Add(time.Hour), "bedroom"); err != nil {
		t.Errorf("valid alarm err = %v", err)
	}
}

func TestClearWakeAlarmIdempotent(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	alarm := te.clock.Add(10 * time.Minute)
	if err := e.SetWakeAlarm(ctx, alarm, "bedroom"); err != nil {
		t.Fatalf("SetWakeAlarm: %v", err)
	}
	e.runTick(ctx, TriggerInterval) // enters wake mid-ramp

	if !e.zoneState.WakeActive("bedroom") {
		t.Fatal("wake not active mid-ramp")
	}

	if err := e.ClearWakeAlarm(ctx); err != nil {
		t.Fatalf("ClearWakeAlarm: %v", err)
	}
	if e.zoneState.WakeActive("bedroom") {
		t.Error("wake still active after clear")
	}

	// Second clear produces no further side effects.
	before := len(te.lights.calls)
	if err := e.ClearWakeAlarm(ctx); err != nil {
		t.Fatalf("second ClearWakeAlarm: %v", err)
	}
	if len(te.lights.calls) != before {
		t.Error("repeat clear issued light calls")
	}
}

func TestClearWakeAlarmSensorDriven(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	// Ramp riding the sensor-published alarm; no explicit alarm set.
	te.sensors.alarm = te.clock.Add(10 * time.Minute)
	e.runTick(ctx, TriggerInterval)
	if !e.zoneState.WakeActive("bedroom") {
		t.Fatal("wake not active mid-ramp")
	}

	// Clearing governs only the explicit alarm. The sensor schedule
	// would re-arm the ramp next pass, so it keeps running untouched.
	before := len(te.lights.calls)
	if err := e.ClearWakeAlarm(ctx); err != nil {
		t.Fatalf("ClearWakeAlarm: %v", err)
	}
	if !e.zoneState.WakeActive("bedroom") {
		t.Error("sensor-driven ramp ended by clear")
	}
	if len(te.lights.calls) != before {
		t.Error("clear issued light calls for a sensor-driven ramp")
	}
}

func TestResetAll(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	_ = e.AdjustBrightness(ctx, 20, false)
	_ = e.ApplyScene(ctx, "relax")
	_ = e.SetPaused(ctx, true)

	if err := e.ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}

	adj := e.adjust.snapshot()
	if adj.Brightness != 0 || adj.Warmth != 0 {
		t.Errorf("adjustments after reset: %+v", adj)
	}
	if adj.ActiveScene != scene.AutomaticID {
		t.Errorf("scene after reset = %s, want automatic", adj.ActiveScene)
	}
	if adj.Paused {
		t.Error("still paused after reset")
	}
	for _, id := range []string{"living-room", "bedroom"} {
		if e.zoneState.ManualActive(id, *te.clock) {
			t.Errorf("%s still held after reset", id)
		}
	}
}

func TestSetZoneEnabledReleasesHold(t *testing.T) {
	te := newTestEngine(t)
	e := te.engine
	ctx := context.Background()

	e.zoneState.StartManualTimer("living-room", *te.clock, time.Hour, zone.TimeoutContext{})
	te.lights.reset()

	if err := e.SetZoneEnabled(ctx, "living-room", false); err != nil {
		t.Fatalf("SetZoneEnabled: %v", err)
	}

	if e.zoneState.ManualActive("living-room", *te.clock) {
		t.Error("hold survived disable")
	}
	calls := te.lights.callsFor("living-room")
	if len(calls) != 1 || calls[0].kind != "override" || calls[0].active {
		t.Errorf("disable calls = %+v, want single unlock", calls)
	}

	if err := e.SetZoneEnabled(ctx, "garage", true); !errors.Is(err, zone.ErrZoneNotFound) {
		t.Errorf("unknown zone err = %v, want ErrZoneNotFound", err)
	}
}
