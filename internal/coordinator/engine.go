package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-home/lumen-core/internal/boost"
	"github.com/lumen-home/lumen-core/internal/boundary"
	"github.com/lumen-home/lumen-core/internal/infrastructure/mqtt"
	"github.com/lumen-home/lumen-core/internal/scene"
	"github.com/lumen-home/lumen-core/internal/sun"
	"github.com/lumen-home/lumen-core/internal/zone"
)

// LightController is the outbound collaborator that applies boundaries
// and manual locks. Calls are awaited; see the lights package.
type LightController interface {
	ApplyBoundaries(zoneID string, brightness, colorTemp boundary.Range) error
	SetManualOverride(zoneID string, lights []string, active bool) error
}

// SensorSource supplies the latest external readings. Nil pointers mean
// no fresh reading is available.
type SensorSource interface {
	Lux() *float64
	Weather() *string
	Elevation() *float64
	NextAlarm() time.Time
}

// SolarSource supplies computed sun position for the site, used when the
// elevation sensor has nothing fresh.
type SolarSource interface {
	Elevation(t time.Time) float64
	SeasonAt(t time.Time) sun.Season
}

// SnapshotPublisher pushes the per-tick snapshot to MQTT observers.
type SnapshotPublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Broadcaster pushes the per-tick snapshot to connected websocket
// clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// MetricsSink records time-series measurements. Implementations must not
// block; the InfluxDB client batches asynchronously.
type MetricsSink interface {
	WriteZoneBoundary(zoneID string, brightMin, brightMax, ctMin, ctMax int)
	WriteZoneBoosts(zoneID string, environmental, sunset, wake, manual, scene, warmth int)
	WriteTickSummary(trigger string, durationMS int64, touched, skipped, failed int)
}

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// tickHistoryKeep bounds the persisted pass history.
const tickHistoryKeep = 500

// Options configure the engine's timing behaviour.
type Options struct {
	// TickInterval is the period of the control loop.
	TickInterval time.Duration

	// RecomputeDebounce delays demand recomputes so a burst of
	// adjustments coalesces into one pass.
	RecomputeDebounce time.Duration

	// ManualTimeoutBase is the default manual-hold duration before
	// smart-timeout multipliers.
	ManualTimeoutBase time.Duration

	// WakeRampDuration is how long before the alarm the wake ramp
	// starts.
	WakeRampDuration time.Duration

	// Timezone resolves the clock hour for the time-of-day fallback.
	// Nil means time.Local.
	Timezone *time.Location
}

// Engine owns the control loop and the global adjustment state.
//
// Calculation passes are single-flight: the tick loop and demand
// recomputes serialize on one mutex, so at most one full pass over the
// zones runs at a time.
type Engine struct {
	opts Options

	zones     *zone.Registry
	zoneState *zone.Manager
	scenes    *scene.Registry
	sensors   SensorSource
	solar     SolarSource
	lights    LightController

	envCalc    *boost.EnvironmentalCalculator
	sunsetCalc *boost.SunsetCalculator
	wakeCalc   *boost.WakeCalculator

	adjust *adjustmentState
	wake   *wakeState
	health *healthTracker

	adjustRepo  AdjustmentRepository
	tickRepo    TickRepository
	publisher   SnapshotPublisher
	broadcaster Broadcaster
	metrics     MetricsSink
	topics      mqtt.Topics
	logger      Logger

	// tickMu is the single-flight lock for calculation passes.
	tickMu      sync.Mutex
	recomputeCh chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	lastMu   sync.RWMutex
	lastSnap *TickSnapshot

	now func() time.Time
}

// NewEngine wires the engine's collaborators. Optional sinks (metrics,
// persistence, publishers) are attached afterwards via the Set methods.
func NewEngine(
	opts Options,
	zones *zone.Registry,
	zoneState *zone.Manager,
	scenes *scene.Registry,
	sensors SensorSource,
	solar SolarSource,
	lights LightController,
	envCalc *boost.EnvironmentalCalculator,
	sunsetCalc *boost.SunsetCalculator,
	wakeCalc *boost.WakeCalculator,
) *Engine {
	if opts.Timezone == nil {
		opts.Timezone = time.Local
	}
	return &Engine{
		opts:        opts,
		zones:       zones,
		zoneState:   zoneState,
		scenes:      scenes,
		sensors:     sensors,
		solar:       solar,
		lights:      lights,
		envCalc:     envCalc,
		sunsetCalc:  sunsetCalc,
		wakeCalc:    wakeCalc,
		adjust:      newAdjustmentState(),
		wake:        &wakeState{},
		health:      newHealthTracker(),
		logger:      noopLogger{},
		recomputeCh: make(chan struct{}, 1),
		now:         time.Now,
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) { e.logger = logger }

// SetRepositories attaches the persistence layer.
func (e *Engine) SetRepositories(adjust AdjustmentRepository, ticks TickRepository) {
	e.adjustRepo = adjust
	e.tickRepo = ticks
}

// SetPublisher attaches the MQTT snapshot publisher.
func (e *Engine) SetPublisher(p SnapshotPublisher) { e.publisher = p }

// SetBroadcaster attaches the websocket broadcaster.
func (e *Engine) SetBroadcaster(b Broadcaster) { e.broadcaster = b }

// SetMetrics attaches the time-series sink.
func (e *Engine) SetMetrics(m MetricsSink) { e.metrics = m }

// RestoreState loads the persisted adjustment row. Persistent offsets,
// the active scene, and the pause flag survive restarts; nudge offsets
// and per-zone holds deliberately do not.
func (e *Engine) RestoreState(ctx context.Context) error {
	if e.adjustRepo == nil {
		return nil
	}
	saved, err := e.adjustRepo.Load(ctx)
	if err != nil {
		return err
	}

	e.adjust.mu.Lock()
	defer e.adjust.mu.Unlock()
	e.adjust.brightness = saved.Brightness
	e.adjust.warmth = saved.Warmth
	e.adjust.temporary = false
	if saved.ActiveScene != "" {
		e.adjust.activeScene = saved.ActiveScene
	}
	e.adjust.paused = saved.Paused

	e.logger.Info("adjustment state restored",
		"brightness", saved.Brightness, "warmth", saved.Warmth,
		"scene", e.adjust.activeScene, "paused", saved.Paused)
	return nil
}

// Run drives the control loop until ctx is cancelled. An immediate pass
// runs before the first tick so startup does not wait a full interval.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	e.runTick(ctx, TriggerInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.runTick(ctx, TriggerInterval)
		case <-e.recomputeCh:
			e.runTick(ctx, TriggerDemand)
		}
	}
}

// RequestRecompute schedules a demand pass after the debounce window.
// Repeated requests within the window coalesce into one pass.
func (e *Engine) RequestRecompute() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = time.AfterFunc(e.opts.RecomputeDebounce, func() {
		select {
		case e.recomputeCh <- struct{}{}:
		default:
		}
	})
}

// Snapshot returns the most recent pass, nil before the first.
func (e *Engine) Snapshot() *TickSnapshot {
	e.lastMu.RLock()
	defer e.lastMu.RUnlock()
	return e.lastSnap
}

// RecentTicks returns recent pass history from persistence, newest
// first. Returns nil without error when no tick repository is attached.
func (e *Engine) RecentTicks(ctx context.Context, limit int) ([]TickSnapshot, error) {
	if e.tickRepo == nil {
		return nil, nil
	}
	return e.tickRepo.Recent(ctx, limit)
}

// buildSnapshot assembles the environmental inputs for one pass. Sensor
// elevation wins over the computed position so a calibrated sensor can
// correct for horizon obstructions.
func (e *Engine) buildSnapshot(now time.Time) boost.Snapshot {
	snap := boost.Snapshot{
		Lux:       e.sensors.Lux(),
		Weather:   e.sensors.Weather(),
		ClockHour: now.In(e.opts.Timezone).Hour(),
	}

	if elev := e.sensors.Elevation(); elev != nil {
		snap.SunElevation = elev
	} else if e.solar != nil {
		v := e.solar.Elevation(now)
		snap.SunElevation = &v
	}

	if e.solar != nil {
		snap.Season = e.solar.SeasonAt(now)
	}
	return snap
}

// runTick executes one full calculation pass. Single-flight.
func (e *Engine) runTick(ctx context.Context, trigger string) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	started := e.now()
	envSnap := e.buildSnapshot(started)
	adj := e.adjust.snapshot()

	alarm, wakeTarget := e.wake.effectiveAlarm(e.sensors.NextAlarm())
	var rampStart time.Time
	if !alarm.IsZero() {
		rampStart = alarm.Add(-e.opts.WakeRampDuration)
	}
	e.advanceWake(started, rampStart, alarm, wakeTarget)

	expired, allClear := e.zoneState.CheckExpiries(started)
	for _, id := range expired {
		e.restoreAutomatic(id)
	}
	if allClear && adj.Temporary && (adj.Brightness != 0 || adj.Warmth != 0) {
		e.resetTemporaryAdjustments()
		adj = e.adjust.snapshot()
	}

	snap := &TickSnapshot{
		ID:                   uuid.NewString(),
		Trigger:              trigger,
		StartedAt:            started,
		Paused:               adj.Paused,
		ActiveScene:          adj.ActiveScene,
		BrightnessAdjustment: adj.Brightness,
		WarmthAdjustment:     adj.Warmth,
	}

	for _, z := range e.zones.Active() {
		result := e.computeZone(z, envSnap, adj, started, rampStart, alarm, wakeTarget)
		snap.Zones = append(snap.Zones, result)
		switch {
		case result.Skipped:
			snap.Skipped++
		case result.Error != "":
			snap.Failed++
		default:
			snap.Touched++
		}
	}

	completed := e.now()
	snap.CompletedAt = completed
	snap.DurationMS = completed.Sub(started).Milliseconds()

	e.lastMu.Lock()
	e.lastSnap = snap
	e.lastMu.Unlock()

	e.emit(ctx, snap)

	e.logger.Debug("calculation pass complete",
		"trigger", trigger, "duration_ms", snap.DurationMS,
		"touched", snap.Touched, "skipped", snap.Skipped, "failed", snap.Failed)
}

// computeZone recomputes one zone's boundaries and applies them. Manual
// holds win unless the zone is in its wake window; a paused engine skips
// every zone.
func (e *Engine) computeZone(
	z zone.Zone,
	envSnap boost.Snapshot,
	adj adjustmentSnapshot,
	now, rampStart, alarm time.Time,
	wakeTarget string,
) ZoneResult {
	result := ZoneResult{
		ZoneID:  z.ID,
		State:   e.zoneState.StateOf(z.ID, now),
		Healthy: e.health.healthy(z.ID),
	}

	if adj.Paused {
		result.Skipped = true
		result.SkipReason = "paused"
		return result
	}

	wakeActive := e.zoneState.WakeActive(z.ID)
	if e.zoneState.ManualActive(z.ID, now) && !wakeActive {
		result.Skipped = true
		result.SkipReason = "manual hold"
		return result
	}

	sc, err := e.scenes.Get(adj.ActiveScene)
	if err != nil {
		// A vanished scene contributes nothing rather than failing the zone.
		sc = scene.Scene{ID: adj.ActiveScene}
	}

	var wakeBoost float64
	if z.Wake && (wakeTarget == "" || wakeTarget == z.ID) {
		wakeBoost = e.wakeCalc.Calculate(rampStart, alarm, now)
	}
	sunBoost, sunWarmth := e.sunsetCalc.Calculate(envSnap)

	result.Environmental = e.envCalc.Calculate(envSnap)
	result.Sunset = sunBoost
	result.Wake = wakeBoost
	result.Manual = adj.Brightness
	result.Scene = sc.BrightnessOffset

	agg := boost.Aggregate(z.Brightness, boost.ZoneFlags{
		EnvironmentalEnabled: z.Environmental,
		SunsetEnabled:        z.Sunset,
		WakeEnabled:          z.Wake,
		WakeActive:           wakeActive,
	}, boost.Inputs{
		Environmental:    result.Environmental,
		Sunset:           sunBoost,
		SunsetWarmth:     sunWarmth,
		Wake:             wakeBoost,
		ManualBrightness: adj.Brightness,
		ManualWarmth:     adj.Warmth,
		SceneBrightness:  sc.BrightnessOffset,
		SceneWarmth:      sc.WarmthOffset,
	})
	result.Capped = agg.Capped
	result.WarmthDelta = agg.WarmthDelta

	result.Brightness = e.applyChecked(z.ID, z.Brightness, agg.BrightnessDelta, boundary.Brightness)
	result.ColorTemp = e.applyChecked(z.ID, z.ColorTemp, agg.WarmthDelta, boundary.ColorTemp)

	if err := e.lights.ApplyBoundaries(z.ID, result.Brightness, result.ColorTemp); err != nil {
		e.health.recordFailure(z.ID)
		result.Healthy = e.health.healthy(z.ID)
		result.Error = err.Error()
		e.logger.Warn("boundary apply failed",
			"zone_id", z.ID, "error", err, "healthy", result.Healthy)
		return result
	}
	e.health.recordSuccess(z.ID)
	result.Healthy = true
	return result
}

// applyChecked runs the asymmetric adjustment and the invariant safety
// net. ApplyAsymmetric cannot produce an inverted range from a valid
// base, so a repair firing here is a programming error worth shouting
// about.
func (e *Engine) applyChecked(zoneID string, base boundary.Range, delta int, dom boundary.Domain) boundary.Range {
	out := boundary.ApplyAsymmetric(base, delta, dom)
	repaired, wasRepaired := boundary.Repair(out)
	if wasRepaired {
		e.logger.Error("computed boundary inverted, clamped to midpoint",
			"zone_id", zoneID, "base_min", base.Min, "base_max", base.Max, "delta", delta)
	}
	return repaired
}

// advanceWake drives wake enter/exit transitions for every wake-enabled
// zone. Entering locks the zone's lights first so the ramp cannot race a
// competing boundary; exiting unlocks and lets this pass recompute,
// unless an unexpired manual hold remains, in which case the zone stays
// locked and returns to its held state.
func (e *Engine) advanceWake(now, rampStart, alarm time.Time, target string) {
	active := e.wakeCalc.Active(rampStart, alarm, now)

	for _, z := range e.zones.Active() {
		if !z.Wake {
			continue
		}
		inTarget := target == "" || target == z.ID
		shouldBeActive := active && inTarget

		switch {
		case shouldBeActive && !e.zoneState.WakeActive(z.ID):
			if err := e.lights.SetManualOverride(z.ID, z.Lights, true); err != nil {
				e.logger.Warn("wake lock failed, retrying next tick", "zone_id", z.ID, "error", err)
				continue
			}
			e.zoneState.EnterWake(z.ID)
		case !shouldBeActive && e.zoneState.WakeActive(z.ID):
			e.zoneState.ExitWake(z.ID)
			if !e.zoneState.ManualActive(z.ID, now) {
				e.restoreAutomatic(z.ID)
			}
		}
	}
}

// restoreAutomatic releases the lighting engine's manual lock for a
// zone. Failures are logged and retried implicitly: the zone stays
// unlocked in Lumen's state, and the next pass reapplies boundaries.
func (e *Engine) restoreAutomatic(zoneID string) {
	z, err := e.zones.Get(zoneID)
	if err != nil {
		return
	}
	if err := e.lights.SetManualOverride(zoneID, z.Lights, false); err != nil {
		e.logger.Warn("manual unlock failed", "zone_id", zoneID, "error", err)
	}
}

// resetTemporaryAdjustments zeroes nudge-driven offsets after the last
// manual hold expires. Persistent slider offsets are never touched here.
func (e *Engine) resetTemporaryAdjustments() {
	e.adjust.mu.Lock()
	defer e.adjust.mu.Unlock()

	if !e.adjust.temporary {
		return
	}
	e.adjust.brightness = 0
	e.adjust.warmth = 0
	e.adjust.temporary = false
	e.logger.Info("temporary adjustments reset, all zones clear")
}

// emit publishes the aggregate snapshot to every attached observer. At
// most one snapshot leaves per pass, never partial results.
func (e *Engine) emit(ctx context.Context, snap *TickSnapshot) {
	if e.publisher != nil {
		payload, err := json.Marshal(snap)
		if err != nil {
			e.logger.Error("marshalling tick snapshot", "error", err)
		} else if err := e.publisher.PublishRetained(e.topics.CoreCalculation(), payload); err != nil {
			e.logger.Warn("publishing tick snapshot", "error", err)
		}
	}

	if e.broadcaster != nil {
		e.broadcaster.Broadcast("calculation", snap)
	}

	if e.metrics != nil {
		for _, zr := range snap.Zones {
			if zr.Skipped {
				continue
			}
			e.metrics.WriteZoneBoundary(zr.ZoneID,
				zr.Brightness.Min, zr.Brightness.Max,
				zr.ColorTemp.Min, zr.ColorTemp.Max)
			e.metrics.WriteZoneBoosts(zr.ZoneID,
				int(zr.Environmental), int(zr.Sunset), int(zr.Wake),
				zr.Manual, zr.Scene, zr.WarmthDelta)
		}
		e.metrics.WriteTickSummary(snap.Trigger, snap.DurationMS,
			snap.Touched, snap.Skipped, snap.Failed)
	}

	if e.tickRepo != nil {
		if err := e.tickRepo.Insert(ctx, snap); err != nil {
			e.logger.Warn("persisting tick run", "error", err)
		} else if err := e.tickRepo.Prune(ctx, tickHistoryKeep); err != nil {
			e.logger.Warn("pruning tick history", "error", err)
		}
	}
}
