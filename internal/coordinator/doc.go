// Package coordinator runs the control loop that turns sensor readings,
// user adjustments, and zone state into boundary commands.
//
// A single engine owns the loop: every tick (and after any adjustment
// operation, debounced) it rebuilds the environmental snapshot, sweeps
// manual-hold expiries, advances wake ramps, recomputes each active
// zone's boundaries, and pushes them to the lighting engine. Passes are
// single-flight: a user-triggered recompute queues behind an in-progress
// tick rather than racing it.
//
// The engine is also the home of the global adjustment state (the
// nudge/slider offsets, active scene, and pause flag) and of the
// user-facing operations the API exposes. Operations return errors with
// specific reasons; the transport layer decides how to render them.
package coordinator
