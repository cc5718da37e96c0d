package zone

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestComputeTimeoutMultipliers(t *testing.T) {
	base := 30 * time.Minute

	tests := []struct {
		name string
		tc   TimeoutContext
		want time.Duration
	}{
		{
			"daytime defaults",
			TimeoutContext{Base: base, SunElevation: ptr(10.0)},
			30 * time.Minute,
		},
		{
			"night extends",
			TimeoutContext{Base: base, SunElevation: ptr(-10.0)},
			45 * time.Minute,
		},
		{
			"night and dim stack",
			TimeoutContext{Base: base, SunElevation: ptr(-10.0), BrightnessDelta: -25},
			time.Duration(float64(base) * 1.5 * 1.3),
		},
		{
			"all multipliers clamp at two hours",
			TimeoutContext{Base: 90 * time.Minute, SunElevation: ptr(-10.0), BrightnessDelta: -25, SceneActive: true},
			2 * time.Hour,
		},
		{
			"tiny base clamps up",
			TimeoutContext{Base: time.Minute},
			5 * time.Minute,
		},
		{
			"unknown elevation means no night multiplier",
			TimeoutContext{Base: base},
			30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTimeout(tt.tc); got != tt.want {
				t.Errorf("ComputeTimeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManualTimerLifecycle(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	d := m.StartManualTimer("living-room", now, 0, TimeoutContext{Base: 30 * time.Minute})
	if d != 30*time.Minute {
		t.Fatalf("duration = %v, want 30m", d)
	}
	if !m.ManualActive("living-room", now) {
		t.Fatal("zone not held after StartManualTimer")
	}
	if got := m.StateOf("living-room", now); got != StateManualHeld {
		t.Fatalf("state = %s, want manual_held", got)
	}

	// Before expiry nothing happens.
	expired, allClear := m.CheckExpiries(now.Add(29 * time.Minute))
	if len(expired) != 0 || allClear {
		t.Fatalf("early sweep expired=%v allClear=%v", expired, allClear)
	}

	// At expiry the hold clears and, with no other holds, all-clear fires.
	expired, allClear = m.CheckExpiries(now.Add(30 * time.Minute))
	if len(expired) != 1 || expired[0] != "living-room" || !allClear {
		t.Fatalf("expiry sweep expired=%v allClear=%v", expired, allClear)
	}
	if got := m.StateOf("living-room", now.Add(30*time.Minute)); got != StateAutomatic {
		t.Errorf("state after expiry = %s, want automatic", got)
	}

	// A second sweep with the same clock reports nothing new.
	expired, allClear = m.CheckExpiries(now.Add(30 * time.Minute))
	if len(expired) != 0 || !allClear {
		t.Errorf("repeat sweep expired=%v allClear=%v, want none/true", expired, allClear)
	}
}

func TestAllClearWaitsForEveryZone(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	m.StartManualTimer("a", now, 10*time.Minute, TimeoutContext{})
	m.StartManualTimer("b", now, 40*time.Minute, TimeoutContext{})

	expired, allClear := m.CheckExpiries(now.Add(15 * time.Minute))
	if len(expired) != 1 || expired[0] != "a" {
		t.Fatalf("expired = %v, want [a]", expired)
	}
	if allClear {
		t.Error("allClear true while b still held")
	}

	expired, allClear = m.CheckExpiries(now.Add(45 * time.Minute))
	if len(expired) != 1 || expired[0] != "b" || !allClear {
		t.Errorf("final sweep expired=%v allClear=%v", expired, allClear)
	}
}

func TestWakeOverridesManualWithoutCancelling(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)

	m.StartManualTimer("bedroom", now, 10*time.Minute, TimeoutContext{})
	if !m.EnterWake("bedroom") {
		t.Fatal("EnterWake returned false on transition")
	}

	// Wake wins while both are set.
	if got := m.StateOf("bedroom", now); got != StateWakeOverride {
		t.Fatalf("state = %s, want wake_override", got)
	}

	// The manual timer keeps counting through the wake window.
	m.CheckExpiries(now.Add(15 * time.Minute))

	// On wake exit the expired hold does not resurrect: automatic.
	if !m.ExitWake("bedroom") {
		t.Fatal("ExitWake returned false on transition")
	}
	if got := m.StateOf("bedroom", now.Add(15*time.Minute)); got != StateAutomatic {
		t.Errorf("state after wake exit = %s, want automatic", got)
	}
}

func TestWakeTransitionsIdempotent(t *testing.T) {
	m := NewManager()

	if !m.EnterWake("bedroom") {
		t.Fatal("first EnterWake false")
	}
	if m.EnterWake("bedroom") {
		t.Error("second EnterWake reported a transition")
	}
	if !m.ExitWake("bedroom") {
		t.Fatal("first ExitWake false")
	}
	if m.ExitWake("bedroom") {
		t.Error("second ExitWake reported a transition")
	}
}

func TestClearManualTimerIdempotent(t *testing.T) {
	m := NewManager()
	now := time.Now()

	m.StartManualTimer("a", now, 10*time.Minute, TimeoutContext{})
	if !m.ClearManualTimer("a") {
		t.Fatal("first clear false")
	}
	if m.ClearManualTimer("a") {
		t.Error("second clear reported a change")
	}
}

func TestRestartReplacesHold(t *testing.T) {
	m := NewManager()
	now := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	m.StartManualTimer("a", now, 10*time.Minute, TimeoutContext{})
	m.StartManualTimer("a", now.Add(5*time.Minute), 10*time.Minute, TimeoutContext{})

	// Original expiry passed, extended hold still active.
	if !m.ManualActive("a", now.Add(12*time.Minute)) {
		t.Error("extended hold expired with the original timer")
	}
	if m.ManualActive("a", now.Add(16*time.Minute)) {
		t.Error("hold outlived the extension")
	}
}
