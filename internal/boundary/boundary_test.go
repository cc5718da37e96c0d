package boundary

import (
	"math/rand"
	"testing"
)

func TestApplyAsymmetricPositive(t *testing.T) {
	tests := []struct {
		name  string
		base  Range
		delta int
		want  Range
	}{
		{"raises floor only", Range{20, 100}, 20, Range{40, 100}},
		{"caps at domain ceiling", Range{95, 100}, 20, Range{100, 100}},
		{"collapses to point at base max", Range{20, 35}, 40, Range{35, 35}},
		{"zero delta unchanged", Range{20, 100}, 0, Range{20, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAsymmetric(tt.base, tt.delta, Brightness)
			if got != tt.want {
				t.Errorf("ApplyAsymmetric(%v, %d) = %v, want %v", tt.base, tt.delta, got, tt.want)
			}
			if got.Max != tt.base.Max {
				t.Errorf("positive delta changed max: %d -> %d", tt.base.Max, got.Max)
			}
		})
	}
}

func TestApplyAsymmetricNegative(t *testing.T) {
	tests := []struct {
		name  string
		base  Range
		delta int
		want  Range
	}{
		{"lowers ceiling only", Range{20, 100}, -30, Range{20, 70}},
		{"floors at base min", Range{40, 60}, -50, Range{40, 40}},
		{"floors at domain floor", Range{0, 10}, -30, Range{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAsymmetric(tt.base, tt.delta, Brightness)
			if got != tt.want {
				t.Errorf("ApplyAsymmetric(%v, %d) = %v, want %v", tt.base, tt.delta, got, tt.want)
			}
			if got.Min != tt.base.Min {
				t.Errorf("negative delta changed min: %d -> %d", tt.base.Min, got.Min)
			}
		})
	}
}

func TestApplyAsymmetricColorTemp(t *testing.T) {
	base := Range{2000, 6500}

	// Negative delta = warmer: lowers the whitest bound.
	got := ApplyAsymmetric(base, -500, ColorTemp)
	want := Range{2000, 6000}
	if got != want {
		t.Errorf("warm shift = %v, want %v", got, want)
	}

	// Positive delta raises the warm floor.
	got = ApplyAsymmetric(base, 500, ColorTemp)
	want = Range{2500, 6500}
	if got != want {
		t.Errorf("cool shift = %v, want %v", got, want)
	}
}

// TestApplyAsymmetricNeverInverts exercises the non-collapse invariant with
// random bases and delta sequences: min <= max must hold after every step,
// and each step must leave the untouched side alone.
func TestApplyAsymmetricNeverInverts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		min := rng.Intn(101)
		max := min + rng.Intn(101-min)
		base := Range{Min: min, Max: max}

		delta := rng.Intn(301) - 150
		got := ApplyAsymmetric(base, delta, Brightness)

		if !got.Valid() {
			t.Fatalf("inverted range %v from base %v delta %d", got, base, delta)
		}
		if delta >= 0 && got.Max != base.Max {
			t.Fatalf("positive delta %d changed max: %v -> %v", delta, base, got)
		}
		if delta <= 0 && got.Min != base.Min {
			t.Fatalf("negative delta %d changed min: %v -> %v", delta, base, got)
		}
		if got.Min < Brightness.Floor || got.Max > Brightness.Ceil {
			t.Fatalf("range %v escaped domain", got)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Range{20, 100}).Validate(Brightness); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := (Range{80, 20}).Validate(Brightness); err == nil {
		t.Error("inverted range accepted")
	}
	if err := (Range{1000, 7000}).Validate(ColorTemp); err == nil {
		t.Error("out-of-domain range accepted")
	}
}

func TestRepair(t *testing.T) {
	r, repaired := Repair(Range{20, 100})
	if repaired || r != (Range{20, 100}) {
		t.Errorf("valid range was modified: %v repaired=%v", r, repaired)
	}

	r, repaired = Repair(Range{80, 20})
	if !repaired {
		t.Error("inverted range not repaired")
	}
	if r.Min != r.Max || r.Min != 50 {
		t.Errorf("repair = %v, want midpoint collapse {50,50}", r)
	}
}
