package scene

import (
	"errors"
	"testing"
)

func TestRegistryBuiltins(t *testing.T) {
	r, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	auto, err := r.Get(AutomaticID)
	if err != nil {
		t.Fatalf("automatic scene missing: %v", err)
	}
	if auto.BrightnessOffset != 0 || auto.WarmthOffset != 0 {
		t.Errorf("automatic scene has offsets: %+v", auto)
	}

	if _, err := r.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown scene err = %v, want ErrNotFound", err)
	}
}

func TestRegistryExtras(t *testing.T) {
	extras := []Scene{
		{ID: "reading", Name: "Reading", BrightnessOffset: 20, WarmthOffset: -200},
		{ID: "relax", Name: "Relax", BrightnessOffset: -25, WarmthOffset: -450},
	}

	r, err := NewRegistry(extras)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	// New extra appended after the builtins.
	list := r.List()
	if list[len(list)-1].ID != "reading" {
		t.Errorf("last scene = %s, want reading", list[len(list)-1].ID)
	}

	// Overridden builtin keeps its cycle position but takes new offsets.
	relax, _ := r.Get("relax")
	if relax.BrightnessOffset != -25 {
		t.Errorf("relax offset = %d, want override -25", relax.BrightnessOffset)
	}
	if list[1].ID != "relax" {
		t.Errorf("cycle position 1 = %s, want relax", list[1].ID)
	}
}

func TestRegistryRejectsAutomaticOverride(t *testing.T) {
	_, err := NewRegistry([]Scene{{ID: AutomaticID, BrightnessOffset: 5}})
	if err == nil {
		t.Fatal("automatic override accepted")
	}
}

func TestNextCyclesDeterministically(t *testing.T) {
	r, err := NewRegistry([]Scene{{ID: "reading", Name: "Reading"}})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	// Walk the full cycle twice; order must repeat exactly.
	var first, second []string
	cur := AutomaticID
	for i := 0; i < 5; i++ {
		next := r.Next(cur)
		first = append(first, next.ID)
		cur = next.ID
	}
	cur = AutomaticID
	for i := 0; i < 5; i++ {
		next := r.Next(cur)
		second = append(second, next.ID)
		cur = next.ID
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cycle diverged at step %d: %s vs %s", i, first[i], second[i])
		}
	}

	// The last scene wraps back to automatic.
	if got := r.Next("reading"); got.ID != AutomaticID {
		t.Errorf("wrap = %s, want automatic", got.ID)
	}

	// Unknown current self-heals to automatic.
	if got := r.Next("ghost"); got.ID != AutomaticID {
		t.Errorf("unknown current = %s, want automatic", got.ID)
	}
}
