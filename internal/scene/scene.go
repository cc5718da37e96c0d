// Package scene manages the lighting scene catalogue.
//
// A scene is a named pair of brightness/warmth offsets layered on top of
// the automatic calculation. The "automatic" scene is always present,
// carries zero offsets, and anchors the cycle order so a user stepping
// through scenes always has a way back to hands-off behaviour.
package scene

import (
	"errors"
	"fmt"
	"sync"
)

// AutomaticID is the identifier of the built-in neutral scene.
const AutomaticID = "automatic"

// ErrNotFound is returned when a scene id is not in the catalogue.
var ErrNotFound = errors.New("scene: not found")

// Scene is one entry in the catalogue.
type Scene struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// BrightnessOffset shifts the aggregated brightness delta (percent).
	BrightnessOffset int `json:"brightness_offset"`

	// WarmthOffset shifts the aggregated warmth delta (Kelvin,
	// negative = warmer).
	WarmthOffset int `json:"warmth_offset"`
}

// builtins are the scenes every installation has, in cycle order after
// automatic.
var builtins = []Scene{
	{ID: AutomaticID, Name: "Automatic"},
	{ID: "relax", Name: "Relax", BrightnessOffset: -15, WarmthOffset: -400},
	{ID: "focus", Name: "Focus", BrightnessOffset: 15, WarmthOffset: 300},
	{ID: "movie", Name: "Movie", BrightnessOffset: -30, WarmthOffset: -500},
}

// Registry holds the catalogue and resolves lookups and cycle order.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	scenes map[string]Scene
	order  []string
}

// NewRegistry builds a catalogue from the built-in scenes plus any
// configured extras. Extras keep their configuration order in the cycle;
// an extra whose id collides with a built-in replaces the built-in's
// offsets but keeps its cycle position. The automatic scene cannot be
// overridden.
//
// Returns:
//   - *Registry: The populated catalogue
//   - error: If an extra attempts to redefine the automatic scene
func NewRegistry(extras []Scene) (*Registry, error) {
	r := &Registry{scenes: make(map[string]Scene)}

	for _, s := range builtins {
		r.scenes[s.ID] = s
		r.order = append(r.order, s.ID)
	}

	for _, s := range extras {
		if s.ID == AutomaticID {
			return nil, fmt.Errorf("scene: %q cannot be redefined", AutomaticID)
		}
		if _, exists := r.scenes[s.ID]; !exists {
			r.order = append(r.order, s.ID)
		}
		r.scenes[s.ID] = s
	}

	return r, nil
}

// Get looks up a scene by id.
func (r *Registry) Get(id string) (Scene, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenes[id]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

// List returns all scenes in cycle order.
func (r *Registry) List() []Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Scene, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scenes[id])
	}
	return out
}

// Next returns the scene after current in cycle order, wrapping to the
// automatic scene after the last entry. An unknown current id also
// resolves to automatic, so a stale reference self-heals on the next
// cycle press.
func (r *Registry) Next(current string) Scene {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, id := range r.order {
		if id == current && i+1 < len(r.order) {
			return r.scenes[r.order[i+1]]
		}
	}
	return r.scenes[AutomaticID]
}
