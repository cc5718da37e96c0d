// Package boundary implements the asymmetric boundary adjustment engine.
//
// A boundary is the [min,max] range within which the downstream lighting
// engine may adapt brightness or colour temperature. Adjustments are
// asymmetric: a positive delta ("brighter") raises only the floor and a
// negative delta ("dimmer") lowers only the ceiling, so each adjustment
// narrows the range from one side and leaves the engine free to adapt
// within the untouched side. The same rule serves colour temperature
// with the convention that negative delta = warmer (lowers the max, the
// whitest bound).
package boundary

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a base range is inverted or outside
// its domain. Zones with invalid base ranges must not activate.
var ErrInvalidRange = errors.New("boundary: invalid range")

// Range is an inclusive [Min,Max] boundary.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Domain bounds the absolute values a boundary may take.
type Domain struct {
	Floor int
	Ceil  int
}

// Standard domains.
var (
	// Brightness is the percent domain for brightness boundaries.
	Brightness = Domain{Floor: 0, Ceil: 100}

	// ColorTemp is the default Kelvin domain for colour-temperature
	// boundaries. Zones may narrow it via their configured base range.
	ColorTemp = Domain{Floor: 1500, Ceil: 6500}
)

// Width returns Max - Min.
func (r Range) Width() int {
	return r.Max - r.Min
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Validate checks that the range is non-inverted and within the domain.
//
// Returns:
//   - error: ErrInvalidRange (wrapped with detail) if the range is unusable
func (r Range) Validate(dom Domain) error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, r.Min, r.Max)
	}
	if r.Min < dom.Floor || r.Max > dom.Ceil {
		return fmt.Errorf("%w: [%d,%d] outside domain [%d,%d]", ErrInvalidRange, r.Min, r.Max, dom.Floor, dom.Ceil)
	}
	return nil
}

// ApplyAsymmetric derives a new boundary from base by the signed delta.
//
// Positive delta raises the floor: newMin = base.Min + delta, capped at
// the domain ceiling, and never past base.Max (the range collapses to a
// point rather than inverting). The ceiling is untouched.
//
// Negative delta lowers the ceiling symmetrically: newMax = base.Max +
// delta, floored at the domain floor, never below base.Min. The floor is
// untouched.
//
// Zero delta returns base unchanged.
//
// The result always satisfies Min <= Max for any base with Min <= Max;
// callers never need to repair the output.
func ApplyAsymmetric(base Range, delta int, dom Domain) Range {
	switch {
	case delta > 0:
		newMin := base.Min + delta
		if newMin > dom.Ceil {
			newMin = dom.Ceil
		}
		if newMin > base.Max {
			newMin = base.Max
		}
		return Range{Min: newMin, Max: base.Max}

	case delta < 0:
		newMax := base.Max + delta
		if newMax < dom.Floor {
			newMax = dom.Floor
		}
		if newMax < base.Min {
			newMax = base.Min
		}
		return Range{Min: base.Min, Max: newMax}

	default:
		return base
	}
}

// Repair returns a usable range from a possibly-inverted one.
//
// Given ApplyAsymmetric's construction an inverted range indicates a
// programming error upstream; Repair collapses it to the midpoint so the
// lighting engine still receives something safe. Callers should log at
// error severity when repair actually fires.
//
// Returns:
//   - Range: The original range, or the midpoint collapse if inverted
//   - bool: true if a repair was needed
func Repair(r Range) (Range, bool) {
	if r.Valid() {
		return r, false
	}
	mid := (r.Min + r.Max) / 2
	return Range{Min: mid, Max: mid}, true
}
