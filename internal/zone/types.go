package zone

import (
	"fmt"
	"time"

	"github.com/lumen-home/lumen-core/internal/boundary"
	"github.com/lumen-home/lumen-core/internal/infrastructure/config"
)

// Zone is a lighting zone with its configured base adaptation ranges.
//
// The base ranges are authoritative: computed boundaries are always
// derived fresh from them each pass and never written back.
type Zone struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Lights []string `json:"lights"`

	// Brightness is the base brightness range in percent.
	Brightness boundary.Range `json:"brightness"`

	// ColorTemp is the base colour-temperature range in Kelvin.
	ColorTemp boundary.Range `json:"color_temp"`

	Enabled       bool `json:"enabled"`
	Environmental bool `json:"environmental"`
	Sunset        bool `json:"sunset"`
	Wake          bool `json:"wake"`

	// ManualTimeout overrides the global manual-hold base for this zone.
	// Zero means use the global base.
	ManualTimeout time.Duration `json:"manual_timeout,omitempty"`
}

// FromConfig converts a configured zone definition.
func FromConfig(zc config.ZoneConfig) Zone {
	return Zone{
		ID:     zc.ID,
		Name:   zc.Name,
		Lights: zc.Lights,
		Brightness: boundary.Range{
			Min: zc.BrightnessMin,
			Max: zc.BrightnessMax,
		},
		ColorTemp: boundary.Range{
			Min: zc.ColorTempMin,
			Max: zc.ColorTempMax,
		},
		Enabled:       zc.Enabled,
		Environmental: zc.Environmental,
		Sunset:        zc.Sunset,
		Wake:          zc.Wake,
		ManualTimeout: time.Duration(zc.ManualTimeout) * time.Minute,
	}
}

// Validate checks that the zone is usable: non-empty id and base ranges
// that sit inside their domains without inversion.
//
// Returns:
//   - error: ErrInvalidZone (wrapped with detail) if the zone must be blocked
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidZone)
	}
	if err := z.Brightness.Validate(boundary.Brightness); err != nil {
		return fmt.Errorf("%w: %s brightness: %v", ErrInvalidZone, z.ID, err)
	}
	if err := z.ColorTemp.Validate(boundary.ColorTemp); err != nil {
		return fmt.Errorf("%w: %s color temp: %v", ErrInvalidZone, z.ID, err)
	}
	return nil
}

// DeepCopy returns an independent copy of the zone.
func (z *Zone) DeepCopy() *Zone {
	cp := *z
	cp.Lights = append([]string(nil), z.Lights...)
	return &cp
}
