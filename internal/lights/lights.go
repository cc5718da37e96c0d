// Package lights is the outbound collaborator for the lighting
// adaptation engine.
//
// Lumen never drives lamps directly: it publishes boundary and
// manual-override commands per zone and the adaptation engine does the
// dimming within those boundaries. Every command publish is awaited at
// QoS 1 before the caller moves on. Inside a zone's recompute path a
// fire-and-forget publish would let a new boundary land before the
// manual lock it belongs with, and the engine would briefly fight the
// user; awaiting closes that race.
package lights

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumen-home/lumen-core/internal/boundary"
	"github.com/lumen-home/lumen-core/internal/infrastructure/mqtt"
)

// Publisher is the slice of the MQTT client the controller needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Controller issues commands to the lighting adaptation engine.
type Controller struct {
	pub    Publisher
	topics mqtt.Topics
}

// NewController creates a Controller publishing through pub.
func NewController(pub Publisher) *Controller {
	return &Controller{pub: pub}
}

// boundariesPayload is the wire format for a boundary command.
type boundariesPayload struct {
	Zone       string         `json:"zone"`
	Brightness boundary.Range `json:"brightness"`
	ColorTemp  boundary.Range `json:"color_temp"`
	IssuedAt   time.Time      `json:"issued_at"`
}

// overridePayload is the wire format for a manual-override command.
type overridePayload struct {
	Zone     string    `json:"zone"`
	Lights   []string  `json:"lights"`
	Active   bool      `json:"active"`
	IssuedAt time.Time `json:"issued_at"`
}

// ApplyBoundaries publishes the computed boundaries for a zone and waits
// for broker acknowledgement.
//
// Parameters:
//   - zoneID: Target zone
//   - brightness: Computed brightness boundary (percent)
//   - colorTemp: Computed colour-temperature boundary (Kelvin)
//
// Returns:
//   - error: If marshalling or the acknowledged publish fails
func (c *Controller) ApplyBoundaries(zoneID string, brightness, colorTemp boundary.Range) error {
	payload, err := json.Marshal(boundariesPayload{
		Zone:       zoneID,
		Brightness: brightness,
		ColorTemp:  colorTemp,
		IssuedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshalling boundaries for %s: %w", zoneID, err)
	}

	if err := c.pub.Publish(c.topics.LightBoundaries(zoneID), payload, 1, false); err != nil {
		return fmt.Errorf("publishing boundaries for %s: %w", zoneID, err)
	}
	return nil
}

// SetManualOverride locks or unlocks a zone's lights at their current
// state and waits for broker acknowledgement.
//
// Parameters:
//   - zoneID: Target zone
//   - lightIDs: The zone's lights, echoed so the engine need not resolve
//     membership itself
//   - active: true to lock, false to restore automatic control
func (c *Controller) SetManualOverride(zoneID string, lightIDs []string, active bool) error {
	payload, err := json.Marshal(overridePayload{
		Zone:     zoneID,
		Lights:   lightIDs,
		Active:   active,
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshalling override for %s: %w", zoneID, err)
	}

	if err := c.pub.Publish(c.topics.LightManualOverride(zoneID), payload, 1, false); err != nil {
		return fmt.Errorf("publishing override for %s: %w", zoneID, err)
	}
	return nil
}
