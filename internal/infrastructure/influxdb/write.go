package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteZoneBoundary records the computed boundary for a zone after a
// calculation pass.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - zoneID: Zone identifier (e.g., "living-room")
//   - brightMin, brightMax: Computed brightness boundary (percent)
//   - ctMin, ctMax: Computed colour-temperature boundary (Kelvin)
func (c *Client) WriteZoneBoundary(zoneID string, brightMin, brightMax, ctMin, ctMax int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"zone_boundary",
		map[string]string{
			"zone_id": zoneID,
		},
		map[string]interface{}{
			"brightness_min": brightMin,
			"brightness_max": brightMax,
			"color_temp_min": ctMin,
			"color_temp_max": ctMax,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteZoneBoosts records the per-source boost breakdown for a zone,
// useful for tuning the environmental and sunset curves.
//
// Parameters:
//   - zoneID: Zone identifier
//   - environmental, sunset, wake: Brightness boosts from each calculator
//   - manual, scene: User-driven brightness offsets
//   - warmth: Total warmth delta (Kelvin, negative = warmer)
func (c *Client) WriteZoneBoosts(zoneID string, environmental, sunset, wake, manual, scene, warmth int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"zone_boosts",
		map[string]string{
			"zone_id": zoneID,
		},
		map[string]interface{}{
			"environmental": environmental,
			"sunset":        sunset,
			"wake":          wake,
			"manual":        manual,
			"scene":         scene,
			"warmth":        warmth,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteTickSummary records an aggregate measurement for a calculation pass.
//
// Parameters:
//   - trigger: What started the pass ("interval" or "demand")
//   - durationMS: Total pass duration in milliseconds
//   - touched, skipped, failed: Zone counts for the pass
func (c *Client) WriteTickSummary(trigger string, durationMS int64, touched, skipped, failed int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"tick_summary",
		map[string]string{
			"trigger": trigger,
		},
		map[string]interface{}{
			"duration_ms":   durationMS,
			"zones_touched": touched,
			"zones_skipped": skipped,
			"zones_failed":  failed,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
