package coordinator

import (
	"time"

	"github.com/lumen-home/lumen-core/internal/boundary"
	"github.com/lumen-home/lumen-core/internal/zone"
)

// ZoneResult is one zone's outcome within a calculation pass.
type ZoneResult struct {
	ZoneID string     `json:"zone_id"`
	State  zone.State `json:"state"`

	// Skipped zones carry a reason and no boundary fields.
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`

	Brightness boundary.Range `json:"brightness"`
	ColorTemp  boundary.Range `json:"color_temp"`

	// Per-source brightness contributions before capping.
	Environmental float64 `json:"environmental"`
	Sunset        float64 `json:"sunset"`
	Wake          float64 `json:"wake"`
	Manual        int     `json:"manual"`
	Scene         int     `json:"scene"`

	WarmthDelta int  `json:"warmth_delta"`
	Capped      bool `json:"capped,omitempty"`

	// Healthy is false after three consecutive apply failures. The zone
	// stays in rotation regardless; failures self-heal on a later pass.
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// TickSnapshot is the aggregate emitted once per calculation pass. It is
// the sole event observers receive; partial per-zone events are never
// published.
type TickSnapshot struct {
	ID      string `json:"id"`
	Trigger string `json:"trigger"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMS  int64     `json:"duration_ms"`

	Paused               bool   `json:"paused"`
	ActiveScene          string `json:"active_scene"`
	BrightnessAdjustment int    `json:"brightness_adjustment"`
	WarmthAdjustment     int    `json:"warmth_adjustment"`

	Zones []ZoneResult `json:"zones"`

	Touched int `json:"zones_touched"`
	Skipped int `json:"zones_skipped"`
	Failed  int `json:"zones_failed"`
}

// Pass triggers.
const (
	TriggerInterval = "interval"
	TriggerDemand   = "demand"
)
