package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumen-home/lumen-core/internal/zone"
)

// defaultTickLimit is how many tick snapshots GET /ticks returns when
// the client does not ask for a specific count.
const (
	defaultTickLimit = 20
	maxTickLimit     = 200
)

// adjustRequest is the body for POST /adjustments/brightness and
// POST /adjustments/color-temp.
type adjustRequest struct {
	Delta      int  `json:"delta"`
	Persistent bool `json:"persistent"`
}

// enabledRequest is the body for POST /zones/{id}/enabled.
type enabledRequest struct {
	Enabled bool `json:"enabled"`
}

// wakeAlarmRequest is the body for PUT /wake/alarm.
type wakeAlarmRequest struct {
	At     time.Time `json:"at"`
	ZoneID string    `json:"zone_id"`
}

// pausedRequest is the body for PUT /paused.
type pausedRequest struct {
	Paused bool `json:"paused"`
}

// handleListZones returns every configured zone with its control state.
func (s *Server) handleListZones(w http.ResponseWriter, _ *http.Request) {
	states := s.engine.ZoneStates()
	writeJSON(w, http.StatusOK, map[string]any{
		"zones": states,
		"count": len(states),
	})
}

// handleGetZone returns a single zone's status.
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, st := range s.engine.ZoneStates() {
		if st.Zone.ID == id {
			writeJSON(w, http.StatusOK, st)
			return
		}
	}
	writeOperationError(w, zone.ErrZoneNotFound)
}

// handleSetZoneEnabled enables or disables a zone.
func (s *Server) handleSetZoneEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.engine.SetZoneEnabled(r.Context(), id, req.Enabled); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zone_id": id,
		"enabled": req.Enabled,
	})
}

// handleAdjustBrightness applies a brightness adjustment delta.
func (s *Server) handleAdjustBrightness(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.engine.AdjustBrightness(r.Context(), req.Delta, req.Persistent); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"delta":      req.Delta,
		"persistent": req.Persistent,
	})
}

// handleAdjustColorTemp applies a colour temperature adjustment delta.
func (s *Server) handleAdjustColorTemp(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.engine.AdjustColorTemp(r.Context(), req.Delta, req.Persistent); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"delta":      req.Delta,
		"persistent": req.Persistent,
	})
}

// handleResetAdjustments zeroes the global adjustments, keeping the
// active scene and manual holds intact.
func (s *Server) handleResetAdjustments(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetAdjustments(r.Context()); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reset": "adjustments"})
}

// handleListScenes returns the scene catalogue in cycle order.
func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	scenes := s.scenes.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"scenes": scenes,
		"count":  len(scenes),
	})
}

// handleApplyScene activates a scene by ID.
func (s *Server) handleApplyScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.ApplyScene(r.Context(), id); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active_scene": id})
}

// handleCycleScene advances to the next scene in the cycle.
func (s *Server) handleCycleScene(w http.ResponseWriter, r *http.Request) {
	next, err := s.engine.CycleScene(r.Context())
	if err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// handleSetWakeAlarm sets an explicit wake alarm, overriding any
// sensor-provided alarm.
func (s *Server) handleSetWakeAlarm(w http.ResponseWriter, r *http.Request) {
	var req wakeAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.At.IsZero() {
		writeBadRequest(w, "alarm time is required")
		return
	}

	if err := s.engine.SetWakeAlarm(r.Context(), req.At, req.ZoneID); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"at":      req.At.UTC().Format(time.RFC3339),
		"zone_id": req.ZoneID,
	})
}

// handleClearWakeAlarm cancels the explicit wake alarm and exits any
// active wake ramp.
func (s *Server) handleClearWakeAlarm(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearWakeAlarm(r.Context()); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// handleGetState returns the most recent calculation snapshot plus the
// per-zone control states.
func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"zones": s.engine.ZoneStates(),
	}
	if snap := s.engine.Snapshot(); snap != nil {
		resp["last_tick"] = snap
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListTicks returns recent tick snapshots, newest first.
func (s *Server) handleListTicks(w http.ResponseWriter, r *http.Request) {
	limit := defaultTickLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTickLimit {
			writeBadRequest(w, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	ticks, err := s.engine.RecentTicks(r.Context(), limit)
	if err != nil {
		writeInternalError(w, "failed to load tick history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ticks": ticks,
		"count": len(ticks),
	})
}

// handleSetPaused pauses or resumes automatic adaptation.
func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	var req pausedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.engine.SetPaused(r.Context(), req.Paused); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paused": req.Paused})
}

// handleResetAll restores the whole system to the automatic baseline.
func (s *Server) handleResetAll(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetAll(r.Context()); err != nil {
		writeOperationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reset": "all"})
}
