package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication - user must be logged in to request a ticket
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Zone endpoints
			r.Route("/zones", func(r chi.Router) {
				r.Get("/", s.handleListZones)
				r.Get("/{id}", s.handleGetZone)
				r.Post("/{id}/enabled", s.handleSetZoneEnabled)
			})

			// Adjustment endpoints
			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/brightness", s.handleAdjustBrightness)
				r.Post("/color-temp", s.handleAdjustColorTemp)
				r.Delete("/", s.handleResetAdjustments)
			})

			// Scene endpoints
			r.Route("/scenes", func(r chi.Router) {
				r.Get("/", s.handleListScenes)
				r.Post("/cycle", s.handleCycleScene)
				r.Post("/{id}/apply", s.handleApplyScene)
			})

			// Wake alarm endpoints
			r.Route("/wake", func(r chi.Router) {
				r.Put("/alarm", s.handleSetWakeAlarm)
				r.Delete("/alarm", s.handleClearWakeAlarm)
			})

			// Coordinator state and history
			r.Get("/state", s.handleGetState)
			r.Get("/ticks", s.handleListTicks)
			r.Put("/paused", s.handleSetPaused)
			r.Post("/reset", s.handleResetAll)

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
