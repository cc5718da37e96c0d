package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lumen-home/lumen-core/internal/coordinator"
	"github.com/lumen-home/lumen-core/internal/scene"
	"github.com/lumen-home/lumen-core/internal/zone"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeOperationError maps engine operation failures to HTTP responses
// with specific reason strings.
func writeOperationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, zone.ErrZoneNotFound):
		writeNotFound(w, "zone not found")
	case errors.Is(err, scene.ErrNotFound):
		writeNotFound(w, "scene not found")
	case errors.Is(err, coordinator.ErrValueOutOfRange):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "value out of range")
	case errors.Is(err, coordinator.ErrAlarmInPast):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "alarm time is in the past")
	case errors.Is(err, coordinator.ErrWakeNotEnabled):
		writeError(w, http.StatusConflict, ErrCodeConflict, "wake not enabled for zone")
	case errors.Is(err, zone.ErrZoneBlocked):
		writeError(w, http.StatusConflict, ErrCodeConflict, "zone blocked by invalid configuration")
	default:
		writeInternalError(w, err.Error())
	}
}
