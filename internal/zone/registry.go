package zone

import (
	"fmt"
	"sync"

	"github.com/lumen-home/lumen-core/internal/infrastructure/config"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the configured zones in memory.
//
// Zones whose configured ranges fail validation are blocked rather than
// dropped: they remain visible for diagnostics but never appear in the
// active iteration order. Blocking is decided once, at construction.
//
// All public methods are thread-safe.
type Registry struct {
	mu      sync.RWMutex
	zones   map[string]*Zone
	order   []string
	blocked map[string]string // zone id -> validation failure detail
	logger  Logger
}

// NewRegistry builds a registry from configuration.
//
// Each configured zone is validated; failures block the zone and are
// logged once the caller attaches a logger via SetLogger, so callers
// should inspect Blocked() after construction for startup reporting.
func NewRegistry(cfgs []config.ZoneConfig) *Registry {
	r := &Registry{
		zones:   make(map[string]*Zone, len(cfgs)),
		blocked: make(map[string]string),
		logger:  noopLogger{},
	}

	for _, zc := range cfgs {
		z := FromConfig(zc)
		r.zones[z.ID] = &z
		r.order = append(r.order, z.ID)
		if err := z.Validate(); err != nil {
			r.blocked[z.ID] = err.Error()
		}
	}

	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Get retrieves a zone by ID.
// Returns ErrZoneNotFound if the zone does not exist.
// The returned zone is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zones[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrZoneNotFound, id)
	}
	return z.DeepCopy(), nil
}

// List returns all zones in configuration order, blocked ones included.
func (r *Registry) List() []Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.zones[id].DeepCopy())
	}
	return out
}

// Active returns the zones the coordinator should iterate: configuration
// order, enabled, and not blocked.
func (r *Registry) Active() []Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Zone, 0, len(r.order))
	for _, id := range r.order {
		if _, bad := r.blocked[id]; bad {
			continue
		}
		if z := r.zones[id]; z.Enabled {
			out = append(out, *z.DeepCopy())
		}
	}
	return out
}

// Blocked returns the validation failures keyed by zone id.
func (r *Registry) Blocked() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.blocked))
	for id, reason := range r.blocked {
		out[id] = reason
	}
	return out
}

// IsBlocked reports whether the zone failed startup validation.
func (r *Registry) IsBlocked(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blocked[id]
	return ok
}

// SetEnabled toggles a zone's participation in automatic control.
//
// Returns:
//   - error: ErrZoneNotFound for an unknown id, ErrZoneBlocked when the
//     zone cannot be enabled because its configuration is invalid
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	z, ok := r.zones[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrZoneNotFound, id)
	}
	if _, bad := r.blocked[id]; bad && enabled {
		return fmt.Errorf("%w: %q", ErrZoneBlocked, id)
	}
	if z.Enabled != enabled {
		z.Enabled = enabled
		r.logger.Info("zone enabled state changed", "zone_id", id, "enabled", enabled)
	}
	return nil
}
