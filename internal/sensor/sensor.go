// Package sensor caches the external readings the boost calculators
// consume: outdoor illuminance, weather condition, sun elevation, and
// the next wake alarm.
//
// Readings arrive over MQTT and are held with a timestamp; anything
// older than the staleness window reads back as unavailable, which the
// calculators treat as a neutral contribution. A sensor dropping off the
// network therefore degrades the lighting gracefully instead of
// freezing it on the last value.
package sensor

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lumen-home/lumen-core/internal/infrastructure/mqtt"
)

// Subscriber is the slice of the MQTT client the cache needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger defines the logging interface used by the Cache.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Topics names the subscription topics for each reading.
type Topics struct {
	Lux       string
	Weather   string
	Elevation string
	Alarm     string
}

type reading struct {
	value     string
	updatedAt time.Time
}

// Cache holds the latest sensor readings with staleness tracking.
//
// Thread Safety: all methods are safe for concurrent use; MQTT handlers
// write while the coordinator reads.
type Cache struct {
	mu         sync.RWMutex
	readings   map[string]reading
	staleAfter time.Duration
	logger     Logger

	now func() time.Time
}

const (
	keyLux       = "lux"
	keyWeather   = "weather"
	keyElevation = "elevation"
	keyAlarm     = "alarm"
)

// NewCache creates a Cache with the given staleness window.
func NewCache(staleAfter time.Duration) *Cache {
	return &Cache{
		readings:   make(map[string]reading),
		staleAfter: staleAfter,
		logger:     noopLogger{},
		now:        time.Now,
	}
}

// SetLogger sets the logger for the cache.
func (c *Cache) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Start subscribes the cache to the configured topics. Empty topics are
// skipped; the corresponding reading simply stays unavailable.
func (c *Cache) Start(sub Subscriber, topics Topics) error {
	pairs := []struct {
		topic string
		key   string
	}{
		{topics.Lux, keyLux},
		{topics.Weather, keyWeather},
		{topics.Elevation, keyElevation},
		{topics.Alarm, keyAlarm},
	}

	for _, p := range pairs {
		if p.topic == "" {
			continue
		}
		key := p.key
		err := sub.Subscribe(p.topic, 0, func(topic string, payload []byte) error {
			c.store(key, strings.TrimSpace(string(payload)))
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) store(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readings[key] = reading{value: value, updatedAt: c.now()}
	c.logger.Debug("sensor reading updated", "sensor", key, "value", value)
}

// fresh returns the raw value if present and inside the staleness
// window.
func (c *Cache) fresh(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.readings[key]
	if !ok || r.value == "" {
		return "", false
	}
	if c.staleAfter > 0 && c.now().Sub(r.updatedAt) > c.staleAfter {
		return "", false
	}
	return r.value, true
}

// Lux returns the latest illuminance reading, nil when unavailable or
// unparseable.
func (c *Cache) Lux() *float64 {
	raw, ok := c.fresh(keyLux)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.logger.Warn("unparseable lux reading", "value", raw)
		return nil
	}
	return &v
}

// Weather returns the latest condition string, nil when unavailable.
func (c *Cache) Weather() *string {
	raw, ok := c.fresh(keyWeather)
	if !ok {
		return nil
	}
	return &raw
}

// Elevation returns the latest sun-elevation reading in degrees, nil
// when unavailable or unparseable.
func (c *Cache) Elevation() *float64 {
	raw, ok := c.fresh(keyElevation)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.logger.Warn("unparseable elevation reading", "value", raw)
		return nil
	}
	return &v
}

// NextAlarm returns the next wake alarm timestamp, zero when none is
// scheduled. Accepts RFC 3339 or Unix seconds; the alarm reading is
// exempt from the staleness window because an alarm set hours ahead is
// still valid.
func (c *Cache) NextAlarm() time.Time {
	c.mu.RLock()
	r, ok := c.readings[keyAlarm]
	c.mu.RUnlock()
	if !ok || r.value == "" || r.value == "none" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, r.value); err == nil {
		return t
	}
	if secs, err := strconv.ParseInt(r.value, 10, 64); err == nil {
		return time.Unix(secs, 0)
	}
	c.logger.Warn("unparseable alarm reading", "value", r.value)
	return time.Time{}
}
