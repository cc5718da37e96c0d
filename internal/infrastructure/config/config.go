package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Lumen Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
	Adaptive  AdaptiveConfig  `yaml:"adaptive"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Zones     []ZoneConfig    `yaml:"zones"`
	Scenes    []SceneConfig   `yaml:"scenes"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Timezone string         `yaml:"timezone"`
	Location LocationConfig `yaml:"location"`
}

// LocationConfig contains geographic coordinates for the solar fallback
// calculation. Used only when no sun-elevation sensor is available.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	AccessTokenTTL  int    `yaml:"access_token_ttl"`
	RefreshTokenTTL int    `yaml:"refresh_token_ttl"`
}

// AdaptiveConfig contains the coordinator's tuning parameters.
//
// These drive the boundary recomputation loop: how often it runs, how
// user nudges are sized, and how long manual control is held before
// automatic adaptation resumes.
type AdaptiveConfig struct {
	// TickInterval is the coordinator recompute period in seconds.
	TickInterval int `yaml:"tick_interval"`

	// RecomputeDebounce is the delay (milliseconds) applied to on-demand
	// recomputes triggered by user actions, so rapid button presses
	// coalesce into one pass.
	RecomputeDebounce int `yaml:"recompute_debounce"`

	// ManualTimeoutBase is the base manual-hold duration in minutes,
	// before context multipliers (night, dim, scene) are applied.
	ManualTimeoutBase int `yaml:"manual_timeout_base"`

	// BrightnessIncrement is the step size (percent) for brightness nudges.
	BrightnessIncrement int `yaml:"brightness_increment"`

	// WarmthIncrement is the step size (Kelvin) for colour-temperature nudges.
	WarmthIncrement int `yaml:"warmth_increment"`

	// DarkDayLux is the outdoor illuminance threshold below which the
	// sunset/sunrise boost window may activate.
	DarkDayLux float64 `yaml:"dark_day_lux"`

	// WakeRampDuration is the pre-alarm ramp length in seconds.
	WakeRampDuration int `yaml:"wake_ramp_duration"`
}

// SensorsConfig contains the MQTT topics and staleness window for the
// external sensor collaborators.
type SensorsConfig struct {
	LuxTopic       string `yaml:"lux_topic"`
	WeatherTopic   string `yaml:"weather_topic"`
	ElevationTopic string `yaml:"elevation_topic"`
	AlarmTopic     string `yaml:"alarm_topic"`

	// StaleAfter is how long (seconds) a sensor reading remains usable.
	// Readings older than this are treated as unavailable and contribute
	// neutrally to boost calculations.
	StaleAfter int `yaml:"stale_after"`
}

// ZoneConfig defines a lighting zone and its base adaptation ranges.
//
// The base ranges are authoritative; computed boundaries are always
// derived from them and never written back.
type ZoneConfig struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Lights []string `yaml:"lights"`

	BrightnessMin int `yaml:"brightness_min"`
	BrightnessMax int `yaml:"brightness_max"`
	ColorTempMin  int `yaml:"color_temp_min"`
	ColorTempMax  int `yaml:"color_temp_max"`

	Enabled       bool `yaml:"enabled"`
	Environmental bool `yaml:"environmental"`
	Sunset        bool `yaml:"sunset"`
	Wake          bool `yaml:"wake"`

	// ManualTimeout overrides the global manual-hold base for this zone
	// (minutes). Zero means use the global base.
	ManualTimeout int `yaml:"manual_timeout"`
}

// SceneConfig defines a scene preset as uniform per-zone offsets.
type SceneConfig struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	BrightnessOffset int    `yaml:"brightness_offset"`
	WarmthOffset     int    `yaml:"warmth_offset"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LUMEN_SECTION_KEY
// For example: LUMEN_DATABASE_PATH, LUMEN_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "site-001",
			Name:     "Lumen",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/lumen.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "lumen-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL:  15,
				RefreshTokenTTL: 1440,
			},
		},
		Adaptive: AdaptiveConfig{
			TickInterval:        30,
			RecomputeDebounce:   500,
			ManualTimeoutBase:   30,
			BrightnessIncrement: 10,
			WarmthIncrement:     250,
			DarkDayLux:          3000,
			WakeRampDuration:    1200,
		},
		Sensors: SensorsConfig{
			LuxTopic:       "lumen/sensor/outdoor_lux",
			WeatherTopic:   "lumen/sensor/weather",
			ElevationTopic: "lumen/sensor/sun_elevation",
			AlarmTopic:     "lumen/sensor/next_alarm",
			StaleAfter:     900,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LUMEN_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LUMEN_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("LUMEN_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("LUMEN_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("LUMEN_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("LUMEN_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("LUMEN_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	if v := os.Getenv("LUMEN_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret (IMPORTANT: always override in production)
	if v := os.Getenv("LUMEN_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors.
//
// Zone range validation happens in the zone package at registry build
// time; here we only check structural requirements (unique IDs, sane
// global values) so that an invalid zone can be reported individually
// and blocked without failing the whole process.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Adaptive.TickInterval < 1 {
		errs = append(errs, "adaptive.tick_interval must be at least 1 second")
	}
	if c.Adaptive.ManualTimeoutBase < 1 {
		errs = append(errs, "adaptive.manual_timeout_base must be at least 1 minute")
	}
	if c.Adaptive.DarkDayLux < 0 {
		errs = append(errs, "adaptive.dark_day_lux must not be negative")
	}

	// JWT secret is REQUIRED. A weak secret would let an attacker forge
	// tokens and drive physical lighting in someone's home.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set LUMEN_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	seen := make(map[string]bool, len(c.Zones))
	for i := range c.Zones {
		z := &c.Zones[i]
		if z.ID == "" {
			errs = append(errs, fmt.Sprintf("zones[%d].id is required", i))
			continue
		}
		if seen[z.ID] {
			errs = append(errs, fmt.Sprintf("zones[%d]: duplicate id %q", i, z.ID))
		}
		seen[z.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the coordinator tick period as a Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Adaptive.TickInterval) * time.Second
}

// RecomputeDebounce returns the on-demand recompute debounce as a Duration.
func (c *Config) RecomputeDebounce() time.Duration {
	return time.Duration(c.Adaptive.RecomputeDebounce) * time.Millisecond
}

// ManualTimeoutBase returns the base manual-hold duration.
func (c *Config) ManualTimeoutBase() time.Duration {
	return time.Duration(c.Adaptive.ManualTimeoutBase) * time.Minute
}

// WakeRampDuration returns the pre-alarm ramp length.
func (c *Config) WakeRampDuration() time.Duration {
	return time.Duration(c.Adaptive.WakeRampDuration) * time.Second
}

// SensorStaleAfter returns the sensor staleness window.
func (c *Config) SensorStaleAfter() time.Duration {
	return time.Duration(c.Sensors.StaleAfter) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
