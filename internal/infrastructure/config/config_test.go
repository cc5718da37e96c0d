package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testSecret satisfies the 32-character minimum for JWT secrets.
const testSecret = "0123456789abcdef0123456789abcdef"

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("default MQTT port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Adaptive.TickInterval != 30 {
		t.Errorf("default tick interval = %d, want 30", cfg.Adaptive.TickInterval)
	}
	if cfg.Adaptive.DarkDayLux != 3000 {
		t.Errorf("default dark day lux = %v, want 3000", cfg.Adaptive.DarkDayLux)
	}
	if cfg.Sensors.StaleAfter != 900 {
		t.Errorf("default sensor staleness = %d, want 900", cfg.Sensors.StaleAfter)
	}
}

func TestLoadZones(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
zones:
  - id: living-room
    name: Living Room
    lights: [light-living-1, light-living-2]
    brightness_min: 20
    brightness_max: 100
    color_temp_min: 2000
    color_temp_max: 6500
    enabled: true
    environmental: true
    sunset: true
  - id: bedroom
    name: Bedroom
    brightness_min: 10
    brightness_max: 80
    color_temp_min: 1800
    color_temp_max: 5000
    enabled: true
    wake: true
    manual_timeout: 45
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(cfg.Zones))
	}
	if cfg.Zones[0].ID != "living-room" || !cfg.Zones[0].Sunset {
		t.Errorf("unexpected first zone: %+v", cfg.Zones[0])
	}
	if cfg.Zones[1].ManualTimeout != 45 {
		t.Errorf("bedroom manual_timeout = %d, want 45", cfg.Zones[1].ManualTimeout)
	}
}

func TestLoadDuplicateZoneID(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
zones:
  - id: hall
    brightness_min: 1
    brightness_max: 100
    color_temp_min: 2000
    color_temp_max: 6500
  - id: hall
    brightness_min: 1
    brightness_max: 100
    color_temp_min: 2000
    color_temp_max: 6500
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with duplicate zone IDs")
	}
	if !strings.Contains(err.Error(), "duplicate id") {
		t.Errorf("error %q does not mention duplicate id", err)
	}
}

func TestLoadMissingJWTSecret(t *testing.T) {
	path := writeConfigFile(t, `
site:
  id: test-site
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded without JWT secret")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("error %q does not mention jwt secret", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
`)

	t.Setenv("LUMEN_MQTT_HOST", "broker.example")
	t.Setenv("LUMEN_DATABASE_PATH", "/tmp/lumen-test.db")
	t.Setenv("LUMEN_API_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.example" {
		t.Errorf("MQTT host = %q, want broker.example", cfg.MQTT.Broker.Host)
	}
	if cfg.Database.Path != "/tmp/lumen-test.db" {
		t.Errorf("database path = %q, want /tmp/lumen-test.db", cfg.Database.Path)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("api port = %d, want 9090", cfg.API.Port)
	}
}

func TestValidateTickInterval(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt:
    secret: "`+testSecret+`"
adaptive:
  tick_interval: 0
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with zero tick interval")
	}
}
