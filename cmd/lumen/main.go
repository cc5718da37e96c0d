// Lumen Core - Adaptive Lighting Coordinator
//
// This is the main entry point for the Lumen Core application. Lumen
// computes per-zone adaptive lighting boundaries from environmental
// conditions (outdoor light, weather, season, sun position) and user
// intent (manual nudges, scenes, wake alarms), and publishes them over
// MQTT for the lighting adaptation engine to follow.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lumen-home/lumen-core/migrations"

	"github.com/lumen-home/lumen-core/internal/api"
	"github.com/lumen-home/lumen-core/internal/boost"
	"github.com/lumen-home/lumen-core/internal/coordinator"
	"github.com/lumen-home/lumen-core/internal/infrastructure/config"
	"github.com/lumen-home/lumen-core/internal/infrastructure/database"
	"github.com/lumen-home/lumen-core/internal/infrastructure/influxdb"
	"github.com/lumen-home/lumen-core/internal/infrastructure/logging"
	"github.com/lumen-home/lumen-core/internal/infrastructure/mqtt"
	"github.com/lumen-home/lumen-core/internal/lights"
	"github.com/lumen-home/lumen-core/internal/scene"
	"github.com/lumen-home/lumen-core/internal/sensor"
	"github.com/lumen-home/lumen-core/internal/sun"
	"github.com/lumen-home/lumen-core/internal/zone"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lumen Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	tz, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Site.Timezone, err)
	}

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise zone registry from config; invalid zones are blocked,
	// not fatal.
	zones := zone.NewRegistry(cfg.Zones)
	zones.SetLogger(log)
	for id, reason := range zones.Blocked() {
		log.Warn("zone blocked by invalid configuration", "zone", id, "reason", reason)
	}

	// Mirror configured zones into the database so dashboards can read
	// them, and drop rows for zones removed from config.
	if err := syncZones(ctx, zone.NewSQLiteRepository(db.DB), zones); err != nil {
		return fmt.Errorf("syncing zones: %w", err)
	}
	log.Info("zone registry initialised",
		"zones", len(zones.List()),
		"blocked", len(zones.Blocked()),
	)

	// Scene catalogue: builtins plus any extras from config.
	scenes, err := scene.NewRegistry(sceneExtras(cfg.Scenes))
	if err != nil {
		return fmt.Errorf("building scene registry: %w", err)
	}
	log.Info("scene registry initialised", "scenes", len(scenes.List()))

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Sensor cache: external readings arrive over MQTT and go stale if
	// their sources drop off.
	sensors := sensor.NewCache(cfg.SensorStaleAfter())
	sensors.SetLogger(log)
	if err := sensors.Start(mqttClient, sensor.Topics{
		Lux:       cfg.Sensors.LuxTopic,
		Weather:   cfg.Sensors.WeatherTopic,
		Elevation: cfg.Sensors.ElevationTopic,
		Alarm:     cfg.Sensors.AlarmTopic,
	}); err != nil {
		return fmt.Errorf("starting sensor cache: %w", err)
	}
	log.Info("sensor cache started", "stale_after", cfg.SensorStaleAfter())

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Assemble the coordinator engine.
	engine := coordinator.NewEngine(
		coordinator.Options{
			TickInterval:      cfg.TickInterval(),
			RecomputeDebounce: cfg.RecomputeDebounce(),
			ManualTimeoutBase: cfg.ManualTimeoutBase(),
			WakeRampDuration:  cfg.WakeRampDuration(),
			Timezone:          tz,
		},
		zones,
		zone.NewManager(),
		scenes,
		sensors,
		sun.NewCalculator(cfg.Site.Location.Latitude, cfg.Site.Location.Longitude),
		lights.NewController(mqttClient),
		boost.NewEnvironmentalCalculator(nil),
		boost.NewSunsetCalculator(cfg.Adaptive.DarkDayLux),
		boost.NewWakeCalculator(),
	)
	engine.SetLogger(log)
	engine.SetRepositories(
		coordinator.NewSQLiteAdjustmentRepository(db.DB),
		coordinator.NewSQLiteTickRepository(db.DB),
	)
	engine.SetPublisher(mqttClient)
	if influxClient != nil {
		engine.SetMetrics(influxClient)
	}

	if err := engine.RestoreState(ctx); err != nil {
		return fmt.Errorf("restoring adjustment state: %w", err)
	}
	log.Info("adjustment state restored")

	// HTTP API and WebSocket server.
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Engine:   engine,
		Scenes:   scenes,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// The hub must exist before the engine runs so the first tick's
	// snapshot reaches websocket clients.
	engine.SetBroadcaster(apiServer.HubRef())

	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, control loop running")

	// The engine blocks here until the shutdown signal cancels ctx.
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("control loop: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")
	log.Info("Lumen Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LUMEN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMEN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// syncZones mirrors the configured zones into the database and removes
// rows for zones no longer in the configuration.
func syncZones(ctx context.Context, repo *zone.SQLiteRepository, zones *zone.Registry) error {
	keep := make([]string, 0)
	for _, z := range zones.List() {
		z := z
		if err := repo.Upsert(ctx, &z); err != nil {
			return fmt.Errorf("upserting zone %s: %w", z.ID, err)
		}
		keep = append(keep, z.ID)
	}
	return repo.Prune(ctx, keep)
}

// sceneExtras converts configured scene presets into registry entries.
func sceneExtras(cfgs []config.SceneConfig) []scene.Scene {
	extras := make([]scene.Scene, 0, len(cfgs))
	for _, sc := range cfgs {
		extras = append(extras, scene.Scene{
			ID:               sc.ID,
			Name:             sc.Name,
			BrightnessOffset: sc.BrightnessOffset,
			WarmthOffset:     sc.WarmthOffset,
		})
	}
	return extras
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
