// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-charts-service/internal/units"
)

// Config holds all service settings, populated from environment
// variables by Load.
type Config struct {
	ChartConfigPath string
	OutputDir       string
	TargetUnits     units.System
	WeekStart       int
	Timezone        *time.Location
	// GenTime overrides the generation anchor (epoch seconds). Zero
	// means "derive from the store".
	GenTime int64
	Workers int

	InfluxURL         string
	InfluxToken       string
	InfluxOrg         string
	InfluxBucket      string
	InfluxMeasurement string
	SourceUnits       units.System

	// Kafka notifications are enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	// MetricsAddr enables the /metrics listener when non-empty.
	MetricsAddr string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	targetUnits, err := units.ParseSystem(envOrDefault("TARGET_UNIT", "US"))
	if err != nil {
		return nil, fmt.Errorf("TARGET_UNIT: %w", err)
	}
	sourceUnits, err := units.ParseSystem(envOrDefault("SOURCE_UNIT", "US"))
	if err != nil {
		return nil, fmt.Errorf("SOURCE_UNIT: %w", err)
	}

	weekStart, err := parseIntEnv("WEEK_START", 6)
	if err != nil {
		return nil, err
	}
	if weekStart < 0 || weekStart > 6 {
		return nil, errors.New("WEEK_START must be between 0 (Monday) and 6 (Sunday)")
	}

	workers, err := parseIntEnv("WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("WORKERS must be at least 1")
	}

	genTime, err := parseInt64Env("GEN_TIME", 0)
	if err != nil {
		return nil, err
	}

	tz := time.Local
	if name := os.Getenv("STATION_TIMEZONE"); name != "" {
		tz, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("STATION_TIMEZONE: %w", err)
		}
	}

	cfg := &Config{
		ChartConfigPath: envOrDefault("CHART_CONFIG_PATH", "graphs.yaml"),
		OutputDir:       envOrDefault("OUTPUT_DIR", "public_html"),
		TargetUnits:     targetUnits,
		WeekStart:       weekStart,
		Timezone:        tz,
		GenTime:         genTime,
		Workers:         workers,

		InfluxURL:         envOrDefault("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:       os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:         envOrDefault("INFLUX_ORG", "weather"),
		InfluxBucket:      envOrDefault("INFLUX_BUCKET", "weewx"),
		InfluxMeasurement: envOrDefault("INFLUX_MEASUREMENT", "archive"),
		SourceUnits:       sourceUnits,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "chart-group-updates"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.InfluxURL == "" {
		return nil, errors.New("INFLUX_URL is required")
	}
	if cfg.InfluxBucket == "" {
		return nil, errors.New("INFLUX_BUCKET is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseInt64Env(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
