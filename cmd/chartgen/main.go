// chartgen runs one chart compilation pass: it parses the chart
// definitions, reads the observation store, and publishes one JSON
// document per chart group. The external report scheduler invokes it
// once per reporting cycle.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/weather-charts-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-charts-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-charts-service/internal/chartconfig"
	"github.com/couchcryptid/weather-charts-service/internal/compiler"
	"github.com/couchcryptid/weather-charts-service/internal/config"
	"github.com/couchcryptid/weather-charts-service/internal/observability"
	"github.com/couchcryptid/weather-charts-service/internal/provider/influx"
	"github.com/couchcryptid/weather-charts-service/internal/units"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	groups, usedExample, err := chartconfig.Load(cfg.ChartConfigPath)
	if err != nil {
		logger.Error("failed to load chart definitions", "path", cfg.ChartConfigPath, "error", err)
		os.Exit(1)
	}
	if usedExample {
		logger.Info("chart definitions not found, using packaged example", "path", cfg.ChartConfigPath)
	}

	store := influx.New(influx.Config{
		URL:         cfg.InfluxURL,
		Token:       cfg.InfluxToken,
		Org:         cfg.InfluxOrg,
		Bucket:      cfg.InfluxBucket,
		Measurement: cfg.InfluxMeasurement,
		SourceUnits: cfg.SourceUnits,
	}, logger)
	defer store.Close()

	var notifier compiler.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		n := kafkaadapter.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer func() {
			if err := n.Close(); err != nil {
				logger.Error("kafka notifier close error", "error", err)
			}
		}()
		notifier = n
		logger.Info("update notifications enabled", "topic", cfg.KafkaTopic)
	}

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener error", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comp := compiler.New(store, units.NewConverter(cfg.TargetUnits), compiler.Options{
		OutputDir: cfg.OutputDir,
		WeekStart: cfg.WeekStart,
		Location:  cfg.Timezone,
		GenTime:   cfg.GenTime,
		Workers:   cfg.Workers,
	}, nil, logger, metrics, notifier)

	passErr := comp.Run(ctx, groups)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics listener shutdown error", "error", err)
		}
	}

	if passErr != nil {
		logger.Error("compilation pass failed", "error", passErr)
		os.Exit(1)
	}
}
