package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// chart compilation pass.
type Metrics struct {
	GroupsCompiled   prometheus.Counter
	SeriesCompiled   prometheus.Counter
	SeriesSkipped    prometheus.Counter
	PassRunning      prometheus.Gauge
	PassDuration     prometheus.Histogram
	StoreQueryTime   prometheus.Histogram
	DocumentsWritten prometheus.Counter
}

// NewMetrics creates and registers all pass metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GroupsCompiled,
		m.SeriesCompiled,
		m.SeriesSkipped,
		m.PassRunning,
		m.PassDuration,
		m.StoreQueryTime,
		m.DocumentsWritten,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// tests never hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GroupsCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_charts",
			Name:      "groups_compiled_total",
			Help:      "Total chart groups compiled to completion.",
		}),
		SeriesCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_charts",
			Name:      "series_compiled_total",
			Help:      "Total chart series compiled across all groups.",
		}),
		SeriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_charts",
			Name:      "series_skipped_total",
			Help:      "Series skipped for recoverable reasons (missing aggregate interval, unconvertible unit).",
		}),
		PassRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_charts",
			Name:      "pass_running",
			Help:      "1 while a compilation pass is active.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_charts",
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete compilation pass.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		StoreQueryTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_charts",
			Name:      "store_query_duration_seconds",
			Help:      "Duration of individual observation store queries.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DocumentsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_charts",
			Name:      "documents_written_total",
			Help:      "Chart group JSON documents atomically published.",
		}),
	}
}
