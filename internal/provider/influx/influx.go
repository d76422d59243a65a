// Package influx implements provider.Store against an InfluxDB 2.x
// bucket populated by the station collector.
package influx

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
	"github.com/couchcryptid/weather-charts-service/internal/provider"
	"github.com/couchcryptid/weather-charts-service/internal/units"
)

// Config holds the InfluxDB connection settings plus the unit system the
// collector writes observations in. InfluxDB carries no unit metadata,
// so source units come from the same schema the converter uses.
type Config struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
	SourceUnits units.System
}

// Store reads observation vectors and calendar aggregates via Flux.
// Safe for concurrent use: the underlying client is goroutine-safe and
// Store itself holds no mutable state.
type Store struct {
	client      influxdb2.Client
	query       api.QueryAPI
	bucket      string
	measurement string
	source      *units.Converter
	logger      *slog.Logger
}

// New connects a Store. The connection is lazy; the first query fails if
// the server is unreachable.
func New(cfg Config, logger *slog.Logger) *Store {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Store{
		client:      client,
		query:       client.QueryAPI(cfg.Org),
		bucket:      cfg.Bucket,
		measurement: cfg.Measurement,
		source:      units.NewConverter(cfg.SourceUnits),
		logger:      logger,
	}
}

// Close releases the underlying HTTP client.
func (s *Store) Close() { s.client.Close() }

// fluxFn maps the configured reducer names onto Flux aggregate functions.
func fluxFn(aggType string) (string, error) {
	switch aggType {
	case "avg":
		return "mean", nil
	case "sum", "max", "min":
		return aggType, nil
	default:
		return "", fmt.Errorf("%w: unsupported aggregation %q", domain.ErrConfig, aggType)
	}
}

// FetchVector implements provider.Store.
func (s *Store) FetchVector(ctx context.Context, observation string, span domain.TimeSpan, agg *provider.Aggregation) (provider.Vector, error) {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: %d, stop: %d)
  |> filter(fn: (r) => r._measurement == %q and r._field == %q)`,
		s.bucket, span.Start, span.Stop, s.measurement, observation)
	var interval int64
	if agg != nil {
		fn, err := fluxFn(agg.Type)
		if err != nil {
			return provider.Vector{}, err
		}
		interval = agg.Interval
		flux += fmt.Sprintf("\n  |> aggregateWindow(every: %ds, fn: %s, createEmpty: true)", agg.Interval, fn)
	}
	flux += "\n  |> sort(columns: [\"_time\"])"

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return provider.Vector{}, fmt.Errorf("%w: fetch %s: %v", domain.ErrStore, observation, err)
	}

	vec := provider.Vector{Unit: s.sourceUnit(observation)}
	for result.Next() {
		stop := result.Record().Time().Unix()
		start := stop
		if interval > 0 {
			// aggregateWindow stamps each bucket with its stop time.
			start = stop - interval
		}
		vec.Start = append(vec.Start, start)
		vec.Stop = append(vec.Stop, stop)
		vec.Values = append(vec.Values, asFloat(result.Record().Value()))
	}
	if result.Err() != nil {
		return provider.Vector{}, fmt.Errorf("%w: fetch %s: %v", domain.ErrStore, observation, result.Err())
	}
	return vec, nil
}

// FetchGroupBy implements provider.Store. Categories come back in label
// order with zero values for empty categories present in the data range.
func (s *Store) FetchGroupBy(ctx context.Context, observation string, span domain.TimeSpan, aggType string, kind provider.CategoryKind) (provider.GroupedSeries, error) {
	fn, err := fluxFn(aggType)
	if err != nil {
		return provider.GroupedSeries{}, err
	}
	var dateFn string
	switch kind {
	case provider.ByMonth:
		dateFn = "date.month"
	case provider.ByYear:
		dateFn = "date.year"
	default:
		return provider.GroupedSeries{}, fmt.Errorf("%w: unsupported group-by category %q", domain.ErrConfig, kind)
	}

	flux := fmt.Sprintf(`import "date"
from(bucket: %q)
  |> range(start: %d, stop: %d)
  |> filter(fn: (r) => r._measurement == %q and r._field == %q)
  |> map(fn: (r) => ({r with category: %s(t: r._time)}))
  |> group(columns: ["category"])
  |> %s()
  |> group()`,
		s.bucket, span.Start, span.Stop, s.measurement, observation, dateFn, fn)

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return provider.GroupedSeries{}, fmt.Errorf("%w: group %s by %s: %v", domain.ErrStore, observation, kind, err)
	}

	out := provider.GroupedSeries{Unit: s.sourceUnit(observation)}
	for result.Next() {
		category, ok := result.Record().ValueByKey("category").(int64)
		if !ok {
			continue
		}
		v := asFloat(result.Record().Value())
		if v == nil {
			v = domain.Float64(0)
		}
		out.Values = append(out.Values, provider.GroupedValue{Label: formatCategory(kind, category), Value: v})
	}
	if result.Err() != nil {
		return provider.GroupedSeries{}, fmt.Errorf("%w: group %s by %s: %v", domain.ErrStore, observation, kind, result.Err())
	}
	sort.Slice(out.Values, func(i, j int) bool { return out.Values[i].Label < out.Values[j].Label })
	return out, nil
}

// Range implements provider.Store.
func (s *Store) Range(ctx context.Context) (int64, int64, error) {
	first, err := s.edgeTimestamp(ctx, false)
	if err != nil {
		return 0, 0, err
	}
	last, err := s.edgeTimestamp(ctx, true)
	if err != nil {
		return 0, 0, err
	}
	return first, last, nil
}

func (s *Store) edgeTimestamp(ctx context.Context, newest bool) (int64, error) {
	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: 0)
  |> filter(fn: (r) => r._measurement == %q)
  |> group()
  |> sort(columns: ["_time"], desc: %t)
  |> limit(n: 1)`,
		s.bucket, s.measurement, newest)

	result, err := s.query.Query(ctx, flux)
	if err != nil {
		return 0, fmt.Errorf("%w: store range: %v", domain.ErrStore, err)
	}
	var ts int64
	for result.Next() {
		ts = result.Record().Time().Unix()
	}
	if result.Err() != nil {
		return 0, fmt.Errorf("%w: store range: %v", domain.ErrStore, result.Err())
	}
	if ts == 0 {
		return 0, fmt.Errorf("%w: store is empty", domain.ErrStore)
	}
	return ts, nil
}

func (s *Store) sourceUnit(observation string) string {
	target, ok := s.source.Target(observation)
	if !ok {
		s.logger.Debug("observation outside unit schema", "observation", observation)
		return ""
	}
	return target.Unit
}

func formatCategory(kind provider.CategoryKind, category int64) string {
	if kind == provider.ByMonth {
		return fmt.Sprintf("%02d", category)
	}
	return fmt.Sprintf("%d", category)
}

func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int64:
		f := float64(t)
		return &f
	case uint64:
		f := float64(t)
		return &f
	case time.Duration:
		f := t.Seconds()
		return &f
	default:
		return nil
	}
}
