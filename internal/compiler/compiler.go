// Package compiler orchestrates a chart compilation pass: per chart
// group it resolves time spans, fetches and transforms series data,
// converts units, and atomically publishes one JSON document per group
// plus a diagnostics dump of the resolved configuration.
package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/weather-charts-service/internal/chartconfig"
	"github.com/couchcryptid/weather-charts-service/internal/domain"
	"github.com/couchcryptid/weather-charts-service/internal/observability"
	"github.com/couchcryptid/weather-charts-service/internal/provider"
	"github.com/couchcryptid/weather-charts-service/internal/transform"
	"github.com/couchcryptid/weather-charts-service/internal/units"
)

// Notifier is told after a group document has been atomically published.
type Notifier interface {
	Published(ctx context.Context, group, path string, generated time.Time) error
}

// Options are the pass parameters supplied by the external scheduler.
type Options struct {
	OutputDir string
	WeekStart int
	Location  *time.Location
	// GenTime anchors all window resolution. Zero means "last good
	// timestamp in the store", falling back to wall-clock time.
	GenTime int64
	// Workers bounds parallel group compilation. Zero or negative
	// means serial.
	Workers int
}

// Compiler compiles chart groups against a read-only observation store.
type Compiler struct {
	store     provider.Store
	converter *units.Converter
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	notifier  Notifier
}

// New creates a Compiler. notifier may be nil.
func New(store provider.Store, converter *units.Converter, opts Options, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, notifier Notifier) *Compiler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Compiler{
		store:     store,
		converter: converter,
		opts:      opts,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		notifier:  notifier,
	}
}

// defaultLabels resolves display names for observations with no explicit
// name in the chart definition. Unlisted observations display their key.
var defaultLabels = map[string]string{
	"outTemp":     "Outside Temperature",
	"inTemp":      "Inside Temperature",
	"dewpoint":    "Dew Point",
	"windchill":   "Wind Chill",
	"heatindex":   "Heat Index",
	"appTemp":     "Apparent Temperature",
	"barometer":   "Barometer",
	"pressure":    "Pressure",
	"altimeter":   "Altimeter",
	"windSpeed":   "Wind Speed",
	"windGust":    "Wind Gust",
	"windDir":     "Wind Direction",
	"rain":        "Rain",
	"rainTotal":   "Rain Total",
	"rainRate":    "Rain Rate",
	"outHumidity": "Outside Humidity",
	"inHumidity":  "Inside Humidity",
	"UV":          "UV Index",
	"radiation":   "Solar Radiation",
	"cloudbase":   "Cloud Base",
	"windRose":    "Wind Rose",
}

func displayLabel(observation string) string {
	if label, ok := defaultLabels[observation]; ok {
		return label
	}
	return observation
}

// storeLookup maps chart observation names onto store field names. The
// rain total is a synthetic view over the raw rain counter.
func storeLookup(observation string) string {
	if observation == "rainTotal" {
		return "rain"
	}
	return observation
}

// Run executes one compilation pass over the parsed chart groups.
// Configuration and store errors abort the pass; per-series problems
// downgrade that series only.
func (c *Compiler) Run(ctx context.Context, groups []chartconfig.Group) error {
	start := time.Now()
	c.metrics.PassRunning.Set(1)
	defer c.metrics.PassRunning.Set(0)

	first, last, err := c.store.Range(ctx)
	if err != nil {
		return err
	}

	genTime := c.opts.GenTime
	if genTime == 0 {
		genTime = last
	}
	if genTime == 0 {
		genTime = c.clock.Now().Unix()
	}
	resolver := domain.SpanResolver{
		WeekStart:  c.opts.WeekStart,
		Location:   c.opts.Location,
		StoreFirst: first,
		StoreLast:  last,
	}
	c.logger.Info("compilation pass started",
		"groups", len(groups), "gen_time", genTime, "store_first", first, "store_last", last)

	jsonDir := filepath.Join(c.opts.OutputDir, "json")

	g, gctx := errgroup.WithContext(ctx)
	if c.opts.Workers > 0 {
		g.SetLimit(c.opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for _, group := range groups {
		group := group
		g.Go(func() error {
			doc, err := c.compileGroup(gctx, resolver, group, genTime)
			if err != nil {
				return fmt.Errorf("group %s: %w", group.Name, err)
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("group %s: encode: %w", group.Name, err)
			}
			path := filepath.Join(jsonDir, group.Name+".json")
			if err := writeFileAtomic(path, data); err != nil {
				return fmt.Errorf("group %s: %w", group.Name, err)
			}
			c.metrics.GroupsCompiled.Inc()
			c.metrics.DocumentsWritten.Inc()
			c.logger.Info("chart group published", "group", group.Name, "path", path)
			c.notifyPublished(gctx, group.Name, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := c.dumpResolvedConfig(jsonDir, groups); err != nil {
		return err
	}

	c.metrics.PassDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("compilation pass complete", "groups", len(groups), "duration", time.Since(start))
	return nil
}

func (c *Compiler) notifyPublished(ctx context.Context, group, path string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Published(ctx, group, path, c.clock.Now()); err != nil {
		c.logger.Warn("publish notification failed", "group", group, "error", err)
	}
}

// dumpResolvedConfig writes the typed, inheritance-resolved chart model
// next to the group documents for diagnostics.
func (c *Compiler) dumpResolvedConfig(jsonDir string, groups []chartconfig.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode resolved config: %w", err)
	}
	return writeFileAtomic(filepath.Join(jsonDir, "graphs.json"), data)
}

func (c *Compiler) compileGroup(ctx context.Context, resolver domain.SpanResolver, group chartconfig.Group, genTime int64) (*Document, error) {
	loc := resolver.Location
	if loc == nil {
		loc = time.Local
	}

	doc := NewDocument()
	doc.Set("generated_timestamp", c.clock.Now().In(loc).Format("01/02/2006 15:04:05"))
	doc.Set("colors", group.Colors)
	if group.Title != "" {
		doc.Set("chartgroup_title", group.Title)
	}
	doc.Set("tooltip_date_format", group.TooltipDateFormat)

	for _, chart := range group.Charts {
		chartDoc, err := c.compileChart(ctx, resolver, group, chart, genTime)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", chart.Name, err)
		}
		doc.Set(chart.Name, chartDoc)
	}
	return doc, nil
}

func (c *Compiler) compileChart(ctx context.Context, resolver domain.SpanResolver, group chartconfig.Group, chart chartconfig.Chart, genTime int64) (*Document, error) {
	span, err := resolver.Resolve(chart.Window, genTime)
	if err != nil {
		return nil, err
	}

	categories := chart.XAxisCategories
	if categories == nil {
		categories = []string{}
	}
	options := map[string]any{
		"renderTo":         chart.Name,
		"chart_group":      group.Name,
		"title":            chart.Title,
		"subtitle":         chart.Subtitle,
		"type":             chart.Type,
		"gapsize":          chart.Gapsize,
		"connectNulls":     chart.ConnectNulls,
		"xaxis_categories": categories,
	}
	if chart.TooltipDateFormat != "" {
		options["plot_tooltip_date_format"] = chart.TooltipDateFormat
	}

	series := NewDocument()
	for _, s := range chart.Series {
		entry, queryLabels, err := c.compileSeries(ctx, span, chart, s)
		if errors.Is(err, domain.ErrUnconvertible) {
			c.logger.Warn("unit conversion failed, series skipped", "series", s.Name, "error", err)
			c.metrics.SeriesSkipped.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		if entry == nil {
			// Recoverable series problem; already logged.
			continue
		}
		if queryLabels != nil && len(chart.XAxisCategories) == 0 {
			options["xaxis_categories"] = queryLabels
		}
		if label, ok := entry["yAxisLabel"]; ok {
			options["yAxisLabel"] = label
		}
		series.Set(s.Name, entry)
		c.metrics.SeriesCompiled.Inc()
	}

	chartDoc := NewDocument()
	chartDoc.Set("series", series)
	chartDoc.Set("options", options)
	if chart.Polar != nil {
		chartDoc.Set("polar", chart.Polar)
	}
	return chartDoc, nil
}

// compileSeries runs the per-series state machine: fetch or transform,
// convert, round, mirror, merge. A nil entry with nil error means the
// series was skipped for a recoverable reason. The returned label slice
// is non-nil only for group-by series deriving categories from the
// query.
func (c *Compiler) compileSeries(ctx context.Context, span domain.TimeSpan, chart chartconfig.Chart, s chartconfig.Series) (map[string]any, []string, error) {
	obs := s.ObservationType
	groupBy := chart.XAxisGroupBy != "" || len(chart.XAxisCategories) > 0

	// Only the vector path buckets by interval; the wind rose ignores
	// aggregation and group-by reduction buckets by calendar category.
	if s.Aggregated() && !s.HasInterval && obs != "windRose" && !groupBy {
		c.logger.Warn("aggregate interval required for aggregate type, series skipped",
			"series", s.Name, "observation", obs, "aggregate_type", s.AggregateType)
		c.metrics.SeriesSkipped.Inc()
		return nil, nil, nil
	}

	name := s.DisplayName
	if name == "" {
		name = displayLabel(obs)
	}

	target, known := c.converter.Target(storeLookup(obs))
	rounding := target.Decimals
	unitLabel := s.YAxisLabelUnit
	if unitLabel == "" && known {
		unitLabel = units.Label(target.Unit)
	}
	yAxisLabel := s.YAxisLabel
	if yAxisLabel == "" && unitLabel != "" {
		yAxisLabel = name + " (" + strings.TrimSpace(unitLabel) + ")"
	}

	entry := make(map[string]any, len(s.Options)+6)
	for k, v := range s.Options {
		entry[k] = v
	}
	entry["obsType"] = s.Name
	entry["name"] = name
	entry["yAxisLabel"] = yAxisLabel
	entry["rounding"] = rounding
	if s.YAxisMin != nil {
		entry["yaxis_min"] = *s.YAxisMin
	}
	if s.YAxisMax != nil {
		entry["yaxis_max"] = *s.YAxisMax
	}

	switch {
	case obs == "windRose":
		data, err := c.windRoseData(ctx, span)
		if err != nil {
			return nil, nil, err
		}
		entry["data"] = data
		return entry, nil, nil

	case groupBy:
		values, labels, err := c.groupByData(ctx, span, chart, s)
		if err != nil {
			return nil, nil, err
		}
		entry["data"] = values
		return entry, labels, nil

	default:
		data, err := c.vectorData(ctx, span, chart, s, target, known)
		if err != nil {
			return nil, nil, err
		}
		entry["data"] = data
		return entry, nil, nil
	}
}

// windRoseData fetches raw direction and speed vectors over the span and
// bins them. Any configured aggregation is ignored: the rose needs every
// sample.
func (c *Compiler) windRoseData(ctx context.Context, span domain.TimeSpan) ([]transform.RoseSeries, error) {
	dirVec, err := c.fetchVector(ctx, "windDir", span, nil)
	if err != nil {
		return nil, err
	}
	speedVec, err := c.fetchVector(ctx, "windSpeed", span, nil)
	if err != nil {
		return nil, err
	}

	target, _ := c.converter.Target("windSpeed")
	speeds := make([]*float64, len(speedVec.Values))
	for i, v := range speedVec.Values {
		converted, cerr := units.Convert(v, speedVec.Unit, target.Unit)
		if cerr != nil {
			return nil, fmt.Errorf("%w: windSpeed: %v", domain.ErrUnconvertible, cerr)
		}
		speeds[i] = converted
	}

	return transform.BuildWindRose(dirVec.Values, speeds, target.Unit, units.Label(target.Unit), target.Decimals), nil
}

// groupByData reduces the span into calendar categories. Labels derived
// from the query are returned only when the chart did not configure its
// own category list.
func (c *Compiler) groupByData(ctx context.Context, span domain.TimeSpan, chart chartconfig.Chart, s chartconfig.Series) ([]*float64, []string, error) {
	kind := provider.ByMonth
	if chart.XAxisGroupBy == "year" {
		kind = provider.ByYear
	}

	reducer := transform.GroupByReducer{Store: c.store, Converter: c.converter}
	start := time.Now()
	labels, values, err := reducer.Reduce(ctx, storeLookup(s.ObservationType), span, kind, s.AggregateType)
	c.metrics.StoreQueryTime.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, nil, err
	}

	if s.Mirrored {
		domain.Negate(values)
	}
	if len(chart.XAxisCategories) > 0 {
		return values, nil, nil
	}
	return values, labels, nil
}

// vectorData is the standard fetch path, including the rain counter.
func (c *Compiler) vectorData(ctx context.Context, span domain.TimeSpan, chart chartconfig.Chart, s chartconfig.Series, target units.Target, known bool) ([]domain.DataPoint, error) {
	obs := s.ObservationType
	lookup := storeLookup(obs)

	aggType := s.AggregateType
	if s.HasInterval {
		// The rain counter always sums tips per bucket; rain rate
		// reports the peak rate inside each bucket.
		switch obs {
		case "rainTotal":
			aggType = "sum"
		case "rainRate":
			aggType = "max"
		}
	}
	var agg *provider.Aggregation
	if aggType != "" && s.HasInterval {
		agg = &provider.Aggregation{Type: aggType, Interval: s.AggregateInterval}
	}

	vec, err := c.fetchVector(ctx, lookup, span, agg)
	if err != nil {
		return nil, err
	}

	values := make([]*float64, len(vec.Values))
	for i, v := range vec.Values {
		if !known {
			values[i] = v
			continue
		}
		converted, cerr := units.Convert(v, vec.Unit, target.Unit)
		if cerr != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnconvertible, lookup, cerr)
		}
		values[i] = converted
	}

	if obs == "rainTotal" {
		values = transform.AccumulateRain(values, target.Decimals)
	} else {
		for i, v := range values {
			values[i] = domain.Round(v, target.Decimals)
		}
	}

	if s.Mirrored {
		domain.Negate(values)
	}

	// Floating windows stamp points with the bucket stop so the tooltip
	// never shows the next bucket's first minute; fixed calendar windows
	// stamp the bucket start so the last bucket keeps its own day label.
	stamps := vec.Start
	if chart.Window.Floating() {
		stamps = vec.Stop
	}

	points := make([]domain.DataPoint, len(values))
	for i := range values {
		points[i] = domain.DataPoint{Time: float64(stamps[i]) * 1000, Value: values[i]}
	}
	return points, nil
}

func (c *Compiler) fetchVector(ctx context.Context, observation string, span domain.TimeSpan, agg *provider.Aggregation) (provider.Vector, error) {
	start := time.Now()
	vec, err := c.store.FetchVector(ctx, observation, span, agg)
	c.metrics.StoreQueryTime.Observe(time.Since(start).Seconds())
	return vec, err
}
