package chartconfig

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
)

// Parse decodes a chart-definition document. Section order is preserved:
// charts render in the order they appear, series likewise.
func Parse(data []byte) ([]Group, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty chart definition document", domain.ErrConfig)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of chart groups", domain.ErrConfig)
	}

	var groups []Group
	for i := 0; i < len(root.Content); i += 2 {
		name := root.Content[i].Value
		section, opts, err := splitSection(root.Content[i+1], name)
		if err != nil {
			return nil, err
		}
		group, err := parseGroup(name, section, opts)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// sectionEntry is one nested section in document order.
type sectionEntry struct {
	name string
	node *yaml.Node
}

// splitSection separates a mapping node into nested sections (mapping
// values) and plain options (scalar or sequence values). A null value is
// an empty section, so bare chart and series keys parse cleanly.
func splitSection(n *yaml.Node, name string) ([]sectionEntry, map[string]any, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, map[string]any{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%w: section %q must be a mapping", domain.ErrConfig, name)
	}
	var sections []sectionEntry
	opts := make(map[string]any)
	for i := 0; i < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]
		switch {
		case val.Kind == yaml.MappingNode:
			sections = append(sections, sectionEntry{name: key, node: val})
		case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
			sections = append(sections, sectionEntry{name: key, node: nil})
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, nil, fmt.Errorf("%w: option %s.%s: %v", domain.ErrConfig, name, key, err)
			}
			opts[key] = v
		}
	}
	return sections, opts, nil
}

func parseGroup(name string, charts []sectionEntry, opts map[string]any) (Group, error) {
	c := chain{opts}
	group := Group{
		Name:              name,
		Title:             c.str("title", ""),
		Colors:            c.str("colors", DefaultColors),
		TooltipDateFormat: c.str("tooltip_date_format", DefaultTooltipDateFormat),
	}
	for _, entry := range charts {
		series, chartOpts, err := splitSectionOrEmpty(entry.node, name+"."+entry.name)
		if err != nil {
			return Group{}, err
		}
		chart, err := parseChart(entry.name, series, chain{chartOpts, opts})
		if err != nil {
			return Group{}, fmt.Errorf("chart %s.%s: %w", name, entry.name, err)
		}
		group.Charts = append(group.Charts, chart)
	}
	return group, nil
}

func splitSectionOrEmpty(n *yaml.Node, name string) ([]sectionEntry, map[string]any, error) {
	if n == nil {
		return nil, map[string]any{}, nil
	}
	return splitSection(n, name)
}

func parseChart(name string, series []sectionEntry, c chain) (Chart, error) {
	window, err := domain.ParseWindow(
		c.str("time_length", "86400"),
		c.integer("time_ago", 1),
		c.integer("day_specific", 1),
		c.integer("month_specific", 8),
		c.integer("year_specific", 2019),
	)
	if err != nil {
		return Chart{}, err
	}

	chart := Chart{
		Name:              name,
		Title:             c.str("title", ""),
		Subtitle:          c.str("subtitle", ""),
		Type:              c.str("type", "line"),
		Window:            window,
		Polar:             c.raw("polar"),
		Gapsize:           c.rawDefault("gapsize", 300000),
		ConnectNulls:      c.rawDefault("connectNulls", "false"),
		XAxisGroupBy:      c.str("xaxis_groupby", ""),
		XAxisCategories:   c.list("xaxis_categories"),
		TooltipDateFormat: c.str("tooltip_date_format", ""),
	}
	for _, entry := range series {
		_, seriesOpts, err := splitSectionOrEmpty(entry.node, name+"."+entry.name)
		if err != nil {
			return Chart{}, err
		}
		chart.Series = append(chart.Series, parseSeries(entry.name, seriesOpts, append(chain{seriesOpts}, c...)))
	}
	return chart, nil
}

func parseSeries(name string, own map[string]any, c chain) Series {
	s := Series{
		Name:            name,
		ObservationType: c.str("observation_type", name),
		DisplayName:     c.str("name", ""),
		YAxisLabel:      c.str("yAxisLabel", ""),
		YAxisLabelUnit:  c.str("yAxisLabel_unit", ""),
		Mirrored:        c.boolean("mirrored_value", false),
		YAxisMin:        c.float("yaxis_min"),
		YAxisMax:        c.float("yaxis_max"),
		Options:         own,
	}
	agg := c.str("aggregate_type", "")
	if agg != "" && agg != "None" && agg != "none" {
		s.AggregateType = agg
		if v, ok := c.lookup("aggregate_interval"); ok {
			if n, err := toInt64(v); err == nil {
				s.AggregateInterval = n
				s.HasInterval = true
			}
		}
	}
	return s
}

// chain is an ordered list of option sources, most specific first. A
// lookup walks the chain and stops at the first source holding the key;
// callers supply the final literal default.
type chain []map[string]any

func (c chain) lookup(key string) (any, bool) {
	for _, m := range c {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c chain) raw(key string) any {
	v, _ := c.lookup(key)
	return v
}

func (c chain) rawDefault(key string, def any) any {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

func (c chain) str(key, def string) string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return def
	}
	return fmt.Sprintf("%v", v)
}

func (c chain) integer(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := toInt64(v)
	if err != nil {
		return def
	}
	return int(n)
}

func (c chain) float(key string) *float64 {
	v, ok := c.lookup(key)
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil
	}
	return &f
}

func (c chain) boolean(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0", "":
			return false
		}
	case int:
		return t != 0
	}
	return def
}

// list reads a key as a sequence, or as a whitespace-separated scalar
// for compatibility with the flat single-line style.
func (c chain) list(key string) []string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		return strings.Fields(t)
	default:
		return []string{fmt.Sprintf("%v", t)}
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
