// Package chartconfig parses the chart-definition document into typed
// records: chart group → chart → series, in document order.
//
// The document is a YAML mapping nested three levels deep. A mapping
// value is a nested section; a scalar or sequence value is an option.
// Option inheritance is resolved once at parse time through an explicit
// ordered fallback chain (series → chart → group → hard-coded default),
// so the compiled records carry their final values and nothing is
// re-resolved per access.
package chartconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
)

//go:embed graphs.yaml.example
var exampleConfig []byte

// Group is one chart group (e.g. "day"): an ordered set of charts plus
// group-level presentation defaults.
type Group struct {
	Name              string
	Title             string
	Colors            string
	TooltipDateFormat string
	Charts            []Chart
}

// Chart is one chart definition with its resolved window and ordered
// series.
type Chart struct {
	Name              string
	Title             string
	Subtitle          string
	Type              string
	Window            domain.WindowSpec
	Polar             any
	Gapsize           any
	ConnectNulls      any
	XAxisGroupBy      string
	XAxisCategories   []string
	TooltipDateFormat string
	Series            []Series
}

// Series is one observation line on a chart. Options holds the series'
// own unrecognized leaves, forwarded verbatim to the output document.
type Series struct {
	Name              string
	ObservationType   string
	DisplayName       string
	YAxisLabel        string
	YAxisLabelUnit    string
	AggregateType     string
	AggregateInterval int64
	HasInterval       bool
	Mirrored          bool
	YAxisMin          *float64
	YAxisMax          *float64
	Options           map[string]any
}

// Aggregated reports whether an aggregation type is configured.
func (s Series) Aggregated() bool { return s.AggregateType != "" }

// DefaultColors is the palette used when a group does not configure one.
const DefaultColors = "#7cb5ec, #b2df8a, #f7a35c, #8c6bb1, #dd3497, #e4d354, #268bd2, #f45b5b, #6a3d9a, #33a02c"

// DefaultTooltipDateFormat is the moment.js-style tooltip format applied
// when a group does not configure one.
const DefaultTooltipDateFormat = "LLLL"

// Load reads the chart definitions from path, falling back to the
// packaged example document when path does not exist. The returned bool
// reports whether the fallback was used. Failing to read or parse
// whichever document was chosen is a configuration error.
func Load(path string) ([]Group, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		groups, perr := Parse(exampleConfig)
		return groups, true, perr
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, path, err)
	}
	groups, err := Parse(data)
	return groups, false, err
}
