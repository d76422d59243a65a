// Package units maps stored observations to display units, labels, and
// rounding precision for the three supported unit systems, and converts
// values between units inside the same semantic group.
package units

import (
	"fmt"
	"strings"
)

// System selects the target unit schema for published charts.
type System int

const (
	US System = iota
	Metric
	MetricWX
)

// ParseSystem parses a configured unit system name.
func ParseSystem(s string) (System, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "US":
		return US, nil
	case "METRIC":
		return Metric, nil
	case "METRICWX":
		return MetricWX, nil
	default:
		return US, fmt.Errorf("unknown unit system %q", s)
	}
}

func (s System) String() string {
	switch s {
	case Metric:
		return "METRIC"
	case MetricWX:
		return "METRICWX"
	default:
		return "US"
	}
}

// obsGroups assigns each known observation its semantic group. Anything
// absent here (wind rose, category aggregates, synthetic series) is not
// unit-convertible.
var obsGroups = map[string]string{
	"outTemp":        "temperature",
	"inTemp":         "temperature",
	"dewpoint":       "temperature",
	"windchill":      "temperature",
	"heatindex":      "temperature",
	"appTemp":        "temperature",
	"barometer":      "pressure",
	"pressure":       "pressure",
	"altimeter":      "pressure",
	"windSpeed":      "speed",
	"windGust":       "speed",
	"windDir":        "direction",
	"windGustDir":    "direction",
	"rain":           "rain",
	"ET":             "rain",
	"rainRate":       "rainrate",
	"outHumidity":    "percent",
	"inHumidity":     "percent",
	"rxCheckPercent": "percent",
	"UV":             "uv",
	"radiation":      "radiation",
	"cloudbase":      "altitude",
}

// groupUnits gives the display unit per group for each system.
var groupUnits = map[System]map[string]string{
	US: {
		"temperature": "degree_F",
		"pressure":    "inHg",
		"speed":       "mile_per_hour",
		"rain":        "inch",
		"rainrate":    "inch_per_hour",
		"altitude":    "foot",
		"direction":   "degree_compass",
		"percent":     "percent",
		"uv":          "uv_index",
		"radiation":   "watt_per_meter_squared",
	},
	Metric: {
		"temperature": "degree_C",
		"pressure":    "mbar",
		"speed":       "km_per_hour",
		"rain":        "cm",
		"rainrate":    "cm_per_hour",
		"altitude":    "meter",
		"direction":   "degree_compass",
		"percent":     "percent",
		"uv":          "uv_index",
		"radiation":   "watt_per_meter_squared",
	},
	MetricWX: {
		"temperature": "degree_C",
		"pressure":    "mbar",
		"speed":       "meter_per_second",
		"rain":        "mm",
		"rainrate":    "mm_per_hour",
		"altitude":    "meter",
		"direction":   "degree_compass",
		"percent":     "percent",
		"uv":          "uv_index",
		"radiation":   "watt_per_meter_squared",
	},
}

// unitDef describes one unit: its group, display label, rounding
// precision, and linear mapping to the group's base unit.
type unitDef struct {
	group    string
	label    string
	decimals int
	toBase   func(float64) float64
	fromBase func(float64) float64
}

func identity(v float64) float64 { return v }

func scale(factor float64) (func(float64) float64, func(float64) float64) {
	return func(v float64) float64 { return v * factor },
		func(v float64) float64 { return v / factor }
}

// Base units per group: temperature degree_C, pressure mbar, speed
// meter_per_second, rain mm, rainrate mm/hr, altitude meter.
var unitDefs = map[string]unitDef{
	"degree_C": {group: "temperature", label: "°C", decimals: 2, toBase: identity, fromBase: identity},
	"degree_F": {group: "temperature", label: "°F", decimals: 2,
		toBase:   func(v float64) float64 { return (v - 32) * 5 / 9 },
		fromBase: func(v float64) float64 { return v*9/5 + 32 }},

	"mbar": {group: "pressure", label: " mbar", decimals: 1, toBase: identity, fromBase: identity},
	"hPa":  {group: "pressure", label: " hPa", decimals: 1, toBase: identity, fromBase: identity},
	"inHg": {group: "pressure", label: " inHg", decimals: 1,
		toBase:   func(v float64) float64 { return v * 33.86386 },
		fromBase: func(v float64) float64 { return v / 33.86386 }},

	"meter_per_second": {group: "speed", label: " m/s", decimals: 2, toBase: identity, fromBase: identity},
	"mile_per_hour":    {group: "speed", label: " mph", decimals: 2},
	"km_per_hour":      {group: "speed", label: " km/h", decimals: 2},
	"knot":             {group: "speed", label: " knots", decimals: 2},

	"mm":   {group: "rain", label: " mm", decimals: 2, toBase: identity, fromBase: identity},
	"cm":   {group: "rain", label: " cm", decimals: 2},
	"inch": {group: "rain", label: " in", decimals: 2},

	"mm_per_hour":   {group: "rainrate", label: " mm/hr", decimals: 2, toBase: identity, fromBase: identity},
	"cm_per_hour":   {group: "rainrate", label: " cm/hr", decimals: 2},
	"inch_per_hour": {group: "rainrate", label: " in/hr", decimals: 2},

	"meter": {group: "altitude", label: " meters", decimals: 2, toBase: identity, fromBase: identity},
	"foot":  {group: "altitude", label: " feet", decimals: 2},

	"degree_compass":         {group: "direction", label: "°", decimals: 0, toBase: identity, fromBase: identity},
	"percent":                {group: "percent", label: "%", decimals: 2, toBase: identity, fromBase: identity},
	"uv_index":               {group: "uv", label: "", decimals: 2, toBase: identity, fromBase: identity},
	"watt_per_meter_squared": {group: "radiation", label: " W/m²", decimals: 2, toBase: identity, fromBase: identity},
}

func init() {
	fill := func(name string, factor float64) {
		d := unitDefs[name]
		d.toBase, d.fromBase = scale(factor)
		unitDefs[name] = d
	}
	fill("mile_per_hour", 0.44704)
	fill("km_per_hour", 1.0/3.6)
	fill("knot", 0.514444)
	fill("cm", 10)
	fill("inch", 25.4)
	fill("cm_per_hour", 10)
	fill("inch_per_hour", 25.4)
	fill("foot", 0.3048)
}

// Target is the display unit and rounding precision for one observation.
type Target struct {
	Unit     string
	Decimals int
}

// Converter resolves observations to display units for one target system.
type Converter struct {
	system System
}

// NewConverter builds a Converter for the given unit system.
func NewConverter(system System) *Converter {
	return &Converter{system: system}
}

// System returns the converter's target unit system.
func (c *Converter) System() System { return c.system }

// Target returns the display unit and decimals for an observation, or
// ok=false when the observation is outside the known schema (synthetic
// series such as the wind rose use rounding -1 instead).
func (c *Converter) Target(observation string) (Target, bool) {
	group, ok := obsGroups[observation]
	if !ok {
		return Target{Decimals: -1}, false
	}
	unit := groupUnits[c.system][group]
	return Target{Unit: unit, Decimals: Decimals(unit)}, true
}

// Convert maps v from one unit to another within the same group. Nil
// values, empty source units, and identical units pass through unchanged.
func Convert(v *float64, from, to string) (*float64, error) {
	if v == nil || from == "" || from == to {
		return v, nil
	}
	fd, ok := unitDefs[from]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q", from)
	}
	td, ok := unitDefs[to]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q", to)
	}
	if fd.group != td.group {
		return nil, fmt.Errorf("cannot convert %s to %s: different groups", from, to)
	}
	out := td.fromBase(fd.toBase(*v))
	return &out, nil
}

// Label returns the display label for a unit, e.g. " mph" or "°F".
// Unknown units label as "".
func Label(unit string) string {
	return unitDefs[unit].label
}

// Decimals returns the rounding precision for a unit: 2 for most, 1 for
// pressure-like quantities, 0 for compass degrees, -1 for unknown units.
func Decimals(unit string) int {
	d, ok := unitDefs[unit]
	if !ok {
		return -1
	}
	return d.decimals
}

// Group returns the semantic group of an observation, or "" if unknown.
func Group(observation string) string { return obsGroups[observation] }
