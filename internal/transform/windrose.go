package transform

import (
	"strings"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
)

// compassPoints is the number of wind rose direction buckets.
const compassPoints = 16

// RoseSeries is one speed bin of the wind rose: a display name plus 16
// percentage values, one per compass direction starting at N and moving
// clockwise. The fixed rendering options match the stacked-column polar
// chart the consumer draws.
type RoseSeries struct {
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	ColorIndex  *int      `json:"_colorIndex,omitempty"`
	ZIndex      int       `json:"zIndex,omitempty"`
	Stacking    string    `json:"stacking,omitempty"`
	FillOpacity float64   `json:"fillOpacity,omitempty"`
	Data        []float64 `json:"data"`
}

// binSet holds one speed unit's bin boundaries and labels. bounds are
// half-open upper limits for bins 0-5; anything at or above the last
// bound lands in bin 6. The boundaries follow the first seven Beaufort
// groups expressed in each unit.
type binSet struct {
	bounds [6]float64
	labels [7]string
}

var binSets = map[string]binSet{
	"mile_per_hour": {
		bounds: [6]float64{1, 4, 8, 13, 19, 25},
		labels: [7]string{"< 1", "1-3", "4-7", "8-12", "13-18", "19-24", "25+"},
	},
	"km_per_hour": {
		bounds: [6]float64{2, 6, 12, 20, 29, 39},
		labels: [7]string{"< 2", "2-5", "6-11", "12-19", "20-28", "29-38", "39+"},
	},
	"meter_per_second": {
		bounds: [6]float64{0.5, 1.6, 3.4, 5.6, 8, 10.8},
		labels: [7]string{"< 0.5", "0.5-1.5", "1.6-3.3", "3.4-5.5", "5.5-7.9", "8-10.7", "10.8+"},
	},
	"knot": {
		bounds: [6]float64{1, 4, 7, 11, 17, 22},
		labels: [7]string{"< 1", "1-3", "4-6", "7-10", "11-16", "17-21", "22+"},
	},
}

// BuildWindRose classifies paired direction/speed samples into 7 speed
// bins and 16 compass buckets, then normalizes every bucket to a
// percentage of the total accumulated speed magnitude. A span with no
// samples at all yields a single empty series so the consumer renders an
// empty rose instead of a zeroed grid.
func BuildWindRose(dirs, speeds []*float64, speedUnit, unitLabel string, decimals int) []RoseSeries {
	if len(dirs) == 0 || len(speeds) == 0 {
		return []RoseSeries{{Name: "", Data: []float64{}}}
	}

	set, ok := binSets[speedUnit]
	if !ok {
		set = binSets["mile_per_hour"]
	}

	var buckets [7][compassPoints]float64
	n := len(dirs)
	if len(speeds) < n {
		n = len(speeds)
	}
	for i := 0; i < n; i++ {
		if dirs[i] == nil || speeds[i] == nil {
			continue
		}
		dir := domain.RoundFloat(*dirs[i], 0)
		speed := *speeds[i]
		if decimals >= 0 {
			speed = domain.RoundFloat(speed, decimals)
		}
		buckets[binIndex(set, speed)][compassIndex(dir)] += speed
	}

	total := 0.0
	for b := range buckets {
		for d := range buckets[b] {
			buckets[b][d] = domain.RoundFloat(buckets[b][d], 1)
			total += buckets[b][d]
		}
	}
	if total > 0 {
		for b := range buckets {
			for d := range buckets[b] {
				buckets[b][d] = domain.RoundFloat(buckets[b][d]/total*100, 0)
			}
		}
	}

	label := strings.TrimSpace(unitLabel)
	series := make([]RoseSeries, 7)
	for b := range series {
		colorIndex := b
		data := make([]float64, compassPoints)
		copy(data, buckets[b][:])
		series[b] = RoseSeries{
			Name:        set.labels[b] + " " + label,
			Type:        "column",
			ColorIndex:  &colorIndex,
			ZIndex:      106 - b,
			Stacking:    "normal",
			FillOpacity: 0.75,
			Data:        data,
		}
	}
	return series
}

// binIndex assigns a speed to its bin. Ranges are half-open so every
// sample lands in exactly one bin, including fractional speeds between
// the published labels.
func binIndex(set binSet, speed float64) int {
	for i, bound := range set.bounds {
		if speed < bound {
			return i
		}
	}
	return 6
}

// compassIndex maps whole degrees onto the 16-point compass, bucket 0
// centered on north. Truncation, not rounding: 11° is still N, 12° is
// NNE, matching the compass walls at 11.25° steps.
func compassIndex(dir float64) int {
	return int((dir+11.25)/22.5) % compassPoints
}
