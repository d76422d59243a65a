// Package transform holds the special-purpose series transforms layered
// over raw store fetches: rain-counter accumulation, wind-rose binning,
// and calendar group-by reduction.
package transform

import "github.com/couchcryptid/weather-charts-service/internal/domain"

// AccumulateRain reconstructs a cumulative rainfall total from stored
// bucket-tip increments. Inputs must be in chronological order. Missing
// samples count as zero rainfall, so every output point carries a value
// and the running total never resets mid-span. The total is rounded to
// decimals at every step so the published points match the display
// precision exactly.
func AccumulateRain(values []*float64, decimals int) []*float64 {
	out := make([]*float64, len(values))
	total := 0.0
	for i, v := range values {
		if v != nil {
			total += *v
		}
		r := total
		if decimals >= 0 {
			r = domain.RoundFloat(total, decimals)
		}
		out[i] = &r
	}
	return out
}
