package domain

import (
	"encoding/json"
	"math"
)

// DataPoint is one published chart sample: a millisecond timestamp and a
// value that may be nil when no observation exists at that instant.
type DataPoint struct {
	Time  float64
	Value *float64
}

// MarshalJSON encodes the point as a [timestampMillis, value] pair, the
// shape the front-end charting library consumes directly. Nil values
// encode as JSON null.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Time, p.Value})
}

// Round returns v rounded to places decimals. Nil values and negative
// place counts (the "not unit-convertible" sentinel) pass through
// untouched.
func Round(v *float64, places int) *float64 {
	if v == nil || places < 0 {
		return v
	}
	r := RoundFloat(*v, places)
	return &r
}

// RoundFloat rounds v to places decimals, half away from zero.
func RoundFloat(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Float64 returns a pointer to v. Convenience for literal test data and
// transform output.
func Float64(v float64) *float64 { return &v }

// Negate flips the sign of every non-nil value in place. Used for
// mirrored series plotted below the axis.
func Negate(values []*float64) {
	for i, v := range values {
		if v != nil {
			n := -*v
			values[i] = &n
		}
	}
}
