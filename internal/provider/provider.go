// Package provider defines the read-only interface the compiler uses to
// reach the observation store. Implementations own all query text; the
// compiler never constructs queries.
package provider

import (
	"context"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
)

// Aggregation is a bucket width plus reducer applied server-side when
// fetching a vector. Nil aggregation means raw per-sample data.
type Aggregation struct {
	Type     string // avg, sum, max, min
	Interval int64  // bucket width in seconds
}

// Vector is a time-ordered observation fetch. Start and Stop hold each
// point's bucket boundaries (equal for raw samples); Values preserves
// nil for buckets with no data. Unit names the unit the store holds the
// observation in, or "" when unknown.
type Vector struct {
	Start  []int64
	Stop   []int64
	Values []*float64
	Unit   string
}

// Empty reports whether the vector holds no points.
func (v Vector) Empty() bool { return len(v.Values) == 0 }

// CategoryKind selects the calendar bucket for group-by fetches.
type CategoryKind string

const (
	ByMonth CategoryKind = "month"
	ByYear  CategoryKind = "year"
)

// GroupedValue is one calendar category and its aggregated value.
// Categories with no observations carry zero, not nil.
type GroupedValue struct {
	Label string
	Value *float64
}

// GroupedSeries is a calendar group-by result: one value per category in
// label order, plus the unit the store holds the observation in.
type GroupedSeries struct {
	Values []GroupedValue
	Unit   string
}

// Store is the narrow read surface over the observation store. All
// methods must be safe for concurrent use: chart groups compile in
// parallel against one shared Store.
type Store interface {
	// FetchVector returns the observation over the span, optionally
	// aggregated into fixed buckets.
	FetchVector(ctx context.Context, observation string, span domain.TimeSpan, agg *Aggregation) (Vector, error)

	// FetchGroupBy returns one aggregated value per calendar category
	// (month-of-year or year) across the span, in label order.
	FetchGroupBy(ctx context.Context, observation string, span domain.TimeSpan, aggType string, kind CategoryKind) (GroupedSeries, error)

	// Range returns the first and last good timestamps in the store.
	Range(ctx context.Context) (first, last int64, err error)
}
