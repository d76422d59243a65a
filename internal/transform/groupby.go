package transform

import (
	"context"
	"fmt"

	"github.com/couchcryptid/weather-charts-service/internal/domain"
	"github.com/couchcryptid/weather-charts-service/internal/provider"
	"github.com/couchcryptid/weather-charts-service/internal/units"
)

// GroupByReducer produces one aggregated value per calendar category
// (month-of-year or year) across a span, unit-converted and rounded for
// display.
type GroupByReducer struct {
	Store     provider.Store
	Converter *units.Converter
}

// Reduce runs the grouping query and converts its values. The default
// aggregation is sum. Labels come from the query ("01".."12" for months,
// four-digit years); a caller holding its own category list keeps those
// labels and uses only the value sequence.
func (r GroupByReducer) Reduce(ctx context.Context, observation string, span domain.TimeSpan, kind provider.CategoryKind, aggType string) ([]string, []*float64, error) {
	if aggType == "" {
		aggType = "sum"
	}
	grouped, err := r.Store.FetchGroupBy(ctx, observation, span, aggType, kind)
	if err != nil {
		return nil, nil, err
	}

	target, known := r.Converter.Target(observation)
	labels := make([]string, 0, len(grouped.Values))
	values := make([]*float64, 0, len(grouped.Values))
	for _, gv := range grouped.Values {
		labels = append(labels, gv.Label)
		v := gv.Value
		if known {
			converted, cerr := units.Convert(v, grouped.Unit, target.Unit)
			if cerr != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrUnconvertible, observation, cerr)
			}
			v = domain.Round(converted, target.Decimals)
		}
		values = append(values, v)
	}
	return labels, values, nil
}
