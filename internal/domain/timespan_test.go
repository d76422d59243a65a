package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcResolver() SpanResolver {
	return SpanResolver{WeekStart: 6, Location: time.UTC}
}

// anchor is Tuesday 2021-06-15 10:30:00 UTC.
var anchor = time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC).Unix()

func TestParseWindow_RollingSeconds(t *testing.T) {
	w, err := ParseWindow("86400", 1, 1, 8, 2019)
	require.NoError(t, err)
	assert.Equal(t, int64(86400), w.Seconds)
	assert.Empty(t, w.Keyword)
	assert.True(t, w.Floating())
}

func TestParseWindow_Keyword(t *testing.T) {
	w, err := ParseWindow("days_ago", 3, 1, 8, 2019)
	require.NoError(t, err)
	assert.Equal(t, "days_ago", w.Keyword)
	assert.Equal(t, 3, w.Ago)
	assert.False(t, w.Floating())
}

func TestParseWindow_Unrecognized(t *testing.T) {
	_, err := ParseWindow("fortnight", 1, 1, 8, 2019)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseWindow_NonPositiveSeconds(t *testing.T) {
	_, err := ParseWindow("0", 1, 1, 8, 2019)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestResolve_RollingWindowExactLength(t *testing.T) {
	r := utcResolver()
	for _, n := range []int64{60, 3600, 86400, 604800} {
		span, err := r.Resolve(WindowSpec{Seconds: n}, anchor)
		require.NoError(t, err)
		assert.Equal(t, n, span.Duration())
		assert.Equal(t, anchor, span.Stop)
	}
}

func TestResolve_ContainingPeriodsHoldAnchor(t *testing.T) {
	r := utcResolver()
	for _, keyword := range []string{"today", "week", "month", "year"} {
		span, err := r.Resolve(WindowSpec{Keyword: keyword}, anchor)
		require.NoError(t, err, keyword)
		assert.LessOrEqual(t, span.Start, anchor, keyword)
		assert.LessOrEqual(t, anchor, span.Stop, keyword)

		again, err := r.Resolve(WindowSpec{Keyword: keyword}, anchor)
		require.NoError(t, err)
		assert.Equal(t, span, again, "resolution must be idempotent for %s", keyword)
	}
}

func TestResolve_Today(t *testing.T) {
	span, err := utcResolver().Resolve(WindowSpec{Keyword: "today"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.June, 16, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)
}

func TestResolve_TodayAtMidnightSpansPreviousDay(t *testing.T) {
	midnight := time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC).Unix()
	span, err := utcResolver().Resolve(WindowSpec{Keyword: "today"}, midnight)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, midnight, span.Stop)
}

func TestResolve_DaysAgoIsPriorCalendarDay(t *testing.T) {
	span, err := utcResolver().Resolve(WindowSpec{Keyword: "days_ago", Ago: 1}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)
}

func TestResolve_WeekRespectsWeekStart(t *testing.T) {
	// Anchor is a Tuesday. Week starting Sunday began 2021-06-13;
	// week starting Monday began 2021-06-14.
	sundayStart := SpanResolver{WeekStart: 6, Location: time.UTC}
	span, err := sundayStart.Resolve(WindowSpec{Keyword: "week"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 13, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.June, 20, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)

	mondayStart := SpanResolver{WeekStart: 0, Location: time.UTC}
	span, err = mondayStart.Resolve(WindowSpec{Keyword: "week"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
}

func TestResolve_WeeksAgo(t *testing.T) {
	span, err := utcResolver().Resolve(WindowSpec{Keyword: "weeks_ago", Ago: 2}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.May, 30, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.June, 6, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)
}

func TestResolve_MonthAndMonthsAgo(t *testing.T) {
	r := utcResolver()
	span, err := r.Resolve(WindowSpec{Keyword: "month"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)

	span, err = r.Resolve(WindowSpec{Keyword: "months_ago", Ago: 6}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)
}

func TestResolve_YearAndYearsAgo(t *testing.T) {
	r := utcResolver()
	span, err := r.Resolve(WindowSpec{Keyword: "year"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)

	span, err = r.Resolve(WindowSpec{Keyword: "years_ago", Ago: 1}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
}

func TestResolve_SpecificSpans(t *testing.T) {
	r := utcResolver()

	span, err := r.Resolve(WindowSpec{Keyword: "day_specific", Day: 29, Month: 2, Year: 2020}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)

	span, err = r.Resolve(WindowSpec{Keyword: "month_specific", Month: 2, Year: 2020}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)

	span, err = r.Resolve(WindowSpec{Keyword: "year_specific", Year: 2019}, anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Start)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC).Unix(), span.Stop)
}

func TestResolve_AllUsesStoreRange(t *testing.T) {
	r := SpanResolver{WeekStart: 6, Location: time.UTC, StoreFirst: 1000, StoreLast: 9000}
	span, err := r.Resolve(WindowSpec{Keyword: "all"}, anchor)
	require.NoError(t, err)
	assert.Equal(t, TimeSpan{Start: 1000, Stop: 9000}, span)
}

func TestResolve_AllWithoutStoreRangeFails(t *testing.T) {
	_, err := utcResolver().Resolve(WindowSpec{Keyword: "all"}, anchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
}

func TestResolve_InvalidWeekStart(t *testing.T) {
	r := SpanResolver{WeekStart: 7, Location: time.UTC}
	_, err := r.Resolve(WindowSpec{Keyword: "today"}, anchor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}
