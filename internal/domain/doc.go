// Package domain models the chart compilation pass: time windows, spans,
// and the data points that end up in the published chart-group documents.
//
// # Time Windows
//
// Every chart resolves exactly one half-open span [start, stop) of epoch
// seconds before any data is fetched. The window comes from the chart
// definition's time_length key and is one of:
//
//	today | week | month | year
//	  The calendar period containing the generation anchor, in the
//	  station's local calendar. Weeks respect the configurable week-start
//	  day (0 = Monday ... 6 = Sunday, matching the station configuration).
//
//	days_ago | weeks_ago | months_ago | years_ago
//	  The same calendar periods shifted back by the time_ago offset.
//
//	day_specific | month_specific | year_specific
//	  An explicit calendar day, month, or year. Unset fields default to
//	  day 1, month 8, year 2019 so a partially specified date never
//	  produces an invalid anchor.
//
//	all
//	  The entire observation store range, supplied by the caller.
//
//	<integer>
//	  A rolling window of that many seconds ending at the anchor.
//
// An unrecognized specifier is a configuration error, never a silent
// fallback.
//
// # Point Alignment
//
// Aggregated points carry both the start and stop timestamp of their
// bucket. Floating windows (today and rolling-seconds) publish the stop
// timestamp so the tooltip never shows the next bucket's first minute;
// fixed calendar windows publish the start timestamp so the last bucket
// never shows the next day's label.
//
// # Data Points
//
// A published point is a [timestampMillis, value] pair. A nil value means
// "no observation at this instant" and survives conversion, rounding, and
// mirroring untouched; only the rain counter treats missing samples as
// zero, because a missed bucket tip is genuinely zero rainfall.
package domain
