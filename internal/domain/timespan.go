package domain

import (
	"fmt"
	"strconv"
	"time"
)

// TimeSpan is a half-open [Start, Stop) interval of epoch seconds.
type TimeSpan struct {
	Start int64
	Stop  int64
}

// Duration returns the span length in seconds.
func (s TimeSpan) Duration() int64 { return s.Stop - s.Start }

// Contains reports whether ts falls inside the span.
func (s TimeSpan) Contains(ts int64) bool { return ts >= s.Start && ts < s.Stop }

// WindowSpec is a parsed time_length specifier. Keyword is empty for
// rolling-seconds windows, in which case Seconds holds the window length.
type WindowSpec struct {
	Keyword string
	Seconds int64
	Ago     int
	Day     int
	Month   int
	Year    int
}

// Floating reports whether the window floats with the generation anchor.
// Floating windows align published points to the bucket stop timestamp.
func (w WindowSpec) Floating() bool {
	return w.Keyword == "" || w.Keyword == "today"
}

var windowKeywords = map[string]struct{}{
	"today":          {},
	"week":           {},
	"month":          {},
	"year":           {},
	"days_ago":       {},
	"weeks_ago":      {},
	"months_ago":     {},
	"years_ago":      {},
	"day_specific":   {},
	"month_specific": {},
	"year_specific":  {},
	"all":            {},
}

// ParseWindow validates a raw time_length value and builds a WindowSpec.
// Integer literals become rolling windows of that many seconds; anything
// else must be a known keyword.
func ParseWindow(raw string, ago, day, month, year int) (WindowSpec, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n <= 0 {
			return WindowSpec{}, fmt.Errorf("%w: time_length %d must be positive", ErrConfig, n)
		}
		return WindowSpec{Seconds: n}, nil
	}
	if _, ok := windowKeywords[raw]; !ok {
		return WindowSpec{}, fmt.Errorf("%w: unrecognized time_length %q", ErrConfig, raw)
	}
	return WindowSpec{Keyword: raw, Ago: ago, Day: day, Month: month, Year: year}, nil
}

// spanGrace shifts an anchor exactly on a period boundary into the
// preceding period, so a midnight anchor spans the day that just ended.
const spanGrace = 1

// SpanResolver converts window specifiers plus a generation anchor into
// concrete spans in the station's local calendar.
type SpanResolver struct {
	// WeekStart is the day weeks begin on: 0 = Monday ... 6 = Sunday.
	WeekStart int
	// Location is the station's timezone. Nil means time.Local.
	Location *time.Location
	// StoreFirst and StoreLast bound the observation store and back the
	// "all" keyword.
	StoreFirst int64
	StoreLast  int64
}

// Resolve maps a window specifier and an anchor instant to a TimeSpan.
func (r SpanResolver) Resolve(w WindowSpec, now int64) (TimeSpan, error) {
	if r.WeekStart < 0 || r.WeekStart > 6 {
		return TimeSpan{}, fmt.Errorf("%w: week_start %d out of range 0-6", ErrConfig, r.WeekStart)
	}
	loc := r.location()

	switch w.Keyword {
	case "":
		if w.Seconds <= 0 {
			return TimeSpan{}, fmt.Errorf("%w: rolling window must be positive", ErrConfig)
		}
		return TimeSpan{Start: now - w.Seconds, Stop: now}, nil
	case "today":
		return r.daySpan(now, 0), nil
	case "week":
		return r.weekSpan(now, 0), nil
	case "month":
		return r.monthSpan(now, 0), nil
	case "year":
		return r.yearSpan(now, 0), nil
	case "days_ago":
		return r.daySpan(now, w.Ago), nil
	case "weeks_ago":
		return r.weekSpan(now, w.Ago), nil
	case "months_ago":
		return r.monthSpan(now, w.Ago), nil
	case "years_ago":
		return r.yearSpan(now, w.Ago), nil
	case "day_specific":
		// Anchor mid-afternoon inside the requested day so the grace
		// shift cannot slide into the previous day.
		anchor := time.Date(w.Year, time.Month(w.Month), w.Day, 13, 0, 0, 0, loc)
		return r.daySpan(anchor.Unix(), 0), nil
	case "month_specific":
		anchor := time.Date(w.Year, time.Month(w.Month), 5, 0, 0, 0, 0, loc)
		return r.monthSpan(anchor.Unix(), 0), nil
	case "year_specific":
		anchor := time.Date(w.Year, time.August, 1, 0, 0, 0, 0, loc)
		return r.yearSpan(anchor.Unix(), 0), nil
	case "all":
		if r.StoreLast <= r.StoreFirst {
			return TimeSpan{}, fmt.Errorf("%w: store range unavailable for time_length \"all\"", ErrStore)
		}
		return TimeSpan{Start: r.StoreFirst, Stop: r.StoreLast}, nil
	default:
		return TimeSpan{}, fmt.Errorf("%w: unrecognized time_length %q", ErrConfig, w.Keyword)
	}
}

func (r SpanResolver) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

func (r SpanResolver) daySpan(ts int64, daysAgo int) TimeSpan {
	loc := r.location()
	t := time.Unix(ts-spanGrace, 0).In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -daysAgo)
	return TimeSpan{Start: start.Unix(), Stop: start.AddDate(0, 0, 1).Unix()}
}

func (r SpanResolver) weekSpan(ts int64, weeksAgo int) TimeSpan {
	loc := r.location()
	t := time.Unix(ts-spanGrace, 0).In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	// Go weekday: Sunday=0. Shift to the Monday=0 convention used by
	// the week_start setting.
	weekday := (int(t.Weekday()) + 6) % 7
	offset := (weekday - r.WeekStart + 7) % 7
	start := midnight.AddDate(0, 0, -offset-7*weeksAgo)
	return TimeSpan{Start: start.Unix(), Stop: start.AddDate(0, 0, 7).Unix()}
}

func (r SpanResolver) monthSpan(ts int64, monthsAgo int) TimeSpan {
	loc := r.location()
	t := time.Unix(ts-spanGrace, 0).In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -monthsAgo, 0)
	return TimeSpan{Start: start.Unix(), Stop: start.AddDate(0, 1, 0).Unix()}
}

func (r SpanResolver) yearSpan(ts int64, yearsAgo int) TimeSpan {
	loc := r.location()
	t := time.Unix(ts-spanGrace, 0).In(loc)
	start := time.Date(t.Year()-yearsAgo, time.January, 1, 0, 0, 0, 0, loc)
	return TimeSpan{Start: start.Unix(), Stop: start.AddDate(1, 0, 0).Unix()}
}
