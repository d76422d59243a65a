package domain

import "errors"

var (
	// ErrConfig marks a malformed or incomplete chart definition.
	// Fatal to the whole compilation pass.
	ErrConfig = errors.New("chart configuration error")

	// ErrStore marks an observation store access failure. Partial chart
	// output is unsafe, so the whole pass aborts and previously published
	// documents stay untouched.
	ErrStore = errors.New("observation store error")

	// ErrUnconvertible marks a unit conversion failure for one series,
	// usually a source/target schema mismatch. Recoverable: the series
	// is skipped and the pass continues.
	ErrUnconvertible = errors.New("unconvertible unit")
)
