package core

import "errors"

var (
	// ErrDataUnavailable means the transaction source is missing or unreadable.
	ErrDataUnavailable = errors.New("transaction data unavailable")

	// ErrSchemaMismatch means a required column is absent from the source.
	ErrSchemaMismatch = errors.New("source schema mismatch")

	// ErrNoData means a filter combination matched no rows (or only zero
	// amounts). It is a valid terminal state, not a failure: the caller
	// should render a placeholder instead of an empty chart.
	ErrNoData = errors.New("no data for the selected filters")
)
