package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPeriod indicates a non-positive trailing-window length.
	ErrInvalidPeriod = errors.New("period must be a positive number of days")
	// ErrEmptyBatch indicates a batch with nothing to persist.
	ErrEmptyBatch = errors.New("batch contains no entries")
)
