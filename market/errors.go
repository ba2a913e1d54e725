package market

import "errors"

var (
	// ErrNotFound is returned when a symbol is not in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for bad input, including a metric
	// whose divisor would be zero.
	ErrInvalidArgument = errors.New("invalid argument")
)
