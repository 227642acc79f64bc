package errors

import "errors"

// Domain errors
var (
	// Runner errors
	ErrZeroWorkers = errors.New("worker count must be positive")
	ErrNilTask     = errors.New("task function cannot be nil")

	// Passive vulnerability scan errors
	ErrMissingAPIKey = errors.New("host-intelligence API key required (or enable the free InternetDB mode)")
	ErrInvalidIP     = errors.New("invalid IP address")
	ErrHostNotFound  = errors.New("no information available for host")

	// Severity cache errors
	ErrNoSeverityData = errors.New("severity feed download failed and no cached copy exists")

	// Input errors
	ErrEmptyInput      = errors.New("input contains no usable rows")
	ErrMissingIPColumn = errors.New("input CSV is missing an ip column")
)
