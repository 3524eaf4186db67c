package errors

import "errors"

var (
	ErrNotFound = errors.New("feedback not found")

	// ErrNotOpen covers both a missing document and one already closed;
	// the service disambiguates by re-reading.
	ErrNotOpen = errors.New("feedback is not open")
)
