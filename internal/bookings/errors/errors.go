package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrLockHeld = errors.New("room advisory lock is held by another request")

	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// ErrStaleState means a guarded write matched nothing: the booking is
	// gone or its status changed since it was read. Callers re-read to
	// tell the two apart.
	ErrStaleState = errors.New("booking state changed concurrently")
)
