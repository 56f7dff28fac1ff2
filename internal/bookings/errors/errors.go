package errors

import "errors"

var (
	// ErrNotFound is returned by repositories when no document matches.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID is returned for identifiers that are not valid ObjectIDs.
	ErrInvalidID = errors.New("invalid booking id")

	// ErrLockHeld is returned when another request holds the admission
	// lock for the same resource and date.
	ErrLockHeld = errors.New("admission lock already held")
)
