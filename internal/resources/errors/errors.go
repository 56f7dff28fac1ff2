package errors

import "errors"

var (
	// ErrNotFound is returned by repositories when no document matches.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate is returned when a resource with the same kind and
	// code already exists.
	ErrDuplicate = errors.New("resource already exists")
)
