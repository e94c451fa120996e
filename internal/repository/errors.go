package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a write collides with an existing id or
	// unique field. The backing store's own uniqueness constraint is the
	// final arbiter for racing creates.
	ErrDuplicate = errors.New("repository: duplicate")
)
