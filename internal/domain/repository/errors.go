package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert would violate the
	// email uniqueness constraint. The constraint lives in the database;
	// application-level existence checks are not trusted under concurrency.
	ErrDuplicateEmail = errors.New("email already registered")
)
