package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup or mutation targets a row
	// that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when creating a user whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)
