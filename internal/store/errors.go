package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnavailable indicates a connectivity or timeout failure talking to
	// the database, as opposed to a clean "no such row" result.
	ErrUnavailable = errors.New("store unavailable")

	// ErrUsernameConflict is returned when a username already exists
	ErrUsernameConflict = errors.New("username already exists")
)
