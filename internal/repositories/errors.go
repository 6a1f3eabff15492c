package repositories

import "errors"

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound is returned when no order matches a lookup.
	ErrOrderNotFound = errors.New("order not found")
)
