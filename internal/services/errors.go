package services

import (
	"errors"
	"fmt"
	"strings"

	"flipsip/internal/repositories"
)

var (
	// ErrNoSession means the caller is not authenticated. It is a result,
	// not a failure: read endpoints degrade instead of erroring.
	ErrNoSession = errors.New("no session")
	// ErrUserNotFound means the session names a user that does not exist.
	ErrUserNotFound = repositories.ErrUserNotFound
	// ErrOrderNotFound means no order has the requested ID.
	ErrOrderNotFound = repositories.ErrOrderNotFound

	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidFields      = errors.New("invalid fields")
	ErrPhoneUpdateInvalid = errors.New("email and phone are required")
	ErrInvalidStatus      = errors.New("invalid order status")
)

// ValidationError describes why an order field bag was rejected. It matches
// ErrMissingFields and/or ErrInvalidFields with errors.Is.
type ValidationError struct {
	Missing []string          // JSON names of empty required fields
	Invalid map[string]string // JSON name -> reason
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%v: %s", ErrMissingFields, strings.Join(e.Missing, ", ")))
	}
	for field, reason := range e.Invalid {
		parts = append(parts, fmt.Sprintf("%s %s", field, reason))
	}
	return strings.Join(parts, "; ")
}

// Is reports whether target is one of the sentinel validation errors this
// error carries.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingFields:
		return len(e.Missing) > 0
	case ErrInvalidFields:
		return len(e.Invalid) > 0
	}
	return false
}

// Fields returns every rejected field name, missing ones first.
func (e *ValidationError) Fields() []string {
	fields := append([]string(nil), e.Missing...)
	for field := range e.Invalid {
		fields = append(fields, field)
	}
	return fields
}
