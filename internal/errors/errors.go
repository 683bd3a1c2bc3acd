package errors

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers translate these to HTTP statuses via
// HTTPStatus; services wrap them with context using fmt.Errorf("%w: ...").
var (
	// ErrUnauthenticated covers missing, invalid, or expired sessions.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound marks a referenced user, like, or match that is absent
	// or inactive.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate active like.
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation covers self-likes and malformed request bodies.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUpstreamFailure marks an OAuth provider error. Detail never
	// reaches clients.
	ErrUpstreamFailure = errors.New("upstream failure")
)

func Unauthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
}

func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

func InvalidOperation(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, msg)
}

func UpstreamFailure(msg string) error {
	return fmt.Errorf("%w: %s", ErrUpstreamFailure, msg)
}

func Is(err, target error) bool { return errors.Is(err, target) }
