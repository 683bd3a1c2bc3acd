package errors

import (
	"context"
	"errors"
	"net/http"
)

// HTTPStatus converts a domain or infra error into the HTTP status code the
// surface should respond with. Keeps handlers clean by centralizing mapping.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrConflict):
		return http.StatusConflict

	case errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest

	case errors.Is(err, ErrUpstreamFailure):
		return http.StatusBadGateway

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Upstream provider
// detail is replaced with a generic indicator; everything else surfaces the
// taxonomy name only.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "invalid or expired session"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrConflict):
		return "already exists"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid request"
	case errors.Is(err, ErrUpstreamFailure):
		return "login failed"
	default:
		return "internal error"
	}
}
