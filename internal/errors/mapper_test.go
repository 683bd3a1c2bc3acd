package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Unauthenticated("no session"), http.StatusUnauthorized},
		{NotFound("user gone"), http.StatusNotFound},
		{Conflict("duplicate like"), http.StatusConflict},
		{InvalidOperation("self like"), http.StatusBadRequest},
		{UpstreamFailure("github 500"), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestMessageHidesUpstreamDetail(t *testing.T) {
	err := UpstreamFailure("github said: secret internal detail")
	assert.Equal(t, "login failed", Message(err))
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	err := fmt.Errorf("like alice->bob: %w", Conflict("active like exists"))
	assert.True(t, Is(err, ErrConflict))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}
