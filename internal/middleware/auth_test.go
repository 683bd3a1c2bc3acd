package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/middleware"
)

type fakeAuth struct {
	err          error
	gotUsername  string
	gotSessionID string
}

func (f *fakeAuth) Authenticate(_ context.Context, username, credential string) error {
	f.gotUsername = username
	f.gotSessionID = credential
	return f.err
}

func newAuthedRouter(auth middleware.Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.SessionAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(middleware.UsernameKey)})
	})
	return r
}

func TestSessionAuthPassesUsernameThrough(t *testing.T) {
	auth := &fakeAuth{}
	r := newAuthedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.HeaderUsername, "dev1")
	req.Header.Set(middleware.HeaderSessionID, "cred-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"dev1"`)
	assert.Equal(t, "dev1", auth.gotUsername)
	assert.Equal(t, "cred-123", auth.gotSessionID)
}

func TestSessionAuthRejectsInvalidSession(t *testing.T) {
	auth := &fakeAuth{err: apperr.Unauthenticated("session expired")}
	r := newAuthedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.HeaderUsername, "dev1")
	req.Header.Set(middleware.HeaderSessionID, "stale")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "session expired")
}

func TestSessionAuthRejectsMissingHeaders(t *testing.T) {
	auth := &fakeAuth{err: apperr.Unauthenticated("missing credentials")}
	r := newAuthedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, auth.gotUsername)
	assert.Empty(t, auth.gotSessionID)
}
