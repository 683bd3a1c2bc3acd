package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/codespark/backend/internal/errors"
)

// UsernameKey is where the authenticated username lands in the gin context.
const UsernameKey = "username"

// Header names the two credentials travel in.
const (
	HeaderUsername  = "username"
	HeaderSessionID = "session_id"
)

// Authenticator validates a claimed username and presented credential.
type Authenticator interface {
	Authenticate(ctx context.Context, username, credential string) error
}

// SessionAuth gates every protected route on a valid session. Handlers
// behind it can trust UsernameKey.
func SessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader(HeaderUsername)
		credential := c.GetHeader(HeaderSessionID)

		if err := auth.Authenticate(c.Request.Context(), username, credential); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
			c.Abort()
			return
		}

		c.Set(UsernameKey, username)
		c.Next()
	}
}
