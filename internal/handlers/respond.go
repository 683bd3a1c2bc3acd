package handlers

import (
	"github.com/gin-gonic/gin"

	apperr "github.com/codespark/backend/internal/errors"
)

// respondError maps a domain error onto the wire. Clients get the taxonomy
// message only; the underlying detail stays in logs.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
