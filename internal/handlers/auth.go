package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codespark/backend/internal/service/oauth"
)

// AuthHandler exposes the OAuth login endpoints. Neither is session-gated.
type AuthHandler struct {
	workflow *oauth.Workflow
	log      *slog.Logger
}

func NewAuthHandler(workflow *oauth.Workflow, log *slog.Logger) *AuthHandler {
	return &AuthHandler{workflow: workflow, log: log}
}

// LoginURL hands the frontend the provider authorize URL.
func (h *AuthHandler) LoginURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": h.workflow.LoginURL()})
}

// Redirect is the provider callback: exchanges the code, ensures the user
// exists, rotates the session, and returns the credential once.
func (h *AuthHandler) Redirect(c *gin.Context) {
	result, err := h.workflow.Run(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.log.Error("login failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
