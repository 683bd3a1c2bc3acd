package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codespark/backend/internal/middleware"
	"github.com/codespark/backend/internal/service/relationship"
)

// RelationshipHandler exposes the engine's mutations and read projections.
// Every route assumes the session middleware already ran.
type RelationshipHandler struct {
	engine *relationship.Service
	log    *slog.Logger
}

func NewRelationshipHandler(engine *relationship.Service, log *slog.Logger) *RelationshipHandler {
	return &RelationshipHandler{engine: engine, log: log}
}

func subject(c *gin.Context) string {
	return c.GetString(middleware.UsernameKey)
}

// Like records actor -> target; 201 with {"matched": true} when the
// reciprocal like promoted the pair to a match.
func (h *RelationshipHandler) Like(c *gin.Context) {
	actor, target := subject(c), c.Param("username")

	result, err := h.engine.Like(c.Request.Context(), actor, target)
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Debug("like recorded", "actor", actor, "target", target, "matched", result.Matched)
	c.JSON(http.StatusCreated, result)
}

// Dislike records actor -> target; always succeeds for valid users.
func (h *RelationshipHandler) Dislike(c *gin.Context) {
	actor, target := subject(c), c.Param("username")

	if err := h.engine.Dislike(c.Request.Context(), actor, target); err != nil {
		respondError(c, err)
		return
	}

	h.log.Debug("dislike recorded", "actor", actor, "target", target)
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

// Unmatch deactivates the active match with the target.
func (h *RelationshipHandler) Unmatch(c *gin.Context) {
	actor, target := subject(c), c.Param("username")

	if err := h.engine.Unmatch(c.Request.Context(), actor, target); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Likes returns the subject's partitioned like lists.
func (h *RelationshipHandler) Likes(c *gin.Context) {
	view, err := h.engine.GetLikes(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Dislikes returns the same partition over dislike records.
func (h *RelationshipHandler) Dislikes(c *gin.Context) {
	view, err := h.engine.GetDislikes(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Matches returns the counterparts of the subject's active matches.
func (h *RelationshipHandler) Matches(c *gin.Context) {
	view, err := h.engine.GetMatches(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Discover returns the ranked candidate feed.
func (h *RelationshipHandler) Discover(c *gin.Context) {
	feed, err := h.engine.Discover(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": feed})
}

// LikeCount returns how many users actively like the subject.
func (h *RelationshipHandler) LikeCount(c *gin.Context) {
	count, err := h.engine.CountLikers(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
