package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/codespark/backend/internal/errors"
	"github.com/codespark/backend/internal/pictures"
	"github.com/codespark/backend/internal/repository"
	"github.com/codespark/backend/internal/service/relationship"
)

// ProfileHandler exposes profile reads/updates and picture storage.
type ProfileHandler struct {
	engine *relationship.Service
	users  *repository.UserRepository
	pics   *pictures.Service
	log    *slog.Logger
}

func NewProfileHandler(engine *relationship.Service, users *repository.UserRepository, pics *pictures.Service, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{engine: engine, users: users, pics: pics, log: log}
}

// Get returns the subject's own full profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.engine.GetProfile(c.Request.Context(), subject(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update overwrites the editable profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	var fields repository.ProfileFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, apperr.InvalidOperation("malformed profile body"))
		return
	}

	profile, err := h.engine.UpdateProfile(c.Request.Context(), subject(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type uploadPictureRequest struct {
	Picture string `json:"picture" binding:"required"`
}

// UploadPicture decodes a base64 upload, stores it, and points the user
// document at the new filename.
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	var req uploadPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidOperation("malformed picture body"))
		return
	}

	filename, err := h.pics.Save(req.Picture)
	if err != nil {
		respondError(c, err)
		return
	}

	username := subject(c)
	if err := h.users.SetProfilePicture(c.Request.Context(), username, filename); err != nil {
		respondError(c, err)
		return
	}

	h.log.Info("profile picture updated", "user", username, "file", filename)
	c.JSON(http.StatusCreated, gin.H{"profile_picture": filename})
}

// GetPicture streams a stored picture back by filename. Public: profile
// pictures render on discovery cards before any session exists. The content
// type comes from sniffing the stored bytes, not from the extension.
func (h *ProfileHandler) GetPicture(c *gin.Context) {
	f, err := h.pics.Open(c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", http.DetectContentType(head[:n]))
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(head[:n])
	_, _ = io.Copy(c.Writer, f)
}
