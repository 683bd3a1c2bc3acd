package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codespark/backend/internal/config"
	"github.com/codespark/backend/internal/handlers"
	"github.com/codespark/backend/internal/middleware"
)

// NewRouter wires all routes onto a gin engine. The two credentials travel
// as request headers; everything except health, login, and picture
// retrieval sits behind the session gate.
func NewRouter(
	auth middleware.Authenticator,
	authH *handlers.AuthHandler,
	profileH *handlers.ProfileHandler,
	relH *handlers.RelationshipHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})

	api.GET("/login/github", authH.LoginURL)
	api.GET("/oauth/github/redirect", authH.Redirect)
	api.GET("/pictures/:filename", profileH.GetPicture)

	protected := api.Group("")
	protected.Use(middleware.SessionAuth(auth))
	{
		protected.GET("/profile", profileH.Get)
		protected.PUT("/profile", profileH.Update)
		protected.POST("/profile/picture", profileH.UploadPicture)

		protected.GET("/likes", relH.Likes)
		protected.GET("/likes/count", relH.LikeCount)
		protected.GET("/dislikes", relH.Dislikes)
		protected.GET("/matches", relH.Matches)
		protected.GET("/discover", relH.Discover)

		protected.POST("/likes/:username", relH.Like)
		protected.POST("/dislikes/:username", relH.Dislike)
		protected.DELETE("/matches/:username", relH.Unmatch)
	}

	return r
}

// Start boots the HTTP server on the configured address.
func Start(cfg *config.Config, router *gin.Engine) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}
