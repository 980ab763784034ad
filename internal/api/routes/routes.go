package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/ayuda/internal/api/handlers"
	"github.com/yoockh/ayuda/internal/api/middleware"
)

type Deps struct {
	Upload        *handlers.UploadHandler
	Summary       *handlers.SummaryHandler
	Transcription *handlers.TranscriptionHandler

	// Auth guards /api when Secret is set.
	Auth middleware.JWTConfig
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	if d.Auth.Secret != "" {
		api.Use(middleware.JWTAuth(d.Auth))
	}

	api.POST("/upload", d.Upload.Upload)

	api.POST("/summaries", d.Summary.Create)
	api.GET("/summaries", d.Summary.List)
	api.GET("/summaries/:id", d.Summary.Get)

	api.GET("/transcriptions/:id", d.Transcription.Get)
}
