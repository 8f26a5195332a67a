package routes

import (
	"github.com/gin-gonic/gin"
	"lyriq/internal/api/v1/handlers"
)

// RegisterRoutes registers the page and the interaction endpoint.
func RegisterRoutes(router gin.IRouter, lyricsHandler *handlers.LyricsHandler) {
	router.GET("/", lyricsHandler.Page)
	router.POST("/transcribe", lyricsHandler.Transcribe)
}
