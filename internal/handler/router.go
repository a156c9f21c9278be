package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kesona/askhub/internal/middleware"
)

type RouterDeps struct {
	Ask             *AskHandler
	Documents       *DocumentHandler
	Logs            *LogHandler
	UploadRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/ask", deps.Ask.Ask)
	api.POST("/documents/upload", middleware.RateLimit(deps.UploadRateLimit), deps.Documents.Upload)
	api.POST("/documents/query", deps.Documents.Query)
	api.GET("/logs", deps.Logs.Tail)
	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
