package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mockllm/mockllm/internal/config"
	"github.com/mockllm/mockllm/internal/logger"
	"github.com/mockllm/mockllm/internal/resolve"
)

// NewRouter wires the provider endpoints onto a gin engine with logging
// and recovery middleware.
func NewRouter(store *config.Store, resolver resolve.Resolver) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	h := &Handler{store: store, resolver: resolver}
	r.POST("/v1/chat/completions", h.ChatCompletions)
	r.POST("/v1/messages", h.Messages)
	r.GET("/healthz", h.Health)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
