package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"nft-gate.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger.
// Verification tokens travel in the path, so only the route template is logged.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
