package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/pkg/logger"
)

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("clientIP", c.ClientIP()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
