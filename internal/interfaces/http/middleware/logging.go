package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// Logger writes one line per request at a level matching the status code.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if requestID := c.GetString(requestIDKey); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if actor, ok := GetActor(c); ok {
			args = append(args, "actor", actor.Kind, "user_id", actor.UserID)
			if actor.IsClient() {
				args = append(args, "client_access_id", actor.ClientAccessID)
			}
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Errorw("HTTP request completed with server error", args...)
		case status >= 400:
			log.Warnw("HTTP request completed with client error", args...)
		default:
			log.Debugw("HTTP request completed", args...)
		}
	}
}
