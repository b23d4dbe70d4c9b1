package middleware

import (
	"time"

	"bizzops/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorHandler converts errors attached to the Gin context into the JSON
// error envelope. Stack traces are never exposed to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, body := apperror.ToResponse(err)
		if status >= 500 {
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Err(err).
				Msg("unhandled error")
		}
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(status, body)
		}
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				status, body := apperror.ToResponse(apperror.Internal(nil))
				c.AbortWithStatusJSON(status, body)
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
