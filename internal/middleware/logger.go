package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logger returns a middleware that logs HTTP requests. Bodies are never logged since
// they carry patient data.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}

		logger := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent())

		if sess := GetSession(c); sess.User != nil {
			logger = logger.Str("user_id", sess.User.ID.String())
			if sess.User.Clinic != nil {
				logger = logger.Str("clinic_id", sess.User.Clinic.ID.String())
			}
		}

		// Log based on status code
		logEvent := logger.Logger()
		switch {
		case statusCode >= 500:
			logEvent.Error().Msg("Server error")
		case statusCode >= 400:
			logEvent.Warn().Msg("Client error")
		default:
			logEvent.Info().Msg("Request processed")
		}
	}
}
