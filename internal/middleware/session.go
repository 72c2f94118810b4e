package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ryanolv/doctor-agenda/internal/model"
)

const ContextSession = "session"

// SessionResolver is implemented by identity.Resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, authorization string) (*model.Session, error)
}

// Session resolves the caller's identity for every request. Anonymous callers get an
// empty session; services decide whether that is acceptable.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			log.Error().
				Err(err).
				Str("request_id", RequestIDFrom(c)).
				Msg("Failed to resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Status:  "error",
				Code:    "internal",
				Message: "Internal server error",
				TraceID: RequestIDFrom(c),
			})
			return
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// GetSession returns the request's session, or an anonymous one.
func GetSession(c *gin.Context) *model.Session {
	if v, ok := c.Get(ContextSession); ok {
		if sess, ok := v.(*model.Session); ok {
			return sess
		}
	}
	return &model.Session{}
}
