package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

// Recovery turns a handler panic into the internal error envelope. The panic
// value is attached to the context errors so the access log and metrics still
// see a failed request.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Client went away mid-response; let net/http handle it.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			err = fmt.Errorf("panic: %w", err)

			event := log.Error().
				Err(err).
				Str("stack", string(debug.Stack())).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("request_id", RequestIDFrom(c))
			if sess := GetSession(c); sess.User != nil {
				event = event.Str("user_id", sess.User.ID.String())
			}
			event.Msg("Request panic recovered")

			_ = c.Error(apperrors.Internal(err))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Status:  "error",
				Code:    errorCodes[apperrors.ErrInternal],
				Message: "Internal server error",
				TraceID: RequestIDFrom(c),
			})
		}()
		c.Next()
	}
}
