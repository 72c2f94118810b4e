package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

var errorCodes = map[apperrors.ErrorCode]string{
	apperrors.ErrNotFound:       "not_found",
	apperrors.ErrBadRequest:     "bad_request",
	apperrors.ErrUnauthorized:   "unauthorized",
	apperrors.ErrForbidden:      "forbidden",
	apperrors.ErrInternal:       "internal",
	apperrors.ErrClinicNotFound: "clinic_not_found",
	apperrors.ErrValidation:     "validation_failed",
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only handle errors if they exist
		if len(c.Errors) == 0 {
			return
		}

		traceID := RequestIDFrom(c)
		lastErr := c.Errors.Last().Err

		resp := ErrorResponse{
			Status:  "error",
			Code:    errorCodes[apperrors.ErrInternal],
			Message: "Internal server error",
			TraceID: traceID,
		}
		status := http.StatusInternalServerError

		if appErr, ok := apperrors.As(lastErr); ok {
			status = appErr.StatusCode()
			resp.Code = errorCodes[appErr.Code]
			if status < http.StatusInternalServerError {
				resp.Message = appErr.Message
				resp.Fields = appErr.Fields
			}
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(lastErr).
			Str("trace_id", traceID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, resp)
	}
}
