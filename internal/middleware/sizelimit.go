package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const DefaultMaxBodySize int64 = 1 << 20

// SizeLimit rejects bodies larger than maxBytes and caps reads for chunked uploads.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Status:  "error",
				Code:    "body_too_large",
				Message: fmt.Sprintf("request body exceeds %d bytes", maxBytes),
				TraceID: RequestIDFrom(c),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
