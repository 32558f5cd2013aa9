package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-tracker/backend/pkg/response"
)

// BodyLimit caps the request body at maxBytes. Upload groups get their own,
// larger limit; the innermost reader wins.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(err.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large")
				return
			}
		}
	}
}
