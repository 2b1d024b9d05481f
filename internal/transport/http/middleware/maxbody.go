package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps the request body. Reads past n fail with *http.MaxBytesError,
// which the action adapter reports.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// BodyLimit applies the multipart ceiling to uploads and the JSON ceiling to everything else.
// A ceiling of zero disables the check.
func BodyLimit(jsonMax, multipartMax int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := jsonMax
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			n = multipartMax
		}
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
