package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "sheetboard/internal/transport/http/response"
)

// Timeout puts a deadline on the request context. Store and blob calls inherit it;
// a handler that gives up on the deadline without writing gets a 504.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		httpRejected.WithLabelValues("timeout").Inc()
		if !c.Writer.Written() {
			resp.Abort(c, http.StatusGatewayTimeout, resp.MsgTimeout)
		}
	}
}
