package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "sheetboard/internal/transport/http/response"
)

// ConcurrencyLimit holds at most max requests in the handlers at once.
// Requests past the limit are refused with 503 rather than queued.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			httpRejected.WithLabelValues("busy").Inc()
			resp.Abort(c, http.StatusServiceUnavailable, resp.MsgBusy)
			return
		}
		httpInflight.Inc()
		defer func() {
			httpInflight.Dec()
			sem.Release(1)
		}()
		c.Next()
	}
}
