package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "sheetboard/internal/transport/http/response"
)

// RateLimit is a process-wide token bucket in front of everything else.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		httpRejected.WithLabelValues("global_rate").Inc()
		resp.Abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
	}
}

// Window decides whether one more request from caller fits its current window.
type Window interface {
	Allow(ctx context.Context, caller string) bool
}

// RateLimitPerIP applies w to the client address.
func RateLimitPerIP(w Window) gin.HandlerFunc {
	return func(c *gin.Context) {
		if w.Allow(c.Request.Context(), c.ClientIP()) {
			c.Next()
			return
		}
		httpRejected.WithLabelValues("ip_rate").Inc()
		resp.Abort(c, http.StatusTooManyRequests, resp.MsgTooMany)
	}
}

type bucket struct {
	count int
	reset time.Time
}

// MemoryWindow is the single-process fixed window used when Redis is not configured.
type MemoryWindow struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	buckets   map[string]*bucket
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryWindow(max int, window time.Duration) *MemoryWindow {
	return &MemoryWindow{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *MemoryWindow) Allow(_ context.Context, caller string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.After(m.nextSweep) {
		for k, b := range m.buckets {
			if !now.Before(b.reset) {
				delete(m.buckets, k)
			}
		}
		m.nextSweep = now.Add(m.window)
	}

	b, ok := m.buckets[caller]
	if !ok || !now.Before(b.reset) {
		b = &bucket{reset: now.Add(m.window)}
		m.buckets[caller] = b
	}
	b.count++
	return b.count <= m.max
}
