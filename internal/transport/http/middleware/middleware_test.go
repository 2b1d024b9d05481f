package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver map[string]*domain.User

func (s stubResolver) Resolve(_ context.Context, token string) (*domain.User, error) {
	u, ok := s[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	if u.Blocked {
		return nil, apperr.Forbidden("Account is blocked")
	}
	return u, nil
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authEngine() *gin.Engine {
	res := stubResolver{
		"u": {ID: "u1", Role: domain.RoleUser},
		"a": {ID: "a1", Role: domain.RoleAdmin},
		"b": {ID: "b1", Role: domain.RoleUser, Blocked: true},
	}
	r := gin.New()
	authed := r.Group("", Authenticate(res))
	authed.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyUserID)) })
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).ID) })
	return r
}

func TestAuthenticate(t *testing.T) {
	r := authEngine()

	w := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/me", "nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/me", "b")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/me", "u")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAuthenticateRejectsOtherSchemes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dTpw")
	w := httptest.NewRecorder()
	authEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := authEngine()

	w := serve(r, http.MethodGet, "/admin", "u")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Admin access required"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/admin", "a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", w.Body.String())
}

func TestMemoryWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryWindow(2, time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, m.Allow(ctx, "1.1.1.1"))
	assert.True(t, m.Allow(ctx, "1.1.1.1"))
	assert.False(t, m.Allow(ctx, "1.1.1.1"))
	assert.True(t, m.Allow(ctx, "2.2.2.2"))

	now = now.Add(time.Minute)
	assert.True(t, m.Allow(ctx, "1.1.1.1"), "window resets")
	assert.Len(t, m.buckets, 1, "expired buckets are swept")
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(NewMemoryWindow(1, time.Hour)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/", "").Code)
	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests from this IP")
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8, 64))
	r.POST("/", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"k":"a longer value"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConcurrencyLimit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	done := make(chan int)
	go func() { done <- serve(r, http.MethodGet, "/slow", "").Code }()
	<-entered

	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/fast", "").Code)
	close(release)
	require.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", "").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "bad id\nwith newline")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}
