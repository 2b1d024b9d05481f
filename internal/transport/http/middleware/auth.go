package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sheetboard/internal/domain"
	"sheetboard/internal/transport/http/ez"
	resp "sheetboard/internal/transport/http/response"
)

const (
	KeyUser   = "user"
	KeyUserID = "userId"
)

// Resolver turns a bearer token into a live user record.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// Authenticate re-reads the caller on every request and stores it under KeyUser.
func Authenticate(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "No token provided")
			return
		}
		u, err := r.Resolve(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			ez.Fail(c, err)
			return
		}
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			resp.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user Authenticate attached, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
