package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Name      string
	Mode      string // app env: production | test | anything else is debug
	ClientURL string // allowed CORS origin
}

// NewRouter returns a bare engine with CORS configured; callers add their own chain.
func NewRouter(o Options) *gin.Engine {
	switch o.Mode {
	case "production", "prod":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
	r := gin.New()
	r.Use(cors.New(corsConfig(o.ClientURL)))
	return r
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if origin == "" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = []string{origin}
	cfg.AllowCredentials = true
	return cfg
}

// StartHTTP blocks until the server stops. A graceful Shutdown is not reported as an error.
func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func Shutdown(srv *http.Server, l *zap.Logger, grace time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("http shutdown", zap.Error(err))
		return
	}
	l.Info("http stopped")
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
