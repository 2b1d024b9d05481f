package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sheetboard/internal/core/config"
	"sheetboard/internal/core/server"
	mdw "sheetboard/internal/transport/http/middleware"
	resp "sheetboard/internal/transport/http/response"
)

type Deps struct {
	Log      *zap.Logger
	Config   *config.Config
	Resolver mdw.Resolver
	// Window is the per-IP fixed window; nil builds an in-memory one from Config.Limits.
	Window  mdw.Window
	Modules []any
}

func NewAPIEngine(d Deps) *gin.Engine {
	app, lim := d.Config.App, d.Config.Limits

	r := server.NewRouter(server.Options{Name: app.Name, Mode: app.Env, ClientURL: app.ClientURL})
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(d.Log),
		mdw.Metrics(),
		mdw.Recovery(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", mdw.MetricsHandler())
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "") })

	window := d.Window
	if window == nil {
		window = mdw.NewMemoryWindow(lim.RateLimitMax, time.Duration(lim.RateLimitWindowMin)*time.Minute)
	}
	rps := rate.Limit(lim.GlobalRPS)
	if lim.GlobalRPS <= 0 {
		rps = rate.Inf
	}

	chain := []gin.HandlerFunc{
		mdw.RateLimit(rps, lim.GlobalBurst),
		mdw.RateLimitPerIP(window),
		mdw.ConcurrencyLimit(max(lim.MaxConcurrent, 1)),
		mdw.BodyLimit(lim.JSONMaxMB<<20, lim.UploadMaxMB<<20),
	}
	if app.HTTP.RequestTimeoutSec > 0 {
		chain = append(chain, mdw.Timeout(time.Duration(app.HTTP.RequestTimeoutSec)*time.Second))
	}
	api := r.Group("/api", chain...)
	authed := api.Group("", mdw.Authenticate(d.Resolver))
	admin := authed.Group("/admin", mdw.RequireAdmin())

	var reg Registry
	reg.Register(d.Modules...)
	reg.Mount(api, authed, admin)
	return r
}
