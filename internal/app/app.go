// Package app wires configuration, stores and services into a runnable API.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sheetboard/internal/core/auth"
	"sheetboard/internal/core/cache"
	"sheetboard/internal/core/config"
	"sheetboard/internal/core/logger"
	"sheetboard/internal/core/storage"
	"sheetboard/internal/repo"
	"sheetboard/internal/service"
	"sheetboard/internal/transport/http/handler"
	mdw "sheetboard/internal/transport/http/middleware"
	"sheetboard/internal/transport/http/router"
)

var ErrNoJWTSecret = errors.New("jwt.secret (JWT_SECRET) is required")

// Infra is everything App needs from the outside world.
type Infra struct {
	Stores *repo.Stores
	Disk   storage.Disk
	Cache  *cache.Cache // nil without Redis
}

type App struct {
	Config *config.Config
	Log    *zap.Logger
	Infra  Infra

	Auth       *service.AuthService
	Files      *service.FileService
	Plans      *service.PlanService
	Admin      *service.AdminService
	Engagement *service.EngagementService
}

// NewLogger builds the process logger from the log section.
func NewLogger(c config.Log) (*zap.Logger, func()) {
	return logger.NewWithRotate(c.Level, c.JSON, logger.FileRotate{
		Enable:     c.File.Enable,
		Filename:   c.File.Filename,
		MaxSizeMB:  c.File.MaxSizeMB,
		MaxBackups: c.File.MaxBackups,
		MaxAgeDays: c.File.MaxAgeDays,
		Compress:   c.File.Compress,
	})
}

// Open connects the record store, blob store and optional Redis described by cfg.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Infra, error) {
	stores, err := repo.Open(ctx, cfg.DB)
	if err != nil {
		return Infra{}, err
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := stores.Migrate(ctx); err != nil {
			_ = stores.Close(ctx)
			return Infra{}, err
		}
		log.Info("automigrate done")
	}

	disk, err := storage.New(ctx, storage.Options{
		Disk:      cfg.Storage.Disk,
		LocalRoot: cfg.Storage.LocalRoot,
		S3: storage.S3Options{
			Bucket:   cfg.Storage.S3.Bucket,
			Region:   cfg.Storage.S3.Region,
			Key:      cfg.Storage.S3.Key,
			Secret:   cfg.Storage.S3.Secret,
			Endpoint: cfg.Storage.S3.Endpoint,
		},
	})
	if err != nil {
		_ = stores.Close(ctx)
		return Infra{}, err
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			_ = stores.Close(ctx)
			return Infra{}, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	return Infra{Stores: stores, Disk: disk, Cache: c}, nil
}

func (i Infra) Close(ctx context.Context) error {
	var errs []error
	if i.Cache != nil {
		errs = append(errs, i.Cache.Close())
	}
	if i.Stores != nil {
		errs = append(errs, i.Stores.Close(ctx))
	}
	return errors.Join(errs...)
}

func New(cfg *config.Config, log *zap.Logger, infra Infra) (*App, error) {
	if cfg.JWT.Secret == "" {
		return nil, ErrNoJWTSecret
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		TTL:    time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}
	s := infra.Stores
	files := service.NewFileService(s.Files, infra.Disk, log.Named("files")).WithCache(infra.Cache)
	return &App{
		Config:     cfg,
		Log:        log,
		Infra:      infra,
		Auth:       service.NewAuthService(s.Users, jwter, cfg.Auth.AdminEmail, cfg.Auth.BcryptCost, log.Named("auth")).WithCache(infra.Cache),
		Files:      files,
		Plans:      service.NewPlanService(s.Users, log.Named("plans")),
		Admin:      service.NewAdminService(s.Users, s.Files, files, infra.Cache, time.Duration(cfg.Cache.AnalyticsTTLSec)*time.Second, log.Named("admin")),
		Engagement: service.NewEngagementService(s.Subscribers, s.Testimonials, log.Named("engagement")),
	}, nil
}

// Handler builds the HTTP engine. The per-IP window lives in Redis when it is configured.
func (a *App) Handler() *gin.Engine {
	var window mdw.Window
	if a.Infra.Cache != nil {
		lim := a.Config.Limits
		window = a.Infra.Cache.FixedWindow(lim.RateLimitMax, time.Duration(lim.RateLimitWindowMin)*time.Minute)
	}
	return router.NewAPIEngine(router.Deps{
		Log:      a.Log,
		Config:   a.Config,
		Resolver: a.Auth,
		Window:   window,
		Modules: []any{
			handler.NewAuthHandler(a.Auth),
			handler.NewFileHandler(a.Files),
			handler.NewPlanHandler(a.Plans),
			handler.NewEngagementHandler(a.Engagement),
			handler.NewAdminHandler(a.Admin),
		},
	})
}
