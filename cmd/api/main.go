package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sheetboard/internal/app"
	"sheetboard/internal/core/config"
	"sheetboard/internal/core/logger"
	"sheetboard/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.WarnLevel)()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	infra, err := app.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("infra open", zap.Error(err))
	}
	defer func() {
		if err := infra.Close(context.Background()); err != nil {
			log.Warn("infra close", zap.Error(err))
		}
	}()

	a, err := app.New(cfg, log, infra)
	if err != nil {
		log.Fatal("app init", zap.Error(err))
	}

	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, a.Handler(),
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("sheetboard api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.String("db", cfg.DB.Driver),
		zap.String("disk", cfg.Storage.Disk),
		zap.Bool("redis", infra.Cache != nil),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil {
			log.Fatal("sheetboard api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Shutdown(srv, log, 10*time.Second)
	log.Info("sheetboard api stopped gracefully")
}
