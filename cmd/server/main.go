package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/retailhq/sales-insights/internal/api"
	"github.com/retailhq/sales-insights/internal/core/service"
	"github.com/retailhq/sales-insights/internal/infrastructure/config"
	"github.com/retailhq/sales-insights/internal/infrastructure/db/redis"
	"github.com/retailhq/sales-insights/internal/infrastructure/db/sqlite"
	"github.com/retailhq/sales-insights/pkg/logger"
)

// @title           Retail Sales Insights API
// @version         1.0
// @description     Authenticated CSV upload, sales reporting, feedback, revenue predictions, and a sales assistant chatbot.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := sqlite.Connect(sqlite.Config{Path: cfg.SQLite.Path})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("failed to open sales database")
	}

	// Redis is optional: without it reports are simply recomputed every time.
	var (
		rdb   *goredis.Client
		cache service.ReportCache
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(context.Background(), redis.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, report cache disabled")
			rdb = nil
		} else {
			cache = redis.NewReportCache(rdb, cfg.Redis.TTL)
		}
	}

	e := api.NewRouter(db, rdb, cache, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
