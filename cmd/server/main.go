package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/tool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(cfg.DB)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	defer db.Close()

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logging.Info().Msg("redis unavailable: response cache off, rate limiting in process")
	} else {
		defer rdb.Close()
	}

	var hooks []service.MutationHook
	if inv := middleware.NewCacheInvalidator(cacheCfg, rdb); inv != nil {
		hooks = append(hooks, inv)
	}
	if cfg.EventsEnabled && cfg.RabbitMQURL != "" {
		hooks = append(hooks, queue.NewPublisher(queue.AMQPSender{URL: cfg.RabbitMQURL}))
		go func() {
			if err := queue.StartAuditConsumer(ctx, cfg.RabbitMQURL, queue.DefaultAuditLog); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("audit consumer stopped")
			}
		}()
	}

	store := service.NewMovieStore(repository.NewMovieRepo(db, dialect), hooks...)
	if err := store.Init(ctx); err != nil {
		logging.Fatal().Err(err).Msg("ensure schema")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())

	deps := router.Deps{
		Cfg:       cfg,
		RateLimit: rlCfg,
		Cache:     cacheCfg,
		Redis:     rdb,
		Tools:     tool.NewCatalog(store),
		Health:    handler.NewHealthHandler(db),
	}
	router.RegisterRoutes(e, deps)
	router.RegisterAuth(e, deps)
	router.RegisterTools(e, deps)

	if !cfg.AuthEnabled() {
		logging.Warn().Msg("JWT_SECRET not set: mutating tools are unauthenticated")
	}

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Str("driver", dialect.Name).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
	logging.Info().Msg("stopped")
}
