// Package router registers the HTTP routes of the catalog server.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/tool"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// Deps are the collaborators the routes are built from.  Redis may be
// nil, which disables the response cache and moves rate limiting in
// process.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	Tools     *tool.Registry
	Health    *handler.HealthHandler
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers token issuing under /v1/auth.
func RegisterAuth(e *echo.Echo, d Deps) {
	a := handler.NewAuthHandler(d.Cfg)
	e.POST("/v1/auth/token", a.IssueToken, middleware.NewTokenBucket(d.RateLimit, d.Redis))
}

// RegisterTools registers the tool contract under /v1/tools.  Mutating
// tools are guarded by JWT auth with the EDITOR role; GET calls of
// read-only tools go through the response cache.
func RegisterTools(e *echo.Echo, d Deps) {
	h := handler.NewToolHandler(d.Tools)
	g := e.Group("/v1/tools")
	g.GET("", h.List)

	guard := middleware.GuardWrites(d.Tools, d.Cfg.JWTSecret, utils.RoleEditor)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	g.POST("/:name", h.Invoke, guard, limit)
	g.GET("/:name", h.Query, limit, middleware.NewRedisCache(d.Cache, d.Redis))
}
