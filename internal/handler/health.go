// Package handler holds the HTTP handlers of the catalog server.
package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Health pings the store.  It answers 200 {"status":"ok"} or 503.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "error": "store unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
