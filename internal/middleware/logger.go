package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/logging"
)

// RequestLogger assigns a request id (reusing X-Request-ID when the
// client sent one) and logs one line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			ev := logging.Info()
			switch {
			case status >= 500:
				ev = logging.Error()
			case status >= 400:
				ev = logging.Warn()
			}
			ev.Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("tool", c.Param("name")).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
