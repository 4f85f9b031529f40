// Package middleware holds the echo middleware of the catalog server:
// bearer auth for mutating tools, rate limiting, the read-tool response
// cache and request logging.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/tool"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates a Bearer access token and stores its subject and role
// in the echo context under "user_id" and "role".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return deny(c, http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}
			c.Set(ctxUserID, claims.Subject)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// userID returns the authenticated subject, or "anon".
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// deny writes a failure envelope for a request rejected before it
// reached a tool.  Transport rejections carry no error kind.
func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, tool.Envelope{Error: msg})
}
