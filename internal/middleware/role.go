package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/tool"
)

// RequireRole aborts with 403 unless JWTAuth stored one of roles in the
// context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(string)
			if !ok || !allowed[role] {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// GuardWrites applies auth to calls of mutating tools.  The tool is read
// from the ":name" route parameter; read-only and unknown tools pass
// through and unknown names are rejected by the registry itself.  With
// an empty secret the guard is disabled.
func GuardWrites(reg *tool.Registry, secret string, roles ...string) echo.MiddlewareFunc {
	if secret == "" {
		return passThrough
	}
	auth := JWTAuth(secret)
	role := RequireRole(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := auth(role(next))
		return func(c echo.Context) error {
			t, ok := reg.Lookup(c.Param("name"))
			if !ok || t.ReadOnly {
				return next(c)
			}
			return guarded(c)
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
