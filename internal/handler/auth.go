package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/tool"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// AuthHandler issues access tokens for the catalog editor.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler { return &AuthHandler{Cfg: cfg} }

type tokenReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// IssueToken checks the editor credentials against ADMIN_USER and the
// bcrypt ADMIN_PASSWORD_HASH and returns an EDITOR access token.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	if !h.Cfg.AuthEnabled() || h.Cfg.AdminPasswordHash == "" {
		return c.JSON(http.StatusNotFound, tool.Envelope{Error: "token issuing is not configured"})
	}
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, tool.Envelope{Error: "invalid body"})
	}
	user := strings.TrimSpace(req.Username)
	if user == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, tool.Envelope{Error: "username/password required"})
	}
	if user != h.Cfg.AdminUser || !utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password) {
		logging.Warn().Str("username", user).Str("ip", c.RealIP()).Msg("rejected token request")
		return c.JSON(http.StatusUnauthorized, tool.Envelope{Error: "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, user, utils.RoleEditor, time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		logging.Error().Err(err).Msg("sign access token")
		return c.JSON(http.StatusInternalServerError, tool.Envelope{Error: "could not issue token"})
	}
	return c.JSON(http.StatusOK, tool.OK(tok))
}
