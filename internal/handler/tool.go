package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/tool"
)

// maxParamsBytes bounds a tool parameter body.  Bulk creates are the
// largest legitimate payload.
const maxParamsBytes = 8 << 20

// ToolHandler serves the tool contract over HTTP.
type ToolHandler struct {
	Reg *tool.Registry
}

func NewToolHandler(reg *tool.Registry) *ToolHandler { return &ToolHandler{Reg: reg} }

// Invoke calls the tool named by :name with the JSON request body as its
// parameter object.
func (h *ToolHandler) Invoke(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxParamsBytes+1))
	if err != nil {
		return h.respond(c, tool.Fail(&service.Error{Kind: service.KindValidation, Message: "could not read request body"}))
	}
	if len(raw) > maxParamsBytes {
		return h.respond(c, tool.Fail(&service.Error{Kind: service.KindValidation, Message: "parameter object too large"}))
	}
	return h.respond(c, h.Reg.Call(c.Request().Context(), c.Param("name"), raw))
}

// Query calls a read-only tool with parameters taken from the query
// string.  Mutating tools are only reachable through POST.
func (h *ToolHandler) Query(c echo.Context) error {
	name := c.Param("name")
	t, ok := h.Reg.Lookup(name)
	if !ok {
		return h.respond(c, h.Reg.Call(c.Request().Context(), name, nil))
	}
	if !t.ReadOnly {
		return c.JSON(http.StatusMethodNotAllowed, tool.Envelope{Error: name + " mutates the catalog; use POST"})
	}
	raw, err := tool.ParamsFromQuery(t.Descriptor, c.QueryParams())
	if err != nil {
		return h.respond(c, tool.Fail(err))
	}
	return h.respond(c, h.Reg.Call(c.Request().Context(), name, raw))
}

// List returns every tool descriptor.
func (h *ToolHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, tool.OK(h.Reg.Descriptors()))
}

func (h *ToolHandler) respond(c echo.Context, env tool.Envelope) error {
	return c.JSON(StatusFor(env), env)
}

// StatusFor maps an envelope onto its HTTP status.
func StatusFor(env tool.Envelope) int {
	if env.Success {
		return http.StatusOK
	}
	switch env.Kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
