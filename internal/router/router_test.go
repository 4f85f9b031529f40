package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/tool"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

const secret = "router-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Field   string          `json:"field"`
}

func newServer(t *testing.T, jwtSecret string) *echo.Echo {
	t.Helper()
	db, d, err := database.Open(database.Options{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "catalog.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := service.NewMovieStore(repository.NewMovieRepo(db, d))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	hash, err := utils.HashPassword("letmein", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	e.JSONSerializer = handler.JSONSerializer{}
	deps := Deps{
		Cfg: config.Config{
			JWTSecret:         jwtSecret,
			AdminUser:         "admin",
			AdminPasswordHash: hash,
			AccessTTLMin:      5,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Cache:     config.CacheConfig{Enabled: false},
		Tools:     tool.NewCatalog(store),
		Health:    handler.NewHealthHandler(db),
	}
	RegisterRoutes(e, deps)
	RegisterAuth(e, deps)
	RegisterTools(e, deps)
	return e
}

func send(t *testing.T, e *echo.Echo, method, target, body, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: body %q is not an envelope: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestToolRoundTrip(t *testing.T) {
	e := newServer(t, "")

	code, env := send(t, e, http.MethodPost, "/v1/tools/create_movie", `{"title":"Alpha","vote_average":5,"vote_count":1,"release_date":"2020-03-01"}`, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("create: %d %+v", code, env)
	}
	var created service.CreateResult
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}

	code, env = send(t, e, http.MethodGet, "/v1/tools/get_movies_by_year?year=2020", "", "")
	if code != http.StatusOK || !env.Success || !strings.Contains(string(env.Data), `"Alpha"`) {
		t.Fatalf("by year: %d %+v", code, env)
	}

	code, env = send(t, e, http.MethodPost, "/v1/tools/delete_movie", `{"id":`+jsonInt(created.ID)+`}`, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("delete: %d %+v", code, env)
	}
	code, env = send(t, e, http.MethodPost, "/v1/tools/delete_movie", `{"id":`+jsonInt(created.ID)+`}`, "")
	if code != http.StatusNotFound || env.Kind != "NotFoundError" {
		t.Fatalf("second delete: %d %+v", code, env)
	}
}

func TestToolErrorsMapToStatus(t *testing.T) {
	e := newServer(t, "")
	tests := []struct {
		method, target, body string
		status               int
		kind, field          string
	}{
		{http.MethodPost, "/v1/tools/get_movies_by_year", `{}`, http.StatusBadRequest, "ValidationError", "year"},
		{http.MethodGet, "/v1/tools/get_movies_by_year?year=abc", "", http.StatusBadRequest, "ValidationError", "year"},
		{http.MethodGet, "/v1/tools/get_top_rated_movies?bogus=1", "", http.StatusBadRequest, "ValidationError", "bogus"},
		{http.MethodPost, "/v1/tools/get_movie_by_id", `{"id":999}`, http.StatusNotFound, "NotFoundError", ""},
		{http.MethodPost, "/v1/tools/no_such_tool", `{}`, http.StatusBadRequest, "ValidationError", "name"},
		{http.MethodGet, "/v1/tools/delete_movie?id=1", "", http.StatusMethodNotAllowed, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			code, env := send(t, e, tt.method, tt.target, tt.body, "")
			if code != tt.status || env.Success || env.Kind != tt.kind || env.Field != tt.field {
				t.Errorf("got %d %+v", code, env)
			}
		})
	}
}

func TestMutationsRequireEditorToken(t *testing.T) {
	e := newServer(t, secret)

	code, _ := send(t, e, http.MethodPost, "/v1/tools/create_movie", `{"title":"x"}`, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: %d", code)
	}
	code, env := send(t, e, http.MethodGet, "/v1/tools/get_database_statistics", "", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("read without token: %d %+v", code, env)
	}

	code, _ = send(t, e, http.MethodPost, "/v1/auth/token", `{"username":"admin","password":"wrong"}`, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", code)
	}
	code, env = send(t, e, http.MethodPost, "/v1/auth/token", `{"username":"admin","password":"letmein"}`, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("token: %d %+v", code, env)
	}
	var tok utils.AccessToken
	if err := json.Unmarshal(env.Data, &tok); err != nil || tok.Token == "" {
		t.Fatalf("token payload %s: %v", env.Data, err)
	}
	if time.Until(tok.Exp) > 5*time.Minute {
		t.Errorf("token lives until %v", tok.Exp)
	}

	code, env = send(t, e, http.MethodPost, "/v1/tools/create_movie", `{"title":"x"}`, tok.Token)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("authenticated create: %d %+v", code, env)
	}
}

func TestTokenDisabledWithoutSecret(t *testing.T) {
	e := newServer(t, "")
	code, env := send(t, e, http.MethodPost, "/v1/auth/token", `{"username":"admin","password":"letmein"}`, "")
	if code != http.StatusNotFound || env.Success {
		t.Errorf("got %d %+v", code, env)
	}
}

func TestListAndHealth(t *testing.T) {
	e := newServer(t, "")
	code, env := send(t, e, http.MethodGet, "/v1/tools", "", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("list: %d %+v", code, env)
	}
	var descs []tool.Descriptor
	if err := json.Unmarshal(env.Data, &descs); err != nil || len(descs) != 14 {
		t.Fatalf("descriptors %d: %v", len(descs), err)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}

	send(t, e, http.MethodGet, "/v1/tools/get_database_statistics", "", "")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "catalog_tool_calls_total") {
		t.Errorf("metrics: %d", rec.Code)
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
