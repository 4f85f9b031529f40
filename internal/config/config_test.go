package config

import (
	"testing"
	"time"

	"github.com/iliyamo/movie-catalog/internal/database"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"APP_ENV", "APP_PORT", "DB_DRIVER", "DB_PATH", "JWT_SECRET", "ACCESS_TOKEN_TTL_MIN"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != database.DriverSQLite || cfg.DB.Path != "movies.db" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Port != "8080" || cfg.AccessTTLMin != 60 {
		t.Errorf("port/ttl = %s/%d", cfg.Port, cfg.AccessTTLMin)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled without JWT_SECRET")
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"mysql without user", map[string]string{"DB_DRIVER": "mysql", "DB_USER": "", "DB_NAME": "movies"}},
		{"mysql without name", map[string]string{"DB_DRIVER": "mysql", "DB_USER": "app", "DB_NAME": ""}},
		{"bad port", map[string]string{"APP_PORT": "http"}},
		{"non-positive ttl", map[string]string{"ACCESS_TOKEN_TTL_MIN": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-2")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	if c.Capacity != 1 || c.RefillTokens != 1 {
		t.Errorf("capacity/refill = %d/%d", c.Capacity, c.RefillTokens)
	}
	if c.TTL != 10*time.Second {
		t.Errorf("ttl = %v, want 10s", c.TTL)
	}
	if got := c.RefillPerSecond(); got != 0.5 {
		t.Errorf("refill/s = %v", got)
	}
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	if got := LoadRedisConfig().Addr; got != "redis:6380" {
		t.Errorf("addr = %q", got)
	}
}

func TestNewRedisClient_Unconfigured(t *testing.T) {
	if NewRedisClient(RedisConfig{}) != nil {
		t.Error("expected nil client without an address")
	}
}
