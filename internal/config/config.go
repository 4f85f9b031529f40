// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/database"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	DB database.Options

	JWTSecret         string // empty disables auth on mutating tools
	AdminUser         string // editor username accepted by POST /v1/auth/token
	AdminPasswordHash string // bcrypt hash of the editor password
	AccessTTLMin      int    // access token lifetime in minutes

	RabbitMQURL   string
	EventsEnabled bool

	LogLevel  string
	LogFormat string
}

// AuthEnabled reports whether mutating tools require a bearer token.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

// Load reads a .env file when present and then builds the Config from
// the environment.  Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: envStr("APP_PORT", "8080"),
		DB: database.Options{
			Driver:       envStr("DB_DRIVER", database.DriverSQLite),
			Path:         envStr("DB_PATH", "movies.db"),
			User:         os.Getenv("DB_USER"),
			Pass:         os.Getenv("DB_PASS"),
			Host:         envStr("DB_HOST", "127.0.0.1"),
			Port:         envStr("DB_PORT", "3306"),
			Name:         os.Getenv("DB_NAME"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 0),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUser:         envStr("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		EventsEnabled:     envBool("EVENTS_ENABLED", true),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		LogFormat:         envStr("LOG_FORMAT", "json"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case database.DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("config: DB_PATH is required for driver %s", c.DB.Driver)
		}
	case database.DriverMySQL:
		for key, v := range map[string]string{"DB_USER": c.DB.User, "DB_NAME": c.DB.Name} {
			if v == "" {
				return fmt.Errorf("config: %s is required for driver %s", key, c.DB.Driver)
			}
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.AccessTTLMin < 1 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("config: invalid APP_PORT %q", c.Port)
	}
	return nil
}
