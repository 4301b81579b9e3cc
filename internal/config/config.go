package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from CRM_* environment
// variables. A .env file in the working directory is read first when present.
type Config struct {
	Addr           string   `envconfig:"ADDR" default:":8080"`
	DBPath         string   `envconfig:"DB" default:"crm.db"`
	JWTSecret      string   `envconfig:"JWT_SECRET"`
	JWTIssuer      string   `envconfig:"JWT_ISSUER" default:"crm"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"LOG_FORMAT" default:"text"`
	MaxUploadBytes int64    `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	SearchLimit    int      `envconfig:"SEARCH_LIMIT" default:"5"`
	EnableAdmin    bool     `envconfig:"ENABLE_ADMIN" default:"false"`
}

// Load reads configuration from the environment with defaults applied.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("crm", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.SearchLimit <= 0 {
		return Config{}, fmt.Errorf("load config: CRM_SEARCH_LIMIT must be positive")
	}
	return cfg, nil
}

// Level maps LogLevel onto a slog level; unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// AuthEnabled reports whether requests must carry a signed bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
