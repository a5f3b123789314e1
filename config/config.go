// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MongoURI string `envconfig:"MONGO_URI"`
	MongoDB  string `envconfig:"MONGO_DB" default:"tourdesk"`

	// RedisAddr is optional. Empty disables the catalog cache and pub/sub.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"12h"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`

	SMTPHost         string `envconfig:"SMTP_HOST"`
	SMTPPort         string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser         string `envconfig:"SMTP_USER"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom         string `envconfig:"SMTP_FROM"`
	AdminNotifyEmail string `envconfig:"ADMIN_NOTIFY_EMAIL"`

	CORSOrigins       []string      `envconfig:"CORS_ORIGINS" default:"*"`
	UploadDir         string        `envconfig:"UPLOAD_DIR" default:"static/uploads"`
	ManifestFont      string        `envconfig:"MANIFEST_FONT"`
	CatalogCacheTTL   time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`
	BookingRatePerMin int           `envconfig:"BOOKING_RATE_PER_MIN" default:"5"`
}

// Load reads .env when present, then the process environment. The error lists
// every required variable that is missing.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; using system environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if cfg.BookingRatePerMin < 1 {
		cfg.BookingRatePerMin = 1
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// SlogLevel parses LogLevel, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// MailEnabled reports whether booking notifications go out over SMTP.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.AdminNotifyEmail != ""
}
