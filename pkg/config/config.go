// Package config loads showcase-engine configuration from YAML and
// environment variables. Environment variables override YAML values; secrets
// (database password, JWT secret) come from the environment only.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for showcase-engine.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Gallery  GalleryConfig  `yaml:"gallery"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"showcase"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"showcase_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// URL builds a connection string for pgx and the migration runner.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis configuration. An empty host disables the
// collection cache entirely.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. The server refuses to start without it.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`
	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
}

// GalleryConfig holds layout and read-scope settings.
type GalleryConfig struct {
	// Radius of the circular card layout, in scene distance units.
	Radius float64 `yaml:"radius" env:"GALLERY_RADIUS" env-default:"5"`
	// LayoutMode is "persisted" (honor stored poses) or "auto" (always
	// recompute the circle).
	LayoutMode string `yaml:"layout_mode" env:"GALLERY_LAYOUT_MODE" env-default:"persisted"`
	// Scope is "open" (everyone sees every project) or "owner" (non-admin
	// viewers see only their own projects).
	Scope string `yaml:"scope" env:"GALLERY_SCOPE" env-default:"open"`
	// CacheTTL bounds staleness of the Redis collection cache.
	CacheTTL time.Duration `yaml:"cache_ttl" env:"GALLERY_CACHE_TTL" env-default:"5m"`
}

const (
	ScopeOpen  = "open"
	ScopeOwner = "owner"
)

// Load reads configuration from config.yaml (if present) and the
// environment. A .env file is honored for local development.
func Load(version string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.Version = version

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.Gallery.Scope != ScopeOpen && cfg.Gallery.Scope != ScopeOwner {
		return nil, fmt.Errorf("invalid gallery scope %q (want %q or %q)", cfg.Gallery.Scope, ScopeOpen, ScopeOwner)
	}
	if cfg.Gallery.LayoutMode != "auto" && cfg.Gallery.LayoutMode != "persisted" {
		return nil, fmt.Errorf("invalid gallery layout mode %q (want \"auto\" or \"persisted\")", cfg.Gallery.LayoutMode)
	}

	return &cfg, nil
}
