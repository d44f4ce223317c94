// Package config loads application configuration from environment
// variables. All variables use the STUDY_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Curriculum CurriculumConfig
	Admin      AdminConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL runs
// the server with the in-memory gateway (progress is not durable).
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings for the cross-device push
// stream. An empty URL disables pushes.
type CacheConfig struct {
	URL string
}

// CurriculumConfig holds the optional overlay directory that overrides
// the built-in syllabus data.
type CurriculumConfig struct {
	OverlayDir string
}

// AdminConfig guards the content editor endpoints. TokenHash is a bcrypt
// hash of the admin token; empty disables the endpoints entirely.
type AdminConfig struct {
	TokenHash string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with STUDY_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("STUDY_SERVER_PORT", 8080),
			Host: envStr("STUDY_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("STUDY_DATABASE_URL", ""),
			MaxConns: envInt("STUDY_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("STUDY_DATABASE_MIN_CONNS", 2),
		},
		Cache: CacheConfig{
			URL: envStr("STUDY_CACHE_URL", ""),
		},
		Curriculum: CurriculumConfig{
			OverlayDir: envStr("STUDY_CURRICULUM_DIR", ""),
		},
		Admin: AdminConfig{
			TokenHash: envStr("STUDY_ADMIN_TOKEN_HASH", ""),
		},
		Log: LogConfig{
			Level:  envStr("STUDY_LOG_LEVEL", "info"),
			Format: envStr("STUDY_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("STUDY_SERVER_PORT out of range: %d", c.Server.Port)
	}
	if c.Cache.URL != "" && c.Database.URL == "" {
		return fmt.Errorf("STUDY_CACHE_URL requires STUDY_DATABASE_URL")
	}
	if c.Admin.TokenHash != "" && !strings.HasPrefix(c.Admin.TokenHash, "$2") {
		return fmt.Errorf("STUDY_ADMIN_TOKEN_HASH must be a bcrypt hash")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
