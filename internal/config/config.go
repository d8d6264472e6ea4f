// Package config loads server configuration: defaults, then a YAML file,
// then CHARSHEET_* environment variables, each layer overriding the last.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the sheet server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address" env:"CHARSHEET_BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"CHARSHEET_PORT"`

	// Logging
	LogLevel string `yaml:"log_level" env:"CHARSHEET_LOG_LEVEL"`

	// Batch recompute concurrency
	RecomputeLimit int `yaml:"recompute_limit" env:"CHARSHEET_RECOMPUTE_LIMIT"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"CHARSHEET_DB_HOST"`
	Port     int    `yaml:"port" env:"CHARSHEET_DB_PORT"`
	User     string `yaml:"user" env:"CHARSHEET_DB_USER"`
	Password string `yaml:"password" env:"CHARSHEET_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"CHARSHEET_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"CHARSHEET_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Level maps the configured log level onto slog.
func (s Server) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:    "0.0.0.0",
		Port:           8080,
		LogLevel:       "info",
		RecomputeLimit: 4,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "charsheet",
			Password: "charsheet",
			DBName:   "charsheet",
			SSLMode:  "disable",
		},
	}
}

// LoadServer loads server config from a YAML file and applies environment
// overrides. A missing file is not an error; defaults are used instead.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}
