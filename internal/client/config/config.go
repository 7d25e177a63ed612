// Package config loads the client configuration from a YAML file with
// environment variable expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/tapetrack/tapectl/internal/timex"
)

// Config represents the client configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	return c.Database.Validate()
}

// APIConfig holds backend connection settings. Timeouts accept either a
// duration string ("10s") or integer nanoseconds.
type APIConfig struct {
	BaseURL          string         `yaml:"base_url"`
	Timeout          timex.Duration `yaml:"timeout"`
	AuthCheckTimeout timex.Duration `yaml:"auth_check_timeout"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	); err != nil {
		return err
	}
	if c.Timeout.Duration < 0 || c.AuthCheckTimeout.Duration < 0 {
		return fmt.Errorf("api: timeouts must not be negative")
	}
	return nil
}

// DatabaseConfig holds the path to the local SQLite token store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level slog.Level `yaml:"level"`
}

// NewDefault returns a Config with sensible default values.
func NewDefault() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:          "http://localhost:8000",
			Timeout:          timex.Duration{Duration: 30 * time.Second},
			AuthCheckTimeout: timex.Duration{Duration: 5 * time.Second},
		},
		Database: DatabaseConfig{
			Path: "./tapectl.db",
		},
		Log: LogConfig{
			Level: slog.LevelInfo,
		},
	}
}

// Load reads a YAML config file on top of the defaults, expanding
// ${VAR} references from the environment before parsing.
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", filename, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", filename, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
