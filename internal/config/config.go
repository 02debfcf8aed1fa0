// Package config provides configuration management with 3-tier priority:
// Environment variables > YAML file > Default values
package config

import (
	"fmt"
	"strings"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host                   string `envconfig:"DASHBOARD_HOST" yaml:"host"`
	Port                   int    `envconfig:"DASHBOARD_PORT" yaml:"port"`
	ShutdownTimeoutSeconds int    `envconfig:"DASHBOARD_SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig holds the connection settings for the query log store.
// Credentials have no defaults; they must come from the environment or
// the config file.
type DatabaseConfig struct {
	Driver       string `envconfig:"DB_DRIVER" yaml:"driver"`
	Host         string `envconfig:"DB_HOST" yaml:"host"`
	Port         int    `envconfig:"DB_PORT" yaml:"port"`
	Name         string `envconfig:"DB_NAME" yaml:"name"`
	User         string `envconfig:"DB_USER" yaml:"user"`
	Password     string `envconfig:"DB_PASSWORD" yaml:"password"`
	SSLMode      string `envconfig:"DB_SSLMODE" yaml:"sslmode"`
	Path         string `envconfig:"DB_PATH" yaml:"path"` // sqlite only
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" yaml:"max_idle_conns"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level    string            `envconfig:"LOG_LEVEL" yaml:"level"`
	Dir      string            `envconfig:"DASHBOARD_LOGS_DIR" yaml:"dir"` // empty = console only
	Rotation LogRotationConfig `yaml:"rotation"`
}

// LogRotationConfig holds log rotation settings powered by lumberjack.
type LogRotationConfig struct {
	MaxSizeMB  int  `envconfig:"DASHBOARD_LOG_MAX_SIZE_MB" yaml:"max_size_mb"`
	MaxBackups int  `envconfig:"DASHBOARD_LOG_MAX_BACKUPS" yaml:"max_backups"`
	MaxAgeDays int  `envconfig:"DASHBOARD_LOG_MAX_AGE_DAYS" yaml:"max_age_days"`
	Compress   bool `envconfig:"DASHBOARD_LOG_COMPRESS" yaml:"compress"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			Port:         5432,
			SSLMode:      "prefer",
			MaxOpenConns: 10,
			MaxIdleConns: 0,
		},
		Log: LogConfig{
			Level: "info",
			Rotation: LogRotationConfig{
				MaxSizeMB:  10,
				MaxBackups: 5,
				MaxAgeDays: 30,
				Compress:   true,
			},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	return c.Database.Validate()
}

// Validate checks that every value the selected driver needs is present.
func (d *DatabaseConfig) Validate() error {
	var missing []string
	switch d.Driver {
	case DriverPostgres:
		if d.Host == "" {
			missing = append(missing, "DB_HOST")
		}
		if d.Name == "" {
			missing = append(missing, "DB_NAME")
		}
		if d.User == "" {
			missing = append(missing, "DB_USER")
		}
		if d.Password == "" {
			missing = append(missing, "DB_PASSWORD")
		}
		if d.Port < 1 || d.Port > 65535 {
			return &ConfigError{Field: "database.port", Message: "must be between 1 and 65535"}
		}
	case DriverSQLite:
		if d.Path == "" {
			missing = append(missing, "DB_PATH")
		}
	default:
		return &ConfigError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unsupported driver %q (must be %s or %s)", d.Driver, DriverPostgres, DriverSQLite),
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Field: "database", Message: "missing required value(s): " + strings.Join(missing, ", ")}
	}
	if d.MaxOpenConns < 1 {
		return &ConfigError{Field: "database.max_open_conns", Message: "must be at least 1"}
	}
	if d.MaxIdleConns < 0 {
		return &ConfigError{Field: "database.max_idle_conns", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + ": " + e.Message
}
