// Package config provides centralized configuration management for the application.
// It loads configuration from an optional TOML file and environment variables
// with sensible defaults, and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Every setting can be configured via environment variables, which take
// precedence over values from CONFIG_FILE.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Database DatabaseConfig  `toml:"database"`
	Upload   UploadConfig    `toml:"upload"`
	Import   ImportConfig    `toml:"import"`
	Report   ReportConfig    `toml:"report"`
	Rate     RateLimitConfig `toml:"rate"`
	Security SecurityConfig  `toml:"security"`
	Logging  LoggingConfig   `toml:"logging"`
	Tracing  TracingConfig   `toml:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" toml:"host" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" toml:"port" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" toml:"read_timeout" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" toml:"write_timeout" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" toml:"idle_timeout" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" toml:"shutdown_timeout" default:"30s"`

	// RequestTimeout is the middleware timeout for non-import requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" toml:"request_timeout" default:"60s"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres or memory (default: postgres)
	Driver string `env:"STORE_DRIVER" toml:"driver" default:"postgres"`

	// URL is the PostgreSQL connection string (required for postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" toml:"url"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" toml:"max_conns" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" toml:"min_conns" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" toml:"max_conn_lifetime" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" toml:"max_conn_idle_time" default:"30m"`

	// EnsureSchema creates missing tables at startup (default: false)
	EnsureSchema bool `env:"DB_ENSURE_SCHEMA" toml:"ensure_schema" default:"false"`
}

// UploadConfig holds spreadsheet upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" toml:"max_file_size" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel imports (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" toml:"max_concurrent" default:"5"`

	// MaxWaitTime is how long to wait for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" toml:"max_wait_time" default:"30s"`

	// Timeout is the maximum duration for a single import (default: 10m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" toml:"timeout" default:"10m"`
}

// ImportConfig holds batch import settings.
type ImportConfig struct {
	// Workers is the number of rows processed concurrently per batch (default: 4)
	Workers int `env:"IMPORT_WORKERS" toml:"workers" default:"4"`

	// MaxRows is the largest accepted batch (default: 10000)
	MaxRows int `env:"IMPORT_MAX_ROWS" toml:"max_rows" default:"10000"`
}

// ReportConfig holds aggregation and export settings.
type ReportConfig struct {
	// Timezone names the zone for date grouping and date parameters (default: Local)
	Timezone string `env:"REPORT_TIMEZONE" toml:"timezone" default:"Local"`

	// CompressPDF enables stream compression in PDF exports (default: true)
	CompressPDF bool `env:"EXPORT_COMPRESS_PDF" toml:"compress_pdf" default:"true"`
}

// Location resolves Timezone.
func (c *ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" toml:"enabled" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" toml:"requests_per_minute" default:"100"`

	// ImportLimit is requests per minute for import endpoints (default: 10)
	ImportLimit int `env:"RATE_LIMIT_IMPORT" toml:"import_limit" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" toml:"trusted_proxies"`

	// RequireAPIKey rejects requests without a valid X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" toml:"require_api_key" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS" toml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" toml:"level" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" toml:"format" default:"text"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs a tracer provider that writes spans to stdout (default: false)
	Enabled bool `env:"TRACING_ENABLED" toml:"enabled" default:"false"`

	// ServiceName is reported on every span (default: ledgerio)
	ServiceName string `env:"TRACING_SERVICE_NAME" toml:"service_name" default:"ledgerio"`

	// SampleRatio is the fraction of traces recorded, 0 to 1 (default: 1)
	SampleRatio float64 `env:"TRACING_SAMPLE_RATIO" toml:"sample_ratio" default:"1"`

	// Pretty indents exported spans (default: false)
	Pretty bool `env:"TRACING_PRETTY" toml:"pretty" default:"false"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesPostgres reports whether the postgres store is selected.
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.Driver == DriverPostgres
}

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("{Driver: %q, URL: [MASKED], MaxConns: %d, MinConns: %d}", c.Driver, c.MaxConns, c.MinConns)
}
