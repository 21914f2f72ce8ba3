// Package config loads application settings from environment variables,
// applies defaults and validates the result on startup.
package config

import (
	"strconv"
	"time"
)

// Reference source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Reference ReferenceConfig
	Database  DatabaseConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Export    ExportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// ReferenceConfig says where the reference table comes from and how it is
// kept fresh.
type ReferenceConfig struct {
	// Source is file, http or postgres (default: file)
	Source string `env:"REFERENCE_SOURCE" default:"file"`

	// Path is the JSON file read by the file source (default: data/data.json)
	Path string `env:"REFERENCE_PATH" default:"data/data.json"`

	// URL is fetched by the http source
	URL string `env:"REFERENCE_URL"`

	// Query overrides the aggregate query of the postgres source
	Query string `env:"REFERENCE_QUERY"`

	// Schema is auto, nested or flat (default: auto)
	Schema string `env:"REFERENCE_SCHEMA" default:"auto"`

	// AreasPath overrides the built-in area catalog with a YAML file
	AreasPath string `env:"REFERENCE_AREAS_PATH"`

	// Watch reloads the file source when it changes on disk (default: false)
	Watch bool `env:"REFERENCE_WATCH" default:"false"`

	// ReloadInterval reloads periodically; 0 disables (default: 0s)
	ReloadInterval time.Duration `env:"REFERENCE_RELOAD_INTERVAL" default:"0s"`

	// FetchTimeout bounds a single fetch (default: 10s)
	FetchTimeout time.Duration `env:"REFERENCE_FETCH_TIMEOUT" default:"10s"`

	// HintFallback returns unfiltered old codes when the profile hint
	// matches none (default: false)
	HintFallback bool `env:"REFERENCE_HINT_FALLBACK" default:"false"`
}

// DatabaseConfig holds database connection settings, used by the postgres
// reference source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Supports DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ExportLimit is requests per minute for export endpoints (default: 30)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects admin routes with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted admin keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ExportConfig holds plan export settings.
type ExportConfig struct {
	// DefaultTitle is used for plans without a title
	DefaultTitle string `env:"EXPORT_DEFAULT_TITLE" default:"Piano Didattico di Corso di Studi AFAM"`

	// MaxActivities caps the activities accepted per plan; 0 disables (default: 200)
	MaxActivities int `env:"EXPORT_MAX_ACTIVITIES" default:"200"`

	// MaxBodyBytes caps plan request bodies (default: 1MB)
	MaxBodyBytes int64 `env:"EXPORT_MAX_BODY_BYTES" default:"1048576"`

	// MaxConcurrent bounds exports rendering at once (default: 8)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"8"`

	// MaxWait is how long an export waits for a free slot (default: 5s)
	MaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"5s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
