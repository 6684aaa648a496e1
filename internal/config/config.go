// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables (optionally layered over a
// YAML file) with sensible defaults and validates all settings on startup to
// fail fast on misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Sendy    SendyConfig     `yaml:"sendy"`
	Upload   UploadConfig    `yaml:"upload"`
	Rate     RateLimitConfig `yaml:"rate_limit"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" yaml:"host" default:"0.0.0.0"`

	// Port is the port to listen on (default: 3000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" yaml:"port" default:"3000"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" yaml:"read_timeout" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 0, uploads can be long)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" yaml:"write_timeout" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" yaml:"idle_timeout" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" default:"30s"`

	// RequestTimeout is the middleware timeout for non-upload requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" yaml:"request_timeout" default:"60s"`
}

// SendyConfig holds the remote Sendy installation settings.
type SendyConfig struct {
	// APIKey is the Sendy master API key (required)
	APIKey string `env:"SENDY_API_KEY" yaml:"api_key" required:"true"`

	// URL is the Sendy installation base URL, e.g. https://sendy.example.com (required)
	URL string `env:"SENDY_URL" yaml:"url" required:"true"`

	// ListID is the fallback list used when an upload does not name one
	ListID string `env:"SENDY_LIST_ID" yaml:"list_id"`

	// SubscribePath is appended to URL for subscriptions (default: /subscribe)
	SubscribePath string `env:"SENDY_SUBSCRIBE_PATH" yaml:"subscribe_path" default:"/subscribe"`

	// BrandsPath is appended to URL for brand discovery
	BrandsPath string `env:"SENDY_BRANDS_PATH" yaml:"brands_path" default:"/api/brands/get-brands.php"`

	// ListsPath is appended to URL for list discovery
	ListsPath string `env:"SENDY_LISTS_PATH" yaml:"lists_path" default:"/api/lists/get-lists.php"`

	// Timeout bounds a single call to Sendy (default: 30s)
	Timeout time.Duration `env:"SENDY_TIMEOUT" yaml:"timeout" default:"30s"`
}

// UploadConfig holds CSV upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" yaml:"max_file_size" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel uploads (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" yaml:"max_concurrent" default:"5"`

	// MaxWaitTime is how long to wait for an upload slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" yaml:"max_wait_time" default:"30s"`

	// Timeout is the maximum duration for a single upload request (default: 30m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" yaml:"timeout" default:"30m"`
}

// RateLimitConfig holds inbound rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" yaml:"enabled" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" yaml:"requests_per_minute" default:"100"`

	// UploadLimit is requests per minute for the upload endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" yaml:"upload_limit" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" yaml:"trusted_proxies"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" yaml:"enable_csp" default:"true"`

	// RequireAPIKey protects upload and discovery routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" yaml:"require_api_key" default:"false"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS" yaml:"api_keys"`

	// AllowedOrigins enables CORS for the listed origins (empty disables CORS)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"allowed_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" yaml:"level" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" yaml:"format" default:"text"`

	// RedactEmails masks subscriber addresses in log output (default: true)
	RedactEmails bool `env:"LOG_REDACT_EMAILS" yaml:"redact_emails" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SubscribeURL returns the absolute subscribe endpoint.
func (c *SendyConfig) SubscribeURL() string {
	return joinURL(c.URL, c.SubscribePath)
}

// BrandsURL returns the absolute brand discovery endpoint.
func (c *SendyConfig) BrandsURL() string {
	return joinURL(c.URL, c.BrandsPath)
}

// ListsURL returns the absolute list discovery endpoint.
func (c *SendyConfig) ListsURL() string {
	return joinURL(c.URL, c.ListsPath)
}

func joinURL(base, path string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
