// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts      = 3
	DefaultClientRetryMultiplier       = 2.0
	DefaultClientRetryJitterFactor     = 0.25
	DefaultClientCircuitMaxFailures    = 5
	DefaultClientCircuitHalfOpenLimit  = 3
	DefaultTransportMaxIdleConns       = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultQuoteAPIBaseURL serves both the quote and auth endpoints.
	DefaultQuoteAPIBaseURL = "https://motivation.kakhoshvili.com/api"

	DefaultReminderCount               = 10
	DefaultReminderRegisterConcurrency = 4

	DefaultDeviceHeader = "X-Device-ID"
)

// Config is the root configuration structure.
type Config struct {
	App           AppConfig           `koanf:"app"           validate:"required"`
	Server        ServerConfig        `koanf:"server"        validate:"required"`
	Log           LogConfig           `koanf:"log"           validate:"required"`
	Telemetry     TelemetryConfig     `koanf:"telemetry"`
	API           APIConfig           `koanf:"api"`
	Client        ClientConfig        `koanf:"client"        validate:"required"`
	Services      ServicesConfig      `koanf:"services"      validate:"required"`
	Quotes        QuotesConfig        `koanf:"quotes"        validate:"required"`
	Reminders     RemindersConfig     `koanf:"reminders"     validate:"required"`
	Widget        WidgetConfig        `koanf:"widget"        validate:"required"`
	Store         StoreConfig         `koanf:"store"         validate:"required"`
	Notifications NotificationsConfig `koanf:"notifications" validate:"required"`
	Redis         RedisConfig         `koanf:"redis"`
	Postgres      PostgresConfig      `koanf:"postgres"`
	Features      map[string]bool     `koanf:"-"`
	FeatureInts   map[string]int      `koanf:"-"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// APIConfig contains settings of the public HTTP surface.
type APIConfig struct {
	// DeviceHeader names the header that scopes every request to a device.
	DeviceHeader string `koanf:"device_header" validate:"required"`

	// RequireUUIDDevice rejects device ids that are not UUIDs.
	RequireUUIDDevice bool `koanf:"require_uuid_device"`
}

// ClientConfig contains HTTP client settings for the remote API.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig contains configuration for the remote API endpoints.
type ServicesConfig struct {
	Quote ServiceEndpointConfig `koanf:"quote" validate:"required"`
	Auth  AuthServiceConfig     `koanf:"auth"  validate:"required"`
}

// ServiceEndpointConfig contains configuration for a remote endpoint.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
}

// AuthServiceConfig adds the client tag sent on login.
type AuthServiceConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
	Client  string `koanf:"client"   validate:"required"`
}

// QuotesConfig tunes the quote feed.
type QuotesConfig struct {
	RetentionWindow      time.Duration `koanf:"retention_window"       validate:"required,min=1m"`
	PageAdvanceThreshold time.Duration `koanf:"page_advance_threshold" validate:"required,min=1m"`
	DefaultPage          int           `koanf:"default_page"           validate:"required,min=1"`
}

// RemindersConfig holds reminder defaults and bounds.
type RemindersConfig struct {
	DefaultCount        int    `koanf:"default_count"        validate:"required,min=1,gtefield=MinCount,ltefield=MaxCount"`
	DefaultStart        string `koanf:"default_start"        validate:"required,hhmm"`
	DefaultEnd          string `koanf:"default_end"          validate:"required,hhmm"`
	MinCount            int    `koanf:"min_count"            validate:"required,min=1"`
	MaxCount            int    `koanf:"max_count"            validate:"required,gtefield=MinCount,max=60"`
	RegisterConcurrency int    `koanf:"register_concurrency" validate:"required,min=1,max=32"`
}

// WidgetConfig tunes the widget timeline.
type WidgetConfig struct {
	EntryInterval     time.Duration `koanf:"entry_interval"      validate:"required,min=1m"`
	TimelineSpan      time.Duration `koanf:"timeline_span"       validate:"required,gtefield=EntryInterval"`
	CacheTTL          time.Duration `koanf:"cache_ttl"           validate:"required,min=1m"`
	RetryWithCache    time.Duration `koanf:"retry_with_cache"    validate:"required,min=1m"`
	RetryWithFallback time.Duration `koanf:"retry_with_fallback" validate:"required,min=1m"`
}

// StoreConfig selects the preference store backend.
type StoreConfig struct {
	Backend   string `koanf:"backend"    validate:"required,oneof=memory redis postgres"`
	KeyPrefix string `koanf:"key_prefix" validate:"required"`
}

// NotificationsConfig selects the notification center backend.
type NotificationsConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory redis"`

	// GrantByDefault answers permission prompts for devices that never
	// reported a permission status.
	GrantByDefault bool `koanf:"grant_by_default"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"            validate:"min=0,max=15"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// PostgresConfig contains Postgres connection settings.
type PostgresConfig struct {
	DSN      string `koanf:"dsn"`
	Table    string `koanf:"table"     validate:"omitempty,max=63"`
	MaxConns int32  `koanf:"max_conns" validate:"omitempty,min=1"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "motivation-service",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "20s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/motivation.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "motivation-service",
		"telemetry.sampling_rate": 1.0,

		"api.device_header":       DefaultDeviceHeader,
		"api.require_uuid_device": false,

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "2s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.quote.base_url": DefaultQuoteAPIBaseURL,
		"services.quote.name":     "quote-api",
		"services.auth.base_url":  DefaultQuoteAPIBaseURL,
		"services.auth.name":      "auth-api",
		"services.auth.client":    "ios",

		"quotes.retention_window":       "360h",
		"quotes.page_advance_threshold": "4h",
		"quotes.default_page":           1,

		"reminders.default_count":        DefaultReminderCount,
		"reminders.default_start":        "09:00",
		"reminders.default_end":          "22:00",
		"reminders.min_count":            1,
		"reminders.max_count":            15,
		"reminders.register_concurrency": DefaultReminderRegisterConcurrency,

		"widget.entry_interval":      "4h",
		"widget.timeline_span":       "24h",
		"widget.cache_ttl":           "24h",
		"widget.retry_with_cache":    "30m",
		"widget.retry_with_fallback": "1h",

		"store.backend":    "memory",
		"store.key_prefix": "motivation",

		"notifications.backend":          "memory",
		"notifications.grant_by_default": false,

		"redis.addr":          "localhost:6379",
		"redis.db":            0,
		"redis.dial_timeout":  "5s",
		"redis.read_timeout":  "3s",
		"redis.write_timeout": "3s",

		"postgres.table":     "device_preferences",
		"postgres.max_conns": 10,

		"features.quotes.history_filter":   true,
		"features.reminders.verify_pending": true,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, "configs/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("configs/%s.yaml", profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err := k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Flag names contain dots, which koanf splits into nested keys.
	cfg.Features, cfg.FeatureInts = flattenFlags(k.Cut("features").All())

	return &cfg, nil
}

// flattenFlags turns koanf's flattened "a.b" keys into flag names. YAML
// integers become integer flags; strings from the environment are booleans
// unless they parse as a number other than 0 or 1.
func flattenFlags(all map[string]any) (bools map[string]bool, ints map[string]int) {
	bools = make(map[string]bool, len(all))
	ints = make(map[string]int)

	for name, raw := range all {
		switch v := raw.(type) {
		case bool:
			bools[name] = v
		case int:
			ints[name] = v
		case int64:
			ints[name] = int(v)
		case float64:
			ints[name] = int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil && n != 0 && n != 1 {
				ints[name] = n
				continue
			}

			bools[name] = strings.EqualFold(v, "true") || v == "1"
		}
	}

	return bools, ints
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
