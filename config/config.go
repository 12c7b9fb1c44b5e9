// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// StoreBackend selects the snapshot persistence implementation.
type StoreBackend string

const (
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendMemory   StoreBackend = "memory"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
}

// DatabaseConfig holds PostgreSQL connection details for the postgres
// snapshot backend.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST"`
	Port         int    `mapstructure:"PORT"`
	User         string `mapstructure:"USER"`
	Password     string `mapstructure:"PASSWORD"`
	Name         string `mapstructure:"NAME"`
	SSLMode      string `mapstructure:"SSL_MODE"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS"`
}

// URL returns a postgres:// connection URL.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details for the redis snapshot backend.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS"`
	Password     string `mapstructure:"PASSWORD"`
	DB           int    `mapstructure:"DB"`
	UseTLS       bool   `mapstructure:"USE_TLS"`
	PoolSize     int    `mapstructure:"POOL_SIZE"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS"`
}

// StoreConfig selects and tunes snapshot persistence.
type StoreConfig struct {
	// Backend is one of redis, postgres, memory.
	Backend StoreBackend `mapstructure:"BACKEND"`
	// SaveTimeoutSeconds bounds a single snapshot write. Writes that
	// exceed it are logged and abandoned; they never fail a mutation.
	SaveTimeoutSeconds int `mapstructure:"SAVE_TIMEOUT_SECONDS"`
}

// SyncConfig tunes the best-effort remote mirroring outbox.
type SyncConfig struct {
	// Enabled turns remote mirroring on. When false the engine uses a
	// no-op recorder.
	Enabled bool `mapstructure:"ENABLED"`
	// RemoteBaseURL is the base URL of the remote trip API.
	RemoteBaseURL string `mapstructure:"REMOTE_BASE_URL"`
	// APIKey authenticates outbox deliveries, if the remote requires it.
	APIKey string `mapstructure:"API_KEY"`
	// QueueSize is the outbox buffer; a full queue drops new intents.
	QueueSize int `mapstructure:"QUEUE_SIZE"`
	// MaxAttempts bounds delivery retries per intent.
	MaxAttempts int `mapstructure:"MAX_ATTEMPTS"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS"`
	// RetryBackoffSeconds is the base delay between attempts.
	RetryBackoffSeconds int `mapstructure:"RETRY_BACKOFF_SECONDS"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server   ServerConfig   `mapstructure:"SERVER"`
	Database DatabaseConfig `mapstructure:"DATABASE"`
	Redis    RedisConfig    `mapstructure:"REDIS"`
	Store    StoreConfig    `mapstructure:"STORE"`
	Sync     SyncConfig     `mapstructure:"SYNC"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, unmarshals into Config, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "trip_progress_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("STORE.BACKEND", StoreBackendRedis)
	v.SetDefault("STORE.SAVE_TIMEOUT_SECONDS", 5)
	v.SetDefault("SYNC.ENABLED", false)
	v.SetDefault("SYNC.REMOTE_BASE_URL", "")
	v.SetDefault("SYNC.API_KEY", "")
	v.SetDefault("SYNC.QUEUE_SIZE", 256)
	v.SetDefault("SYNC.MAX_ATTEMPTS", 5)
	v.SetDefault("SYNC.TIMEOUT_SECONDS", 10)
	v.SetDefault("SYNC.RETRY_BACKOFF_SECONDS", 2)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"STORE.BACKEND", "STORE_BACKEND"},
		{"STORE.SAVE_TIMEOUT_SECONDS", "STORE_SAVE_TIMEOUT_SECONDS"},
		{"SYNC.ENABLED", "SYNC_ENABLED"},
		{"SYNC.REMOTE_BASE_URL", "SYNC_REMOTE_BASE_URL"},
		{"SYNC.API_KEY", "SYNC_API_KEY"},
		{"SYNC.QUEUE_SIZE", "SYNC_QUEUE_SIZE"},
		{"SYNC.MAX_ATTEMPTS", "SYNC_MAX_ATTEMPTS"},
		{"SYNC.TIMEOUT_SECONDS", "SYNC_TIMEOUT_SECONDS"},
		{"SYNC.RETRY_BACKOFF_SECONDS", "SYNC_RETRY_BACKOFF_SECONDS"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"store_backend", cfg.Store.Backend,
		"sync_enabled", cfg.Sync.Enabled,
	)
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid environment: %s", c.Server.Environment)
	}

	switch c.Store.Backend {
	case StoreBackendRedis, StoreBackendPostgres, StoreBackendMemory:
	default:
		return fmt.Errorf("invalid store backend: %s", c.Store.Backend)
	}

	if c.Sync.Enabled && c.Sync.RemoteBaseURL == "" {
		return fmt.Errorf("SYNC_REMOTE_BASE_URL is required when sync is enabled")
	}
	if c.Sync.Enabled {
		if _, err := url.Parse(c.Sync.RemoteBaseURL); err != nil {
			return fmt.Errorf("invalid SYNC_REMOTE_BASE_URL: %w", err)
		}
	}

	return nil
}
