// Package config provides configuration management for the Challenge Blueprint services.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Engine    EngineConfig    `mapstructure:"engine" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	History   HistoryConfig   `mapstructure:"history"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig holds calculator and Monte Carlo settings
type EngineConfig struct {
	DefaultTrials       int     `mapstructure:"default_trials" validate:"required,trials"`
	Seed                int64   `mapstructure:"seed"`
	Workers             int     `mapstructure:"workers" validate:"gte=0"`
	ChunkSize           int     `mapstructure:"chunk_size" validate:"gte=0"`
	DebounceMillis      int     `mapstructure:"debounce_ms" validate:"required,gte=100,lte=2000"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	SubmitRatePerSecond float64 `mapstructure:"submit_rate_per_second" validate:"required,gt=0"`
	SubmitBurst         int     `mapstructure:"submit_burst" validate:"required,gt=0"`
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Driver        string         `mapstructure:"driver" validate:"required,storagedriver"`
	SQLitePath    string         `mapstructure:"sqlite_path"`
	Postgres      PostgresConfig `mapstructure:"postgres"`
	RetentionDays int            `mapstructure:"retention_days" validate:"gte=0"`
}

// PostgresConfig represents database connection configuration
type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// HistoryConfig configures the simulation-run history sink
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ClickHouseDSN string `mapstructure:"clickhouse_dsn"`
	RecentLimit   int    `mapstructure:"recent_limit" validate:"gte=0"`
}

// ServerConfig configures the REST API and the ops server
type ServerConfig struct {
	APIAddress             string `mapstructure:"api_address" validate:"required"`
	OpsPort                int    `mapstructure:"ops_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	RateLimitPerMinute     int    `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
	AllowedOrigins         string `mapstructure:"allowed_origins"`
}

// OriginList splits AllowedOrigins on commas, dropping blanks.
func (s ServerConfig) OriginList() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// CalendarConfig configures the economic-calendar feed
type CalendarConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	URL               string  `mapstructure:"url" validate:"omitempty,url"`
	APIKey            string  `mapstructure:"api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RefreshSchedule   string  `mapstructure:"refresh_schedule"`
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	RetentionSchedule string `mapstructure:"retention_schedule"`
}

// SecretsConfig points at the AWS Secrets Manager secret overlaid on the config
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetPostgresDSN returns a PostgreSQL DSN string
func (c *Config) GetPostgresDSN() string {
	pg := c.Storage.Postgres
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.Name,
		pg.SSLMode,
	)
}

// DebounceDelay is the quiet period before a profile edit triggers a recompute.
func (e EngineConfig) DebounceDelay() time.Duration {
	return time.Duration(e.DebounceMillis) * time.Millisecond
}

// CacheTTL is how long seeded simulation results stay cached.
func (e EngineConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// Retention is the age after which stored preferences are swept; zero disables the sweep.
func (s StorageConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}
