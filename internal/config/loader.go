// Package config provides configuration management for the Challenge Blueprint services.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "BLUEPRINT"
	configPathEnv     = "BLUEPRINT_CONFIG_PATH"
	defaultConfigPath = "config/config.yaml"
)

func resolvePath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if p := os.Getenv(configPathEnv); p != "" {
		return p
	}
	return defaultConfigPath
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// BLUEPRINT_ENGINE_DEFAULT_TRIALS overrides engine.default_trials
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	configPath = resolvePath(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	configPath = resolvePath(configPath)
	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "challenge-blueprint")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("engine.default_trials", 1000)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.chunk_size", 250)
	v.SetDefault("engine.debounce_ms", 500)
	v.SetDefault("engine.cache_ttl_seconds", 600)
	v.SetDefault("engine.submit_rate_per_second", 5)
	v.SetDefault("engine.submit_burst", 3)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/blueprint.db")
	v.SetDefault("storage.retention_days", 0)
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.ssl_mode", "disable")
	v.SetDefault("storage.postgres.max_connections", 10)

	v.SetDefault("history.recent_limit", 50)

	v.SetDefault("server.api_address", ":8080")
	v.SetDefault("server.ops_port", 9090)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("server.allowed_origins", "*")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("calendar.requests_per_second", 1)
	v.SetDefault("calendar.timeout_seconds", 10)
	v.SetDefault("calendar.refresh_schedule", "*/30 * * * *")

	v.SetDefault("scheduler.retention_schedule", "0 3 * * *")
}
