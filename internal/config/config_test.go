// Package config provides configuration management for the Challenge Blueprint services.
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	partialConfigPath          = "testdata/partial_config.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg         = "expected no error, got %v"
	expectedNonNilConfig       = "expected non-nil config"
	blueprintName              = "challenge-blueprint"
	developmentEnv             = "development"
	invalidEnv                 = "invalid"
	localhostHost              = "localhost"
	postgresPort               = 5432
	postgresPrefix             = "postgres://"
	testAppName                = "test-app"
	testDBPassword             = "TEST_DB_PASSWORD"
	testMissingVar             = "TEST_MISSING_VAR"
	expandedSecretValue        = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != blueprintName {
		t.Errorf("expected app name '%s', got '%s'", blueprintName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Storage.Postgres.Host != localhostHost {
		t.Errorf("expected postgres host '%s', got '%s'", localhostHost, cfg.Storage.Postgres.Host)
	}
	if cfg.Storage.Postgres.Port != postgresPort {
		t.Errorf("expected postgres port %d, got %d", postgresPort, cfg.Storage.Postgres.Port)
	}
	if cfg.Engine.DefaultTrials != 1000 {
		t.Errorf("expected default trials 1000, got %d", cfg.Engine.DefaultTrials)
	}
	if cfg.Engine.DebounceDelay() != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.Engine.DebounceDelay())
	}
	if cfg.Storage.Retention() != 90*24*time.Hour {
		t.Errorf("expected 90 day retention, got %v", cfg.Storage.Retention())
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("BLUEPRINT_APP_NAME", testAppName)
	t.Setenv("BLUEPRINT_ENGINE_DEFAULT_TRIALS", "5000")

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Engine.DefaultTrials != 5000 {
		t.Errorf("expected trials 5000 from environment, got %d", cfg.Engine.DefaultTrials)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} placeholders
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Storage.Postgres.Password != expandedSecretValue {
		t.Errorf("expected expanded password '%s', got '%s'", expandedSecretValue, cfg.Storage.Postgres.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests that unset placeholders expand to empty
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Storage.Postgres.Password != "" {
		t.Errorf("expected empty password, got '%s'", cfg.Storage.Postgres.Password)
	}
}

// TestLoadWithDefaultsPartial tests that defaults fill gaps in a partial file
func TestLoadWithDefaultsPartial(t *testing.T) {
	cfg, err := LoadWithDefaults(partialConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != "partial-blueprint" {
		t.Errorf("expected file value to win, got '%s'", cfg.App.Name)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("expected memory driver, got '%s'", cfg.Storage.Driver)
	}
	if cfg.App.LogLevel != "info" || cfg.Engine.DefaultTrials != 1000 || cfg.Server.OpsPort != 9090 {
		t.Errorf("expected defaults to apply, got %+v", cfg.App)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestLoadWithDefaultsMissingFile tests that a missing file is tolerated
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("expected sqlite default driver, got '%s'", cfg.Storage.Driver)
	}
}

// TestValidateSuccess tests a valid configuration
func TestValidateSuccess(t *testing.T) {
	if err := Validate(loadValid(t)); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestValidateInvalidEnvironment tests the environment rule
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = invalidEnv

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
	if !strings.Contains(err.Error(), "Environment") {
		t.Errorf("expected error to name Environment, got %v", err)
	}
}

// TestValidateInvalidTrials tests the trials rule
func TestValidateInvalidTrials(t *testing.T) {
	cfg := loadValid(t)
	cfg.Engine.DefaultTrials = 2500

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unsupported trial count")
	}
	if !strings.Contains(err.Error(), "DefaultTrials") {
		t.Errorf("expected error to name DefaultTrials, got %v", err)
	}
}

// TestValidateStorageDriver tests the driver rule and driver-specific requirements
func TestValidateStorageDriver(t *testing.T) {
	cfg := loadValid(t)
	cfg.Storage.Driver = "redis"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "memory, sqlite, postgres") {
		t.Errorf("expected storage driver error, got %v", err)
	}

	cfg = loadValid(t)
	cfg.Storage.Driver = DriverSQLite
	cfg.Storage.SQLitePath = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for sqlite without path")
	}

	cfg = loadValid(t)
	cfg.Storage.Postgres.Host = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected error for postgres without host")
	}
}

// TestValidateCrossField tests cross-field rules
func TestValidateCrossField(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	if err := Validate(cfg); err == nil {
		t.Error("expected production to reject ssl_mode disable")
	}

	cfg = loadValid(t)
	cfg.History.ClickHouseDSN = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected enabled history to require a DSN")
	}

	cfg = loadValid(t)
	cfg.Calendar.URL = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected enabled calendar to require a URL")
	}

	cfg = loadValid(t)
	cfg.Secrets.Enabled = true
	cfg.Secrets.SecretName = ""
	if err := Validate(cfg); err == nil {
		t.Error("expected enabled secrets to require a name")
	}
}

// TestGetPostgresDSN tests DSN construction
func TestGetPostgresDSN(t *testing.T) {
	dsn := loadValid(t).GetPostgresDSN()
	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with %s, got %s", postgresPrefix, dsn)
	}
	if !strings.Contains(dsn, "localhost:5432/blueprint") || !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("unexpected DSN %s", dsn)
	}
}

// TestIsProduction tests the production check used by validation
func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if cfg.IsProduction() {
		t.Error("expected development to not be production")
	}
	cfg.App.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

// TestOriginList tests splitting of the allowed origins setting
func TestOriginList(t *testing.T) {
	got := ServerConfig{AllowedOrigins: " https://a.example.com, ,https://b.example.com "}.OriginList()
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", got)
	}
	if got := (ServerConfig{}).OriginList(); len(got) != 0 {
		t.Errorf("expected no origins, got %v", got)
	}
}
