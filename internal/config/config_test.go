// Package config provides configuration management for the trade station.
package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	stationName                  = "trade-station"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != stationName {
		t.Errorf("expected app name '%s', got '%s'", stationName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if cfg.Simulator.TradeProbability != 0.08 {
		t.Errorf("expected trade probability 0.08, got %v", cfg.Simulator.TradeProbability)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a config file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != stationName {
		t.Errorf("expected default app name '%s', got '%s'", stationName, cfg.App.Name)
	}

	if cfg.Simulator.MinIntervalMillis != 3000 || cfg.Simulator.MaxIntervalMillis != 5000 {
		t.Errorf("expected default simulator intervals 3000/5000, got %d/%d",
			cfg.Simulator.MinIntervalMillis, cfg.Simulator.MaxIntervalMillis)
	}

	if cfg.Simulator.MaxLiveContracts != 10 {
		t.Errorf("expected default max live contracts 10, got %d", cfg.Simulator.MaxLiveContracts)
	}

	if cfg.Deploy.MinimumCapital != 10.0 {
		t.Errorf("expected default minimum capital 10, got %v", cfg.Deploy.MinimumCapital)
	}

	if !cfg.Features.PaperTradingEnabled {
		t.Error("expected paper trading enabled by default")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("TRADE_STATION_APP_NAME", testAppName)
	defer os.Unsetenv("TRADE_STATION_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidLogLevel tests validation of invalid log level
func TestValidateInvalidLogLevel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.LogLevel = "verbose"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid log level")
	}
}

// TestValidateIntervalOrdering tests the simulator interval cross-field rule
func TestValidateIntervalOrdering(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Simulator.MinIntervalMillis = 5000
	cfg.Simulator.MaxIntervalMillis = 3000
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for inverted intervals")
	}
}

// TestValidateProductionSSL tests that production refuses a disabled SSL mode
func TestValidateProductionSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for disabled SSL in production")
	}

	cfg.Database.SSLMode = "require"
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error with SSL required, got %v", err)
	}
}

// TestValidateLiveTradingRequiresAPIKey tests the live trading credential rule
func TestValidateLiveTradingRequiresAPIKey(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Features.LiveTradingEnabled = true
	cfg.Kalshi.APIKey = ""
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for live trading without API key")
	}

	cfg.Kalshi.APIKey = "test-key"
	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error with API key set, got %v", err)
	}
}

// TestValidateTradeProbabilityBounds tests the probability range constraint
func TestValidateTradeProbabilityBounds(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Simulator.TradeProbability = 1.5
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for probability above 1")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}

	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected DSN to carry ssl mode, got '%s'", dsn)
	}
}

// TestSimulatorIntervals tests schedule bound conversion
func TestSimulatorIntervals(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	min, max := cfg.SimulatorIntervals()
	if min != 3*time.Second {
		t.Errorf("expected min interval 3s, got %v", min)
	}
	if max != 5*time.Second {
		t.Errorf("expected max interval 5s, got %v", max)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}
