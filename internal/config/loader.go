// Package config provides configuration management for the trade station.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TRADE_STATION"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for optional fields.
// A missing config file is not an error; defaults and environment
// variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
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

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trade-station")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("paper.timeout_seconds", 15)
	v.SetDefault("paper.rate_limit", 10.0)
	v.SetDefault("kalshi.timeout_seconds", 15)
	v.SetDefault("kalshi.rate_limit", 5.0)
	v.SetDefault("kalshi.ticker_cache_ttl_seconds", 300)
	v.SetDefault("backend.timeout_seconds", 15)
	v.SetDefault("backend.reconcile_cron", "@every 5m")

	v.SetDefault("simulator.min_interval_millis", 3000)
	v.SetDefault("simulator.max_interval_millis", 5000)
	v.SetDefault("simulator.trade_probability", 0.08)
	v.SetDefault("simulator.max_live_contracts", 10)

	v.SetDefault("deploy.minimum_capital", 10.0)
	v.SetDefault("deploy.snapshot_path", "data/deployed_strategies.json")
	v.SetDefault("deploy.flush_cron", "@every 1m")

	v.SetDefault("stream.port", 8090)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("features.paper_trading_enabled", true)
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SimulatorIntervals returns the schedule bounds as durations
func (c *Config) SimulatorIntervals() (time.Duration, time.Duration) {
	return time.Duration(c.Simulator.MinIntervalMillis) * time.Millisecond,
		time.Duration(c.Simulator.MaxIntervalMillis) * time.Millisecond
}
