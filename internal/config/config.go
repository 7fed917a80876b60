// Package config provides configuration management for the trade station.
package config

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Paper     PaperConfig     `mapstructure:"paper" validate:"required"`
	Kalshi    KalshiConfig    `mapstructure:"kalshi" validate:"required"`
	Backend   BackendConfig   `mapstructure:"backend" validate:"required"`
	Simulator SimulatorConfig `mapstructure:"simulator" validate:"required"`
	Deploy    DeployConfig    `mapstructure:"deploy" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Features  FeaturesConfig  `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the optional postgres connection used for
// saved strategy configs and persisted derivations.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// PaperConfig represents the paper trading collaborator
type PaperConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// KalshiConfig represents the Kalshi live trading collaborator
type KalshiConfig struct {
	BaseURL               string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                string  `mapstructure:"api_key"`
	TimeoutSeconds        int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit             float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	TickerCacheTTLSeconds int     `mapstructure:"ticker_cache_ttl_seconds" validate:"required,gt=0"`
}

// BackendConfig represents the strategy persistence backend
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	ReconcileCron  string `mapstructure:"reconcile_cron" validate:"required"`
}

// SimulatorConfig represents the activity loop schedule
type SimulatorConfig struct {
	MinIntervalMillis int     `mapstructure:"min_interval_millis" validate:"required,gt=0"`
	MaxIntervalMillis int     `mapstructure:"max_interval_millis" validate:"required,gtfield=MinIntervalMillis"`
	TradeProbability  float64 `mapstructure:"trade_probability" validate:"required,gt=0,lte=1"`
	MaxLiveContracts  int     `mapstructure:"max_live_contracts" validate:"required,gt=0"`
}

// DeployConfig represents deployment bounds and the local snapshot mirror
type DeployConfig struct {
	MinimumCapital float64 `mapstructure:"minimum_capital" validate:"required,gt=0"`
	SnapshotPath   string  `mapstructure:"snapshot_path" validate:"required"`
	FlushCron      string  `mapstructure:"flush_cron" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// StreamConfig represents the websocket activity broadcast
type StreamConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	LiveTradingEnabled  bool `mapstructure:"live_trading_enabled"`
	PaperTradingEnabled bool `mapstructure:"paper_trading_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
