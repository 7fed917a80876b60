// Package metrics provides the centralized Prometheus metrics registry for
// the trade station.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ActivityTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "activity_ticks_total",
		Help:      "Total number of simulator activity ticks",
	})
	TradesSynthesizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "trades_synthesized_total",
		Help:      "Total number of synthesized trades by mode",
	}, []string{"mode"})
	TradeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "trade_failures_total",
		Help:      "Total number of trade synthesis attempts that degraded to a status message",
	})
	StrategiesDeployedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "strategies_deployed_total",
		Help:      "Total number of strategy deployments",
	})
	BacktestsDerivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "backtests_derived_total",
		Help:      "Total number of backtest statistic derivations",
	})
	RemoteSyncFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "remote_sync_failures_total",
		Help:      "Total number of failed best-effort remote persistence calls",
	})
	TickerResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_station",
		Name:      "ticker_resolutions_total",
		Help:      "Total number of live ticker resolution attempts by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	RunningStrategies = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trade_station",
		Name:      "running_strategies",
		Help:      "Number of deployed strategies currently running",
	})
	DeployedStrategies = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trade_station",
		Name:      "deployed_strategies",
		Help:      "Number of deployed strategies in the collection",
	})
	OpenPnL = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "trade_station",
		Name:      "open_pnl",
		Help:      "Summed P&L across all deployed strategies",
	})
	AvailableBalance = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "trade_station",
		Name:      "available_balance",
		Help:      "Last observed collaborator balance by trading mode",
	}, []string{"mode"})
)

// Histogram metrics
var (
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trade_station",
		Name:      "tick_duration_seconds",
		Help:      "Duration of one simulator activity tick in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	DeriveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trade_station",
		Name:      "derive_duration_seconds",
		Help:      "Duration of one backtest statistic derivation in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ActivityTicksTotal)
		registry.MustRegister(TradesSynthesizedTotal)
		registry.MustRegister(TradeFailuresTotal)
		registry.MustRegister(StrategiesDeployedTotal)
		registry.MustRegister(BacktestsDerivedTotal)
		registry.MustRegister(RemoteSyncFailuresTotal)
		registry.MustRegister(TickerResolutionsTotal)

		registry.MustRegister(RunningStrategies)
		registry.MustRegister(DeployedStrategies)
		registry.MustRegister(OpenPnL)
		registry.MustRegister(AvailableBalance)

		registry.MustRegister(TickDuration)
		registry.MustRegister(DeriveDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
