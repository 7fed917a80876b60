// Package main provides the entry point for the trade station daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-station/internal/config"
	"github.com/yourusername/trade-station/internal/database"
	"github.com/yourusername/trade-station/internal/deploy"
	"github.com/yourusername/trade-station/internal/health"
	"github.com/yourusername/trade-station/internal/logger"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
	"github.com/yourusername/trade-station/internal/scheduler"
	"github.com/yourusername/trade-station/internal/simulator"
	"github.com/yourusername/trade-station/internal/stream"
	"github.com/yourusername/trade-station/internal/trading"
)

// httpConfig applies per-collaborator timeout and rate limit over the
// shared retry defaults. A zero rate keeps the default limit.
func httpConfig(timeoutSeconds int, rateLimit float64) trading.HTTPClientConfig {
	cfg := trading.DefaultHTTPClientConfig()
	if timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	if rateLimit > 0 {
		cfg.RateLimit = rateLimit
	}
	return cfg
}

// enabledModes lists the trading modes switched on by feature flags
func enabledModes(cfg *config.Config) []models.TradingMode {
	var modes []models.TradingMode
	if cfg.Features.PaperTradingEnabled {
		modes = append(modes, models.TradingModePaper)
	}
	if cfg.Features.LiveTradingEnabled {
		modes = append(modes, models.TradingModeLive)
	}
	return modes
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !cfg.Features.LiveTradingEnabled && !cfg.Features.PaperTradingEnabled {
		log.Fatalf("At least one trading mode must be enabled")
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Trade Station starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional database for saved configs and derivation history
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
		appLog.Info("Database connection established")
	} else {
		appLog.Info("Database disabled; saved configs unavailable")
	}

	// HTTP collaborators
	paperHTTP := trading.NewClient(httpConfig(cfg.Paper.TimeoutSeconds, cfg.Paper.RateLimit), appLog)
	paperClient := trading.NewPaperClient(paperHTTP, cfg.Paper.BaseURL, appLog)

	kalshiHTTPCfg := httpConfig(cfg.Kalshi.TimeoutSeconds, cfg.Kalshi.RateLimit)
	kalshiHTTPCfg.BearerToken = cfg.Kalshi.APIKey
	kalshiHTTP := trading.NewClient(kalshiHTTPCfg, appLog)
	kalshiClient := trading.NewKalshiClient(
		kalshiHTTP,
		cfg.Kalshi.BaseURL,
		time.Duration(cfg.Kalshi.TickerCacheTTLSeconds)*time.Second,
		appLog,
	)

	backendHTTP := trading.NewClient(httpConfig(cfg.Backend.TimeoutSeconds, 0), appLog)
	backendClient := trading.NewBackendClient(backendHTTP, cfg.Backend.BaseURL, appLog)

	balances := trading.NewBalances(paperClient, kalshiClient)

	// Deployment state: snapshot-backed local store with remote sync
	snapshot := deploy.NewFileSnapshot(cfg.Deploy.SnapshotPath)
	store := deploy.NewStore(snapshot, appLog)
	if err := store.Restore(ctx); err != nil {
		appLog.WithError(err).Warn("Failed to restore deployment snapshot, starting empty")
	}
	lifecycle := deploy.NewLifecycle(store, backendClient, balances, cfg.Deploy.MinimumCapital, appLog)

	// Reconcile against the backend once at startup; failure keeps snapshot state
	if err := lifecycle.Reconcile(ctx); err != nil {
		appLog.WithError(err).Warn("Initial reconcile failed, using snapshot state")
	}

	// Activity stream
	var publisher simulator.Publisher
	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(appLog)
		publisher = hub
		go func() {
			if err := hub.Serve(ctx, cfg.Stream.Port); err != nil {
				appLog.WithError(err).Error("Activity stream server stopped")
			}
		}()
	}

	// Simulator loop
	board := simulator.NewBoard()
	synthesizer := simulator.NewSynthesizer(store, board, paperClient, kalshiClient, kalshiClient, nil, cfg.Simulator.MaxLiveContracts, appLog)
	sim := simulator.NewActivitySimulator(
		simulator.Config{
			MinInterval:      time.Duration(cfg.Simulator.MinIntervalMillis) * time.Millisecond,
			MaxInterval:      time.Duration(cfg.Simulator.MaxIntervalMillis) * time.Millisecond,
			TradeProbability: cfg.Simulator.TradeProbability,
		},
		store,
		board,
		synthesizer,
		publisher,
		nil,
		appLog,
	)
	sim.Start(ctx)

	// Background maintenance jobs
	sched := scheduler.NewScheduler(lifecycle, appLog)
	if err := sched.ScheduleSnapshotFlush(cfg.Deploy.FlushCron); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule snapshot flush")
	}
	if err := sched.ScheduleRemoteReconcile(cfg.Backend.ReconcileCron); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule remote reconcile")
	}
	if err := sched.ScheduleFunc(60, "balance_refresh", func(jobCtx context.Context) error {
		for _, mode := range enabledModes(cfg) {
			balance, err := balances.AvailableBalance(jobCtx, mode)
			if err != nil {
				return fmt.Errorf("balance refresh for %s: %w", mode, err)
			}
			value, _ := balance.Float64()
			metrics.AvailableBalance.WithLabelValues(string(mode)).Set(value)
		}
		return nil
	}); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule balance refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server listening")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Health endpoints
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Logger:      appLog,
		Deployments: store,
	}
	if db != nil {
		healthCfg.DB = db
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"paper_trading":     cfg.Features.PaperTradingEnabled,
		"live_trading":      cfg.Features.LiveTradingEnabled,
		"deployed":          store.Count(),
		"trade_probability": cfg.Simulator.TradeProbability,
	}).Info("Trade Station running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)

	// Graceful shutdown: stop ticking, flush state, then tear down transports
	sim.Stop()
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	store.Flush(context.Background())
	cancel()

	paperHTTP.Close()
	kalshiHTTP.Close()
	backendHTTP.Close()

	time.Sleep(500 * time.Millisecond)
	appLog.Info("Trade Station shut down")
}
