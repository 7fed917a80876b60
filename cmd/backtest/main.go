// Package main provides the entry point for the backtest derivation CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-station/internal/backtest"
	"github.com/yourusername/trade-station/internal/config"
	"github.com/yourusername/trade-station/internal/database"
	"github.com/yourusername/trade-station/internal/models"
	"github.com/yourusername/trade-station/internal/repository"
)

func main() {
	var (
		configPath   = flag.String("config", "config/config.yaml", "Path to config file")
		strategyFile = flag.String("strategy-file", "", "Path to a strategy config JSON file")
		strategyName = flag.String("strategy", "", "Saved strategy name to derive (requires database)")
		output       = flag.String("output", "", "Output path for derived statistics (default stdout)")
		save         = flag.Bool("save", false, "Persist the derivation (requires database)")
		seed         = flag.Int64("seed", 0, "Deterministic RNG seed (0 = time-seeded)")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, logger)

	strategyConfig, db := resolveStrategyConfig(ctx, cfg, *strategyFile, *strategyName, logger)
	if db != nil {
		defer db.Close()
	}

	deriver := backtest.NewDeriver(seededSource(*seed), logger)

	start := time.Now()
	stats, err := deriver.Derive(strategyConfig)
	if err != nil {
		logger.Fatalf("Derivation failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"strategy":    strategyConfig.Name,
		"win_rate":    stats.WinRate,
		"trades":      stats.TotalTrades,
		"profit_loss": stats.ProfitLoss,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
	}).Info("Derivation completed")

	if *save {
		persistDerivation(ctx, db, strategyConfig, stats, logger)
	}

	writeResult(stats, *output, logger)
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	return cfg
}

// resolveStrategyConfig loads the config to derive either from a JSON file
// or from the saved-config repository by name.
func resolveStrategyConfig(
	ctx context.Context,
	cfg *config.Config,
	strategyFile string,
	strategyName string,
	logger *logrus.Logger,
) (*models.StrategyConfig, *database.DB) {
	if strategyFile != "" {
		data, err := os.ReadFile(strategyFile)
		if err != nil {
			logger.Fatalf("Failed to read strategy file: %v", err)
		}
		strategyConfig := &models.StrategyConfig{}
		if err := json.Unmarshal(data, strategyConfig); err != nil {
			logger.Fatalf("Failed to parse strategy file: %v", err)
		}
		var db *database.DB
		if cfg.Database.Enabled {
			db = connect(ctx, cfg, logger)
		}
		return strategyConfig, db
	}

	if strategyName == "" {
		logger.Fatal("Either -strategy-file or -strategy must be provided")
	}
	if !cfg.Database.Enabled {
		logger.Fatal("-strategy requires an enabled database")
	}

	db := connect(ctx, cfg, logger)
	repo := repository.NewPostgresConfigRepository(db)
	strategyConfig, err := repo.GetByName(ctx, strategyName)
	if err != nil {
		logger.Fatalf("Failed to load saved strategy %q: %v", strategyName, err)
	}
	return strategyConfig, db
}

func connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *database.DB {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func seededSource(seed int64) backtest.Source {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

func persistDerivation(ctx context.Context, db *database.DB, strategyConfig *models.StrategyConfig, stats *models.BacktestStatistics, logger *logrus.Logger) {
	if db == nil {
		logger.Fatal("-save requires an enabled database")
	}
	repo := repository.NewPostgresDerivationRepository(db)
	if err := repo.Save(ctx, strategyConfig.ID, stats); err != nil {
		logger.Fatalf("Failed to save derivation: %v", err)
	}
	logger.WithField("fingerprint", stats.ConfigFingerprint).Info("Derivation persisted")
}

func writeResult(stats *models.BacktestStatistics, output string, logger *logrus.Logger) {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal statistics: %v", err)
	}
	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		logger.Fatalf("Failed to write output: %v", err)
	}
	logger.WithField("path", output).Info("Statistics written")
}
