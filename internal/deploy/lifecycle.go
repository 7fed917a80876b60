package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
)

// MinimumCapital is the smallest deployment the backend accepts, in dollars
const MinimumCapital = 10.0

// RemoteClient is the strategy persistence backend. Its failures never
// block a lifecycle operation; the local store is the source of truth for
// the UI and the remote write is best effort.
type RemoteClient interface {
	FetchDeployed(ctx context.Context) ([]*models.DeployedStrategy, error)
	Deploy(ctx context.Context, strategy *models.DeployedStrategy) error
	Stop(ctx context.Context, id uuid.UUID) error
	Resume(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// BalanceService bounds the capital parameter at deploy time
type BalanceService interface {
	AvailableBalance(ctx context.Context, mode models.TradingMode) (decimal.Decimal, error)
}

// SyncResult reports the outcome of a local-first lifecycle operation.
// Applied reflects the local store; RemoteErr carries the backend failure,
// if any, for logging and manual retry.
type SyncResult struct {
	Applied   bool
	RemoteErr error
}

// Lifecycle governs deployed strategy instances: capital validation,
// status transitions, and removal, with local-first remote sync.
type Lifecycle struct {
	store      *Store
	remote     RemoteClient
	balances   BalanceService
	minCapital float64
	logger     *logrus.Logger
}

// NewLifecycle creates a lifecycle manager. A minCapital of zero or less
// falls back to MinimumCapital.
func NewLifecycle(store *Store, remote RemoteClient, balances BalanceService, minCapital float64, logger *logrus.Logger) *Lifecycle {
	if logger == nil {
		logger = logrus.New()
	}
	if minCapital <= 0 {
		minCapital = MinimumCapital
	}
	return &Lifecycle{
		store:      store,
		remote:     remote,
		balances:   balances,
		minCapital: minCapital,
		logger:     logger,
	}
}

// Deploy validates and creates a running DeployedStrategy from a
// backtest-eligible config whose statistics are current.
func (l *Lifecycle) Deploy(
	ctx context.Context,
	config *models.StrategyConfig,
	stats *models.BacktestStatistics,
	capital float64,
	mode models.TradingMode,
) (*models.DeployedStrategy, SyncResult, error) {
	if err := config.Validate(); err != nil {
		return nil, SyncResult{}, err
	}
	if !stats.Matches(config) {
		return nil, SyncResult{}, models.ErrBacktestStale
	}
	if capital < l.minCapital {
		return nil, SyncResult{}, models.ErrCapitalBelowMinimum
	}

	balance, err := l.balances.AvailableBalance(ctx, mode)
	if err != nil {
		return nil, SyncResult{}, fmt.Errorf("balance lookup failed: %w", err)
	}
	if decimal.NewFromFloat(capital).GreaterThan(balance) {
		return nil, SyncResult{}, models.ErrCapitalExceedsBalance
	}

	strategy := &models.DeployedStrategy{
		ID:        uuid.New(),
		Name:      config.Name,
		Icon:      config.Icon,
		Capital:   capital,
		Mode:      mode,
		Status:    models.StrategyStatusRunning,
		Markets:   append([]models.MarketID(nil), config.Markets...),
		StartedAt: time.Now().UTC(),
	}

	l.store.Put(ctx, strategy)
	metrics.StrategiesDeployedTotal.Inc()

	result := SyncResult{Applied: true}
	if err := l.remote.Deploy(ctx, strategy); err != nil {
		result.RemoteErr = err
		metrics.RemoteSyncFailuresTotal.Inc()
		l.logger.WithFields(logrus.Fields{
			"strategy_id": strategy.ID,
			"error":       err.Error(),
		}).Warn("Remote deploy failed, keeping local record")
	}

	l.logger.WithFields(logrus.Fields{
		"strategy_id": strategy.ID,
		"name":        strategy.Name,
		"capital":     capital,
		"mode":        mode,
	}).Info("Strategy deployed")

	return strategy, result, nil
}

// Stop transitions a strategy to stopped. Stopping an already stopped
// strategy refreshes the stop timestamp and is otherwise a no-op.
func (l *Lifecycle) Stop(ctx context.Context, id uuid.UUID) (SyncResult, error) {
	now := time.Now().UTC()
	applied := l.store.Update(ctx, id, func(strategy models.DeployedStrategy) models.DeployedStrategy {
		strategy.Status = models.StrategyStatusStopped
		strategy.StoppedAt = &now
		return strategy
	})
	if !applied {
		return SyncResult{}, models.ErrStrategyNotFound
	}

	result := SyncResult{Applied: true}
	if err := l.remote.Stop(ctx, id); err != nil {
		result.RemoteErr = err
		metrics.RemoteSyncFailuresTotal.Inc()
		l.logger.WithFields(logrus.Fields{"strategy_id": id, "error": err.Error()}).Warn("Remote stop failed, keeping local state")
	}
	l.logger.WithField("strategy_id", id).Info("Strategy stopped")
	return result, nil
}

// Resume transitions a strategy back to running
func (l *Lifecycle) Resume(ctx context.Context, id uuid.UUID) (SyncResult, error) {
	now := time.Now().UTC()
	applied := l.store.Update(ctx, id, func(strategy models.DeployedStrategy) models.DeployedStrategy {
		strategy.Status = models.StrategyStatusRunning
		strategy.ResumedAt = &now
		return strategy
	})
	if !applied {
		return SyncResult{}, models.ErrStrategyNotFound
	}

	result := SyncResult{Applied: true}
	if err := l.remote.Resume(ctx, id); err != nil {
		result.RemoteErr = err
		metrics.RemoteSyncFailuresTotal.Inc()
		l.logger.WithFields(logrus.Fields{"strategy_id": id, "error": err.Error()}).Warn("Remote resume failed, keeping local state")
	}
	l.logger.WithField("strategy_id", id).Info("Strategy resumed")
	return result, nil
}

// Remove deletes the deployed record. The originating StrategyConfig is
// untouched.
func (l *Lifecycle) Remove(ctx context.Context, id uuid.UUID) (SyncResult, error) {
	if !l.store.Remove(ctx, id) {
		return SyncResult{}, models.ErrStrategyNotFound
	}

	result := SyncResult{Applied: true}
	if err := l.remote.Remove(ctx, id); err != nil {
		result.RemoteErr = err
		metrics.RemoteSyncFailuresTotal.Inc()
		l.logger.WithFields(logrus.Fields{"strategy_id": id, "error": err.Error()}).Warn("Remote remove failed, keeping local state")
	}
	l.logger.WithField("strategy_id", id).Info("Strategy removed")
	return result, nil
}

// Reconcile refreshes the local collection from the backend. On failure or
// an empty result, the local snapshot-backed state stays authoritative.
func (l *Lifecycle) Reconcile(ctx context.Context) error {
	strategies, err := l.remote.FetchDeployed(ctx)
	if err != nil {
		metrics.RemoteSyncFailuresTotal.Inc()
		l.logger.WithError(err).Warn("Remote fetch failed, keeping local snapshot state")
		return err
	}
	if len(strategies) == 0 {
		l.logger.Debug("Remote returned no deployed strategies, keeping local state")
		return nil
	}

	l.store.ReplaceAll(ctx, strategies)
	l.logger.WithField("count", len(strategies)).Info("Deployed strategies reconciled with backend")
	return nil
}

// Store exposes the underlying store for composition
func (l *Lifecycle) Store() *Store {
	return l.store
}
