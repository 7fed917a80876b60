package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/trade-station/internal/models"
)

// ConfigRepository defines the interface for saved strategy configuration access
type ConfigRepository interface {
	Create(ctx context.Context, config *models.StrategyConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StrategyConfig, error)
	GetByName(ctx context.Context, name string) (*models.StrategyConfig, error)
	List(ctx context.Context) ([]*models.StrategyConfig, error)
	Update(ctx context.Context, config *models.StrategyConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DerivationRepository defines persistence for derived backtest statistics
type DerivationRepository interface {
	Save(ctx context.Context, configID uuid.UUID, stats *models.BacktestStatistics) error
	GetLatestForConfig(ctx context.Context, configID uuid.UUID) (*models.BacktestStatistics, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*models.BacktestStatistics, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestStatistics, error)
}
