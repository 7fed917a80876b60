package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/trade-station/internal/database"
	"github.com/yourusername/trade-station/internal/models"
)

const errScanDerivation = "failed to scan derivation: %w"

// PostgresDerivationRepository implements DerivationRepository for PostgreSQL
type PostgresDerivationRepository struct {
	db *database.DB
}

// NewPostgresDerivationRepository creates a new derivation repository
func NewPostgresDerivationRepository(db *database.DB) DerivationRepository {
	return &PostgresDerivationRepository{db: db}
}

// Save inserts a derived statistics record
func (r *PostgresDerivationRepository) Save(ctx context.Context, configID uuid.UUID, stats *models.BacktestStatistics) error {
	monthly, err := stats.MonthlyReturnsJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal monthly returns: %w", err)
	}

	query := `
		INSERT INTO derivations (
			id, config_id, config_fingerprint, win_rate, total_trades,
			winning_trades, losing_trades, profit_loss, avg_win, avg_loss,
			max_drawdown, sharpe_ratio, sortino_ratio, monthly_returns, derived_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		stats.ID, configID, stats.ConfigFingerprint, stats.WinRate, stats.TotalTrades,
		stats.WinningTrades, stats.LosingTrades, stats.ProfitLoss, stats.AvgWin, stats.AvgLoss,
		stats.MaxDrawdown, stats.SharpeRatio, stats.SortinoRatio, monthly, stats.DerivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save derivation: %w", err)
	}
	return nil
}

const derivationColumns = `
	id, config_id, config_fingerprint, win_rate, total_trades,
	winning_trades, losing_trades, profit_loss, avg_win, avg_loss,
	max_drawdown, sharpe_ratio, sortino_ratio, monthly_returns, derived_at
`

func scanDerivation(row pgx.Row) (*models.BacktestStatistics, error) {
	stats := &models.BacktestStatistics{}
	if err := row.Scan(
		&stats.ID, &stats.StrategyID, &stats.ConfigFingerprint, &stats.WinRate, &stats.TotalTrades,
		&stats.WinningTrades, &stats.LosingTrades, &stats.ProfitLoss, &stats.AvgWin, &stats.AvgLoss,
		&stats.MaxDrawdown, &stats.SharpeRatio, &stats.SortinoRatio, &stats.MonthlyReturns, &stats.DerivedAt,
	); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetLatestForConfig retrieves the most recent derivation for a config
func (r *PostgresDerivationRepository) GetLatestForConfig(ctx context.Context, configID uuid.UUID) (*models.BacktestStatistics, error) {
	query := `
		SELECT ` + derivationColumns + `
		FROM derivations WHERE config_id = $1 ORDER BY derived_at DESC LIMIT 1
	`

	stats, err := scanDerivation(r.db.GetPool().QueryRow(ctx, query, configID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(errScanDerivation, err)
	}
	return stats, nil
}

// GetByFingerprint retrieves the most recent derivation matching a config fingerprint
func (r *PostgresDerivationRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*models.BacktestStatistics, error) {
	query := `
		SELECT ` + derivationColumns + `
		FROM derivations WHERE config_fingerprint = $1 ORDER BY derived_at DESC LIMIT 1
	`

	stats, err := scanDerivation(r.db.GetPool().QueryRow(ctx, query, fingerprint))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(errScanDerivation, err)
	}
	return stats, nil
}

// GetByDateRange retrieves derivations within a date range
func (r *PostgresDerivationRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.BacktestStatistics, error) {
	query := `
		SELECT ` + derivationColumns + `
		FROM derivations WHERE derived_at >= $1 AND derived_at <= $2 ORDER BY derived_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query derivations by date range: %w", err)
	}
	defer rows.Close()

	var results []*models.BacktestStatistics
	for rows.Next() {
		stats, err := scanDerivation(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanDerivation, err)
		}
		results = append(results, stats)
	}
	return results, rows.Err()
}
