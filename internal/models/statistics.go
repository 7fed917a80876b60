package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MonthlyReturn is one point of the derived monthly return series
type MonthlyReturn struct {
	Month string  `json:"month"`
	PnL   float64 `json:"pnl"`
}

// BacktestStatistics represents the statistics derived from a strategy
// configuration. A value is immutable once derived; re-deriving after any
// config change produces a fresh record with a new ConfigFingerprint.
type BacktestStatistics struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	StrategyID        uuid.UUID       `db:"strategy_id" json:"strategy_id"`
	ConfigFingerprint string          `db:"config_fingerprint" json:"config_fingerprint"`
	WinRate           int             `db:"win_rate" json:"win_rate"`
	TotalTrades       int             `db:"total_trades" json:"total_trades"`
	WinningTrades     int             `db:"winning_trades" json:"winning_trades"`
	LosingTrades      int             `db:"losing_trades" json:"losing_trades"`
	ProfitLoss        float64         `db:"profit_loss" json:"profit_loss"`
	AvgWin            float64         `db:"avg_win" json:"avg_win"`
	AvgLoss           float64         `db:"avg_loss" json:"avg_loss"`
	MaxDrawdown       float64         `db:"max_drawdown" json:"max_drawdown"`
	SharpeRatio       float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio      float64         `db:"sortino_ratio" json:"sortino_ratio"`
	MonthlyReturns    []MonthlyReturn `db:"monthly_returns" json:"monthly_returns"`
	DerivedAt         time.Time       `db:"derived_at" json:"derived_at"`
}

// Matches reports whether the statistics were derived from the given config
func (s *BacktestStatistics) Matches(config *StrategyConfig) bool {
	if s == nil || config == nil {
		return false
	}
	return s.ConfigFingerprint == config.Fingerprint()
}

// MonthlyReturnsJSON serializes the monthly series for persistence
func (s *BacktestStatistics) MonthlyReturnsJSON() (json.RawMessage, error) {
	return json.Marshal(s.MonthlyReturns)
}
