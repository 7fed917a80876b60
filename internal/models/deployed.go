package models

import (
	"time"

	"github.com/google/uuid"
)

// TradingMode represents how a deployed strategy routes orders
type TradingMode string

const (
	TradingModePaper TradingMode = "paper"
	TradingModeLive  TradingMode = "live"
)

// StrategyStatus represents the lifecycle state of a deployed strategy
type StrategyStatus string

const (
	StrategyStatusRunning StrategyStatus = "running"
	StrategyStatusStopped StrategyStatus = "stopped"
)

// DeployedStrategy represents a running or paused instance of a strategy
// configuration with allocated capital. PnL and Trades are the only fields
// mutated after deployment; updates are applied as whole-record replacement.
type DeployedStrategy struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Icon        string         `db:"icon" json:"icon"`
	Capital     float64        `db:"capital" json:"capital" validate:"required,gt=0"`
	Mode        TradingMode    `db:"mode" json:"mode" validate:"required,oneof=paper live"`
	Status      StrategyStatus `db:"status" json:"status" validate:"required,oneof=running stopped"`
	Markets     []MarketID     `db:"markets" json:"markets"`
	PnL         float64        `db:"pnl" json:"pnl"`
	Trades      int            `db:"trades" json:"trades" validate:"gte=0"`
	StartedAt   time.Time      `db:"started_at" json:"started_at"`
	StoppedAt   *time.Time     `db:"stopped_at" json:"stopped_at,omitempty"`
	ResumedAt   *time.Time     `db:"resumed_at" json:"resumed_at,omitempty"`
	LastTradeAt *time.Time     `db:"last_trade_at" json:"last_trade_at,omitempty"`
}

// IsRunning reports whether the strategy participates in activity ticks
func (d *DeployedStrategy) IsRunning() bool {
	return d.Status == StrategyStatusRunning
}

// Clone returns a deep copy suitable for copy-on-write updates
func (d *DeployedStrategy) Clone() *DeployedStrategy {
	out := *d
	out.Markets = append([]MarketID(nil), d.Markets...)
	if d.StoppedAt != nil {
		t := *d.StoppedAt
		out.StoppedAt = &t
	}
	if d.ResumedAt != nil {
		t := *d.ResumedAt
		out.ResumedAt = &t
	}
	if d.LastTradeAt != nil {
		t := *d.LastTradeAt
		out.LastTradeAt = &t
	}
	return &out
}

// Platforms returns the markets a synthesized trade may target, defaulting
// to Kalshi and Polymarket when the strategy has no explicit markets.
func (d *DeployedStrategy) Platforms() []MarketID {
	if len(d.Markets) > 0 {
		return d.Markets
	}
	return []MarketID{MarketKalshi, MarketPolymarket}
}
