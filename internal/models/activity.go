package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityMessage is the status line shown for a running strategy
type ActivityMessage struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// ActivityState is the ephemeral per-strategy activity record maintained by
// the simulator. It is recreated whenever missing for a running strategy and
// discarded implicitly when the strategy is removed.
type ActivityState struct {
	StrategyID         uuid.UUID       `json:"strategy_id"`
	Message            ActivityMessage `json:"message"`
	MarketsScanned     int             `json:"markets_scanned"`
	OpportunitiesFound int             `json:"opportunities_found"`
	LastActive         time.Time       `json:"last_active"`
}

// TradeSide is the side of a synthesized prediction-market position
type TradeSide string

const (
	TradeSideYes TradeSide = "yes"
	TradeSideNo  TradeSide = "no"
)

// SyntheticTrade holds the parameters of one synthesized trade before it is
// routed to the paper or live collaborator.
type SyntheticTrade struct {
	MarketID     string    `json:"market_id"`
	MarketTitle  string    `json:"market_title"`
	Platform     MarketID  `json:"platform"`
	Side         TradeSide `json:"position"`
	Contracts    int       `json:"contracts"`
	PriceCents   int       `json:"price"`
	StrategyID   uuid.UUID `json:"strategy_id"`
	StrategyName string    `json:"strategy_name"`
}
