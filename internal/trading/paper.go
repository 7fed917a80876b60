package trading

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/models"
)

// PaperTrader submits simulated trades against virtual capital
type PaperTrader interface {
	SubmitTrade(ctx context.Context, trade models.SyntheticTrade) error
}

// PaperClient talks to the paper trading collaborator
type PaperClient struct {
	http    *Client
	baseURL string
	logger  *logrus.Logger
}

// NewPaperClient creates a paper trading client
func NewPaperClient(http *Client, baseURL string, logger *logrus.Logger) *PaperClient {
	return &PaperClient{http: http, baseURL: baseURL, logger: logger}
}

type paperTradeRequest struct {
	MarketID     string `json:"marketId"`
	MarketTitle  string `json:"marketTitle"`
	Platform     string `json:"platform"`
	Position     string `json:"position"`
	Contracts    int    `json:"contracts"`
	Price        int    `json:"price"`
	StrategyID   string `json:"strategyId"`
	StrategyName string `json:"strategyName"`
}

type paperTradeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SubmitTrade submits a synthesized paper trade
func (c *PaperClient) SubmitTrade(ctx context.Context, trade models.SyntheticTrade) error {
	req := paperTradeRequest{
		MarketID:     trade.MarketID,
		MarketTitle:  trade.MarketTitle,
		Platform:     string(trade.Platform),
		Position:     string(trade.Side),
		Contracts:    trade.Contracts,
		Price:        trade.PriceCents,
		StrategyID:   trade.StrategyID.String(),
		StrategyName: trade.StrategyName,
	}

	var resp paperTradeResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/trade", req, &resp); err != nil {
		return fmt.Errorf("paper trade submission failed: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("paper trade rejected: %s", resp.Error)
	}

	c.logger.WithFields(logrus.Fields{
		"strategy_id": trade.StrategyID,
		"market":      trade.MarketTitle,
		"platform":    trade.Platform,
		"position":    trade.Side,
		"contracts":   trade.Contracts,
		"price_cents": trade.PriceCents,
	}).Info("Paper trade submitted")

	return nil
}

type paperPortfolioResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// Balance returns the paper portfolio balance
func (c *PaperClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	var resp paperPortfolioResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/portfolio", &resp); err != nil {
		return decimal.Zero, fmt.Errorf("paper balance lookup failed: %w", err)
	}
	return resp.Balance, nil
}
