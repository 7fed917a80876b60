package trading

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
)

// ResolvedMarket is a tradable Kalshi market resolved from a market title
type ResolvedMarket struct {
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
	YesAsk int    `json:"yes_ask"`
	NoAsk  int    `json:"no_ask"`
}

// BestAsk returns the ask price in cents for the given side
func (m *ResolvedMarket) BestAsk(side models.TradeSide) int {
	if side == models.TradeSideYes {
		return m.YesAsk
	}
	return m.NoAsk
}

// TickerResolver maps synthetic market titles to real tradable tickers
type TickerResolver interface {
	ResolveTicker(ctx context.Context, title string) (*ResolvedMarket, error)
}

// OrderPlacer submits limit orders to the live exchange
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order OrderRequest) error
}

// OrderRequest is a live limit order submission
type OrderRequest struct {
	Ticker     string           `json:"ticker"`
	Action     string           `json:"action"`
	Side       models.TradeSide `json:"side"`
	Count      int              `json:"count"`
	Type       string           `json:"type"`
	PriceCents int              `json:"price"`
	StrategyID string           `json:"strategyId"`
}

// KalshiClient talks to the Kalshi-oriented live trading collaborator.
// Resolved tickers are cached with a short TTL so repeated synthesis
// against the same market title does not hammer the resolver.
type KalshiClient struct {
	http        *Client
	baseURL     string
	tickerCache *cache.Cache
	logger      *logrus.Logger
}

// NewKalshiClient creates a live trading client
func NewKalshiClient(http *Client, baseURL string, cacheTTL time.Duration, logger *logrus.Logger) *KalshiClient {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &KalshiClient{
		http:        http,
		baseURL:     baseURL,
		tickerCache: cache.New(cacheTTL, cacheTTL*2),
		logger:      logger,
	}
}

type resolveTickerRequest struct {
	Title string `json:"title"`
}

type resolveTickerResponse struct {
	Success bool   `json:"success"`
	Ticker  string `json:"ticker,omitempty"`
	Title   string `json:"title,omitempty"`
	YesAsk  int    `json:"yes_ask,omitempty"`
	NoAsk   int    `json:"no_ask,omitempty"`
}

// ResolveTicker resolves a synthetic market title to a tradable ticker.
// A nil result with nil error means the resolver found no match.
func (c *KalshiClient) ResolveTicker(ctx context.Context, title string) (*ResolvedMarket, error) {
	if hit, found := c.tickerCache.Get(title); found {
		if market, ok := hit.(*ResolvedMarket); ok {
			metrics.TickerResolutionsTotal.WithLabelValues("cache_hit").Inc()
			return market, nil
		}
	}

	var resp resolveTickerResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/resolve-ticker", resolveTickerRequest{Title: title}, &resp); err != nil {
		metrics.TickerResolutionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ticker resolution failed: %w", err)
	}
	if !resp.Success || resp.Ticker == "" {
		metrics.TickerResolutionsTotal.WithLabelValues("miss").Inc()
		c.logger.WithField("title", title).Debug("No tradable ticker for market title")
		return nil, nil
	}

	market := &ResolvedMarket{
		Ticker: resp.Ticker,
		Title:  resp.Title,
		YesAsk: resp.YesAsk,
		NoAsk:  resp.NoAsk,
	}
	c.tickerCache.Set(title, market, cache.DefaultExpiration)
	metrics.TickerResolutionsTotal.WithLabelValues("resolved").Inc()
	return market, nil
}

type orderResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PlaceOrder submits a limit order
func (c *KalshiClient) PlaceOrder(ctx context.Context, order OrderRequest) error {
	var resp orderResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/order", order, &resp); err != nil {
		return fmt.Errorf("order placement failed: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("order rejected: %s", resp.Error)
	}

	c.logger.WithFields(logrus.Fields{
		"ticker":      order.Ticker,
		"side":        order.Side,
		"count":       order.Count,
		"price_cents": order.PriceCents,
		"strategy_id": order.StrategyID,
	}).Info("Live order placed")

	return nil
}

type accountBalance struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

type balancesResponse struct {
	Accounts []accountBalance `json:"accounts"`
}

// Balance returns the summed balance across connected live accounts
func (c *KalshiClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	var resp balancesResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/balances", &resp); err != nil {
		return decimal.Zero, fmt.Errorf("live balance lookup failed: %w", err)
	}

	total := decimal.Zero
	for _, account := range resp.Accounts {
		total = total.Add(account.Balance)
	}
	return total, nil
}
