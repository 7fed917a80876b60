package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/deploy"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
	"github.com/yourusername/trade-station/internal/trading"
)

// MaxLiveContracts caps the contract count of any auto-submitted live
// order. Carried over from the source system's safety policy.
const MaxLiveContracts = 10

// Synthesizer picks synthetic trade parameters for a running strategy and
// routes them to the paper or live collaborator. All collaborator failures
// degrade to an activity status message; nothing propagates to the caller.
type Synthesizer struct {
	store    *deploy.Store
	board    *Board
	paper    trading.PaperTrader
	resolver trading.TickerResolver
	orders   trading.OrderPlacer
	rng      Source
	maxLive  int
	logger   *logrus.Logger
}

// NewSynthesizer creates a trade synthesizer. A maxLive of zero or less
// falls back to MaxLiveContracts.
func NewSynthesizer(
	store *deploy.Store,
	board *Board,
	paper trading.PaperTrader,
	resolver trading.TickerResolver,
	orders trading.OrderPlacer,
	rng Source,
	maxLive int,
	logger *logrus.Logger,
) *Synthesizer {
	if logger == nil {
		logger = logrus.New()
	}
	if maxLive <= 0 {
		maxLive = MaxLiveContracts
	}
	return &Synthesizer{
		store:    store,
		board:    board,
		paper:    paper,
		resolver: resolver,
		orders:   orders,
		rng:      rng,
		maxLive:  maxLive,
		logger:   logger,
	}
}

// Execute synthesizes one trade attempt for a running strategy. It is
// side-effecting only and never returns an error; "no trade this tick" is
// a valid outcome for every failure path.
func (s *Synthesizer) Execute(ctx context.Context, strategy *models.DeployedStrategy) {
	trade := s.synthesize(strategy)

	if strategy.Mode == models.TradingModeLive && trade.Platform == models.MarketKalshi {
		s.executeLive(ctx, strategy, trade)
		return
	}
	s.executePaper(ctx, strategy, trade)
}

// synthesize draws the trade parameters: a market title from the sample
// pool, a platform from the strategy's markets, a price in [20,79] cents,
// a contract count in [5,24], and a uniform yes/no side.
func (s *Synthesizer) synthesize(strategy *models.DeployedStrategy) models.SyntheticTrade {
	platforms := strategy.Platforms()
	side := models.TradeSideYes
	if s.rng.Float64() < 0.5 {
		side = models.TradeSideNo
	}

	title := sampleMarketTitles[s.rng.Intn(len(sampleMarketTitles))]
	return models.SyntheticTrade{
		MarketID:     fmt.Sprintf("sim-%d", s.rng.Intn(100000)),
		MarketTitle:  title,
		Platform:     platforms[s.rng.Intn(len(platforms))],
		Side:         side,
		Contracts:    5 + s.rng.Intn(20),
		PriceCents:   20 + s.rng.Intn(60),
		StrategyID:   strategy.ID,
		StrategyName: strategy.Name,
	}
}

func (s *Synthesizer) executeLive(ctx context.Context, strategy *models.DeployedStrategy, trade models.SyntheticTrade) {
	market, err := s.resolver.ResolveTicker(ctx, trade.MarketTitle)
	if err != nil {
		metrics.TradeFailuresTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"strategy_id": strategy.ID,
			"title":       trade.MarketTitle,
			"error":       err.Error(),
		}).Warn("Ticker resolution failed, degrading to monitoring status")
		s.board.SetMessage(strategy.ID, msgLiveMonitoring)
		return
	}
	if market == nil {
		s.board.SetMessage(strategy.ID, msgScanningLive)
		return
	}

	count := trade.Contracts
	if count > s.maxLive {
		count = s.maxLive
	}
	price := market.BestAsk(trade.Side)
	if price <= 0 {
		price = trade.PriceCents
	}

	order := trading.OrderRequest{
		Ticker:     market.Ticker,
		Action:     "buy",
		Side:       trade.Side,
		Count:      count,
		Type:       "limit",
		PriceCents: price,
		StrategyID: strategy.ID.String(),
	}
	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		metrics.TradeFailuresTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"strategy_id": strategy.ID,
			"ticker":      market.Ticker,
			"error":       err.Error(),
		}).Warn("Live order failed")
		s.board.SetMessage(strategy.ID, msgOrderRejected)
		return
	}

	notional, _ := decimal.NewFromInt(int64(price)).
		Mul(decimal.NewFromInt(int64(count))).
		Div(decimal.NewFromInt(100)).
		Float64()

	now := time.Now().UTC()
	applied := s.store.UpdateRunning(ctx, strategy.ID, func(current models.DeployedStrategy) models.DeployedStrategy {
		current.Trades++
		current.PnL -= notional
		current.LastTradeAt = &now
		return current
	})
	if !applied {
		// Strategy stopped or removed while the order was in flight;
		// the result is discarded rather than applied to stale state.
		s.logger.WithField("strategy_id", strategy.ID).Debug("Dropping live trade result for inactive strategy")
		return
	}

	metrics.TradesSynthesizedTotal.WithLabelValues(string(models.TradingModeLive)).Inc()
	s.board.SetMessage(strategy.ID, liveExecutedMessage(trade.Side, count, price))
}

func (s *Synthesizer) executePaper(ctx context.Context, strategy *models.DeployedStrategy, trade models.SyntheticTrade) {
	if err := s.paper.SubmitTrade(ctx, trade); err != nil {
		metrics.TradeFailuresTotal.Inc()
		s.logger.WithFields(logrus.Fields{
			"strategy_id": strategy.ID,
			"market":      trade.MarketTitle,
			"error":       err.Error(),
		}).Warn("Paper trade failed, no trade this tick")
		return
	}

	now := time.Now().UTC()
	applied := s.store.UpdateRunning(ctx, strategy.ID, func(current models.DeployedStrategy) models.DeployedStrategy {
		current.Trades++
		current.LastTradeAt = &now
		return current
	})
	if !applied {
		s.logger.WithField("strategy_id", strategy.ID).Debug("Dropping paper trade result for inactive strategy")
		return
	}

	metrics.TradesSynthesizedTotal.WithLabelValues(string(models.TradingModePaper)).Inc()
	s.board.SetMessage(strategy.ID, tradeExecutedMessage(trade))
}
