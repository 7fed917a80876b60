package trading

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trade-station/internal/models"
)

// Balances resolves the available balance for a trading mode: the paper
// portfolio balance for paper mode, the summed live-account balances for
// live mode. Used only to bound deployment capital.
type Balances struct {
	paper *PaperClient
	live  *KalshiClient
}

// NewBalances creates a balance service over the two collaborators
func NewBalances(paper *PaperClient, live *KalshiClient) *Balances {
	return &Balances{paper: paper, live: live}
}

// AvailableBalance returns the balance for the given mode
func (b *Balances) AvailableBalance(ctx context.Context, mode models.TradingMode) (decimal.Decimal, error) {
	switch mode {
	case models.TradingModePaper:
		return b.paper.Balance(ctx)
	case models.TradingModeLive:
		return b.live.Balance(ctx)
	default:
		return decimal.Zero, fmt.Errorf("unknown trading mode %q", mode)
	}
}
