package simulator

import (
	"fmt"

	"github.com/yourusername/trade-station/internal/models"
)

// rotatingMessages is the fixed status-message set every running strategy
// cycles through. The first entry seeds a strategy's activity record.
var rotatingMessages = []models.ActivityMessage{
	{Text: "Scanning markets for opportunities...", Icon: "🔍"},
	{Text: "Analyzing price movements...", Icon: "📊"},
	{Text: "Monitoring order books...", Icon: "📖"},
	{Text: "Evaluating entry conditions...", Icon: "⚖️"},
	{Text: "Checking cross-platform spreads...", Icon: "🔀"},
	{Text: "Watching news feeds...", Icon: "📰"},
	{Text: "Calculating expected edge...", Icon: "🧮"},
	{Text: "Position sizing in progress...", Icon: "📐"},
}

// marketMessages builds market-specific status messages from the
// strategy's target markets.
func marketMessages(markets []models.MarketID) []models.ActivityMessage {
	out := make([]models.ActivityMessage, 0, len(markets))
	for _, market := range markets {
		out = append(out, models.ActivityMessage{
			Text: fmt.Sprintf("Scanning %s markets...", market),
			Icon: "🌐",
		})
	}
	return out
}

// sampleMarketTitles is the fixed pool synthesized trades draw from
var sampleMarketTitles = []string{
	"Will the Fed cut rates at the next meeting?",
	"Will BTC close above $100k this month?",
	"Will the S&P 500 finish the week higher?",
	"Will CPI come in above 3.0% next release?",
	"Will it rain in NYC tomorrow?",
	"Will the home team win tonight's game?",
	"Will unemployment stay below 4.5% this quarter?",
	"Will the bill pass the Senate this session?",
	"Will oil trade above $90 this week?",
	"Will the movie open above $50M this weekend?",
}

// Degraded-mode status messages used by the trade synthesizer
var (
	msgScanningLive      = models.ActivityMessage{Text: "Live mode - scanning for tradable markets...", Icon: "📡"}
	msgLiveMonitoring    = models.ActivityMessage{Text: "Live mode - monitoring markets", Icon: "📡"}
	msgOrderRejected     = models.ActivityMessage{Text: "Live order rejected - monitoring markets", Icon: "⚠️"}
	msgTradeExecutedFmt  = "Executed %s %d @ %d¢ on %s"
	msgLiveExecutedFmt   = "Live order filled: %s %d @ %d¢"
)

func tradeExecutedMessage(trade models.SyntheticTrade) models.ActivityMessage {
	return models.ActivityMessage{
		Text: fmt.Sprintf(msgTradeExecutedFmt, trade.Side, trade.Contracts, trade.PriceCents, trade.Platform),
		Icon: "✅",
	}
}

func liveExecutedMessage(side models.TradeSide, count, priceCents int) models.ActivityMessage {
	return models.ActivityMessage{
		Text: fmt.Sprintf(msgLiveExecutedFmt, side, count, priceCents),
		Icon: "⚡",
	}
}
