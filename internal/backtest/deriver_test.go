package backtest

import (
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trade-station/internal/catalog"
	"github.com/yourusername/trade-station/internal/metrics"
	"github.com/yourusername/trade-station/internal/models"
)

// zeroSource returns 0 for every draw, removing all jitter
type zeroSource struct{}

func (zeroSource) Float64() float64 { return 0 }

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func eligibleConfig() *models.StrategyConfig {
	return &models.StrategyConfig{
		Name:            "Kalshi Arb",
		Type:            models.StrategyTypeArbitrage,
		Markets:         []models.MarketID{models.MarketKalshi},
		EntryConditions: []models.ConditionID{"price-divergence"},
		AdvancedExitConditions: map[models.ConditionID]models.ExitConditionState{
			catalog.ExitTakeProfit: {Enabled: true, Value: 15},
		},
		Settings: models.RiskSettings{
			MinEdge:       3,
			MaxPosition:   200,
			StopLoss:      10,
			TakeProfit:    15,
			MaxConcurrent: 5,
		},
	}
}

func TestDeriveFixedScenario(t *testing.T) {
	deriver := NewDeriver(zeroSource{}, newTestLogger())

	stats, err := deriver.Derive(eligibleConfig())
	require.NoError(t, err)

	assert.Equal(t, 66, stats.WinRate)
	assert.Equal(t, 144, stats.TotalTrades)
	assert.Equal(t, -15.0, stats.MaxDrawdown)
	assert.Equal(t, 24.0, stats.AvgWin)
	assert.Equal(t, -14.0, stats.AvgLoss)
	assert.Equal(t, stats.TotalTrades, stats.WinningTrades+stats.LosingTrades)
}

func TestDeriveInvariants(t *testing.T) {
	types := []models.StrategyType{
		models.StrategyTypeArbitrage,
		models.StrategyTypeMomentum,
		models.StrategyTypeMeanReversion,
		models.StrategyTypeNewsBased,
		models.StrategyTypeMarketMaking,
		models.StrategyType("custom"),
	}
	edges := []float64{0.5, 3, 10, 20}
	ruleCounts := []int{0, 1, 5, 20}

	rng := rand.New(rand.NewSource(42))
	deriver := NewDeriver(rng, newTestLogger())

	for _, strategyType := range types {
		for _, edge := range edges {
			for _, rules := range ruleCounts {
				config := eligibleConfig()
				config.Type = strategyType
				config.Settings.MinEdge = edge
				for i := 0; i < rules; i++ {
					config.ConditionalRules = append(config.ConditionalRules, models.ConditionalRule{
						Trigger: "pnl-above", TriggerValue: 100,
						Action: "increase-position", ActionValue: 10,
					})
				}

				stats, err := deriver.Derive(config)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, stats.WinRate, 0)
				assert.LessOrEqual(t, stats.WinRate, 95)
				assert.GreaterOrEqual(t, stats.TotalTrades, 0)
				assert.Equal(t, stats.TotalTrades, stats.WinningTrades+stats.LosingTrades)
				assert.GreaterOrEqual(t, stats.AvgWin, 0.0)
				assert.LessOrEqual(t, stats.AvgLoss, 0.0)
				assert.LessOrEqual(t, stats.MaxDrawdown, 0.0)

				require.Len(t, stats.MonthlyReturns, 6)
				sum := 0.0
				for _, month := range stats.MonthlyReturns {
					sum += month.PnL
				}
				assert.InDelta(t, stats.ProfitLoss, sum, 0.5)
			}
		}
	}
}

func TestTrailingStopNeverDecreasesWinRate(t *testing.T) {
	withTrailing := eligibleConfig()
	withTrailing.AdvancedExitConditions[catalog.ExitTrailingStop] = models.ExitConditionState{Enabled: true, Value: 5}

	baseline, err := NewDeriver(zeroSource{}, newTestLogger()).Derive(eligibleConfig())
	require.NoError(t, err)
	boosted, err := NewDeriver(zeroSource{}, newTestLogger()).Derive(withTrailing)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, boosted.WinRate, baseline.WinRate)
	assert.LessOrEqual(t, boosted.WinRate, 95)
}

func TestDeriveRecordsMetrics(t *testing.T) {
	countBefore := testutil.ToFloat64(metrics.BacktestsDerivedTotal)
	var snapshot dto.Metric
	require.NoError(t, metrics.DeriveDuration.Write(&snapshot))
	samplesBefore := snapshot.GetHistogram().GetSampleCount()

	_, err := NewDeriver(zeroSource{}, newTestLogger()).Derive(eligibleConfig())
	require.NoError(t, err)

	assert.Equal(t, countBefore+1, testutil.ToFloat64(metrics.BacktestsDerivedTotal))
	require.NoError(t, metrics.DeriveDuration.Write(&snapshot))
	assert.Equal(t, samplesBefore+1, snapshot.GetHistogram().GetSampleCount())
}

func TestDeriveRejectsIncompleteConfig(t *testing.T) {
	deriver := NewDeriver(zeroSource{}, newTestLogger())

	tests := []struct {
		name    string
		mutate  func(*models.StrategyConfig)
		wantErr error
	}{
		{"missing name", func(c *models.StrategyConfig) { c.Name = "" }, models.ErrStrategyNameRequired},
		{"missing type", func(c *models.StrategyConfig) { c.Type = "" }, models.ErrStrategyTypeRequired},
		{"no markets", func(c *models.StrategyConfig) { c.Markets = nil }, models.ErrMarketsRequired},
		{"no entry conditions", func(c *models.StrategyConfig) { c.EntryConditions = nil }, models.ErrEntryConditionRequired},
		{"no enabled exit", func(c *models.StrategyConfig) {
			c.AdvancedExitConditions = map[models.ConditionID]models.ExitConditionState{
				catalog.ExitTakeProfit: {Enabled: false, Value: 15},
			}
		}, models.ErrExitConditionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := eligibleConfig()
			tt.mutate(config)
			_, err := deriver.Derive(config)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeriveRejectsOutOfRangeExitValue(t *testing.T) {
	config := eligibleConfig()
	config.AdvancedExitConditions[catalog.ExitStopLoss] = models.ExitConditionState{Enabled: true, Value: 500}

	_, err := NewDeriver(zeroSource{}, newTestLogger()).Derive(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside range")
}

func TestDeriveInvalidatedByConfigChange(t *testing.T) {
	deriver := NewDeriver(zeroSource{}, newTestLogger())
	config := eligibleConfig()

	stats, err := deriver.Derive(config)
	require.NoError(t, err)
	assert.True(t, stats.Matches(config))

	config.Settings.MinEdge = 4
	assert.False(t, stats.Matches(config))
}
