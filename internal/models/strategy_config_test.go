package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *StrategyConfig {
	return &StrategyConfig{
		ID:              uuid.New(),
		Name:            "Momentum Alpha",
		Type:            StrategyTypeMomentum,
		Markets:         []MarketID{MarketKalshi},
		EntryConditions: []ConditionID{"momentum-shift"},
		AdvancedExitConditions: map[ConditionID]ExitConditionState{
			"take-profit": {Enabled: true, Value: 20},
		},
		Settings: DefaultRiskSettings(),
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	config := validConfig()
	config.Name = ""
	assert.ErrorIs(t, config.Validate(), ErrStrategyNameRequired)

	config = validConfig()
	config.Type = ""
	assert.ErrorIs(t, config.Validate(), ErrStrategyTypeRequired)

	config = validConfig()
	config.Markets = nil
	assert.ErrorIs(t, config.Validate(), ErrMarketsRequired)

	config = validConfig()
	config.EntryConditions = nil
	assert.ErrorIs(t, config.Validate(), ErrEntryConditionRequired)

	config = validConfig()
	config.AdvancedExitConditions["take-profit"] = ExitConditionState{Enabled: false, Value: 20}
	assert.ErrorIs(t, config.Validate(), ErrExitConditionRequired)
	assert.False(t, config.BacktestEligible())
}

func TestExitStateDefaultsWhenAbsent(t *testing.T) {
	config := validConfig()

	state := config.ExitState("take-profit", 99)
	assert.True(t, state.Enabled)
	assert.Equal(t, 20.0, state.Value)

	state = config.ExitState("stop-loss", 10)
	assert.False(t, state.Enabled)
	assert.Equal(t, 10.0, state.Value)
}

func TestExitEnabled(t *testing.T) {
	config := validConfig()
	config.AdvancedExitConditions["stop-loss"] = ExitConditionState{Enabled: false, Value: 10}

	assert.True(t, config.ExitEnabled("take-profit"))
	assert.False(t, config.ExitEnabled("stop-loss"))
	assert.False(t, config.ExitEnabled("trailing-stop"))
}

func TestFingerprintIsStable(t *testing.T) {
	config := validConfig()
	assert.Equal(t, config.Fingerprint(), config.Fingerprint())
}

func TestFingerprintIgnoresDisplayOrder(t *testing.T) {
	a := validConfig()
	a.Markets = []MarketID{MarketKalshi, MarketPolymarket}
	a.EntryConditions = []ConditionID{"momentum-shift", "volume-spike"}
	a.ConditionalRules = []ConditionalRule{
		{Trigger: "pnl-above", TriggerValue: 100, Action: "increase-position", ActionValue: 10},
		{Trigger: "loss-streak", TriggerValue: 3, Action: "pause-strategy", ActionValue: 4},
	}

	b := validConfig()
	b.ID = a.ID
	b.Markets = []MarketID{MarketPolymarket, MarketKalshi}
	b.EntryConditions = []ConditionID{"volume-spike", "momentum-shift"}
	b.ConditionalRules = []ConditionalRule{
		{Trigger: "loss-streak", TriggerValue: 3, Action: "pause-strategy", ActionValue: 4},
		{Trigger: "pnl-above", TriggerValue: 100, Action: "increase-position", ActionValue: 10},
	}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintIgnoresIDAndTimestamps(t *testing.T) {
	a := validConfig()
	b := validConfig()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintDetectsChanges(t *testing.T) {
	base := validConfig().Fingerprint()

	config := validConfig()
	config.Settings.MinEdge = 3.5
	assert.NotEqual(t, base, config.Fingerprint())

	config = validConfig()
	config.AdvancedExitConditions["take-profit"] = ExitConditionState{Enabled: true, Value: 30}
	assert.NotEqual(t, base, config.Fingerprint())

	config = validConfig()
	config.Markets = append(config.Markets, MarketPolymarket)
	assert.NotEqual(t, base, config.Fingerprint())
}

func TestStatisticsMatches(t *testing.T) {
	config := validConfig()
	stats := &BacktestStatistics{ConfigFingerprint: config.Fingerprint()}

	assert.True(t, stats.Matches(config))

	config.Settings.MaxPosition = 250
	assert.False(t, stats.Matches(config))

	assert.False(t, stats.Matches(nil))
	assert.False(t, (*BacktestStatistics)(nil).Matches(config))
}

func TestDefaultRiskSettings(t *testing.T) {
	settings := DefaultRiskSettings()
	assert.Equal(t, 2.0, settings.MinEdge)
	assert.Equal(t, 100.0, settings.MaxPosition)
	assert.Equal(t, 5, settings.MaxConcurrent)
}

func TestDeployedStrategyClone(t *testing.T) {
	stopped := time.Now().Add(-time.Hour)
	original := &DeployedStrategy{
		ID:        uuid.New(),
		Name:      "Momentum Alpha",
		Capital:   500,
		Mode:      TradingModePaper,
		Status:    StrategyStatusStopped,
		Markets:   []MarketID{MarketKalshi},
		StoppedAt: &stopped,
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Markets[0] = MarketPolymarket
	*clone.StoppedAt = clone.StoppedAt.Add(time.Hour)
	clone.PnL = 42

	assert.Equal(t, MarketKalshi, original.Markets[0])
	assert.Equal(t, stopped, *original.StoppedAt)
	assert.Zero(t, original.PnL)
}

func TestDeployedStrategyPlatforms(t *testing.T) {
	s := &DeployedStrategy{Markets: []MarketID{MarketPolymarket}}
	assert.Equal(t, []MarketID{MarketPolymarket}, s.Platforms())

	s.Markets = nil
	assert.Equal(t, []MarketID{MarketKalshi, MarketPolymarket}, s.Platforms())
}

func TestIsRunning(t *testing.T) {
	s := &DeployedStrategy{Status: StrategyStatusRunning}
	assert.True(t, s.IsRunning())
	s.Status = StrategyStatusStopped
	assert.False(t, s.IsRunning())
}
