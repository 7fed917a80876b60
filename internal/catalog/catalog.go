// Package catalog holds the static registries of selectable strategy
// conditions, rule triggers and rule actions. Pure data, no behavior beyond
// lookup and value-bounds checks.
package catalog

import (
	"fmt"

	"github.com/yourusername/trade-station/internal/models"
)

// Well-known advanced exit condition ids
const (
	ExitTakeProfit   models.ConditionID = "take-profit"
	ExitStopLoss     models.ConditionID = "stop-loss"
	ExitTrailingStop models.ConditionID = "trailing-stop"
	ExitTimeLimit    models.ConditionID = "time-exit"
	ExitMarketClose  models.ConditionID = "market-close"
	ExitEdgeCollapse models.ConditionID = "edge-collapse"
)

// ValueKind discriminates the shape of a condition's tunable value
type ValueKind string

const (
	ValueKindNumeric    ValueKind = "numeric"
	ValueKindEnumerated ValueKind = "enumerated"
)

// NumericRange bounds a numeric condition value
type NumericRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// EntryCondition is a selectable entry condition
type EntryCondition struct {
	ID          models.ConditionID `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
}

// ExitCondition is an advanced exit condition with a tunable value. Kind
// selects between a bounded numeric range and a discrete option list; the
// two shapes are never mixed.
type ExitCondition struct {
	ID          models.ConditionID `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Unit        string             `json:"unit"`
	Kind        ValueKind          `json:"kind"`
	Range       NumericRange       `json:"range,omitempty"`
	Options     []float64          `json:"options,omitempty"`
	Default     float64            `json:"default"`
}

// RuleTrigger is a selectable "if" half of a conditional rule
type RuleTrigger struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// RuleAction is a selectable "then" half of a conditional rule
type RuleAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// EntryConditions is the registry of selectable entry conditions
var EntryConditions = []EntryCondition{
	{ID: "price-divergence", Label: "Price divergence", Description: "Same market priced differently across platforms"},
	{ID: "volume-spike", Label: "Volume spike", Description: "Trading volume above rolling average"},
	{ID: "momentum-shift", Label: "Momentum shift", Description: "Sustained directional price movement"},
	{ID: "news-event", Label: "News event", Description: "Breaking news relevant to the market"},
	{ID: "odds-mispricing", Label: "Odds mispricing", Description: "Implied probability outside model estimate"},
	{ID: "spread-compression", Label: "Spread compression", Description: "Bid-ask spread narrowing below threshold"},
	{ID: "liquidity-surge", Label: "Liquidity surge", Description: "Order book depth above threshold"},
	{ID: "time-decay", Label: "Time decay", Description: "Market approaching resolution with stagnant price"},
}

// ExitConditions is the registry of advanced exit conditions
var ExitConditions = []ExitCondition{
	{
		ID: ExitTakeProfit, Label: "Take profit", Unit: "%",
		Description: "Close the position once unrealized profit reaches the target",
		Kind:        ValueKindNumeric, Range: NumericRange{Min: 1, Max: 100, Step: 1}, Default: 20,
	},
	{
		ID: ExitStopLoss, Label: "Stop loss", Unit: "%",
		Description: "Close the position once unrealized loss reaches the limit",
		Kind:        ValueKindNumeric, Range: NumericRange{Min: 1, Max: 50, Step: 1}, Default: 10,
	},
	{
		ID: ExitTrailingStop, Label: "Trailing stop", Unit: "%",
		Description: "Stop level follows the best price at a fixed distance",
		Kind:        ValueKindNumeric, Range: NumericRange{Min: 1, Max: 30, Step: 1}, Default: 5,
	},
	{
		ID: ExitTimeLimit, Label: "Time exit", Unit: "hours",
		Description: "Close the position after a fixed holding duration",
		Kind:        ValueKindEnumerated, Options: []float64{1, 4, 12, 24, 48, 168}, Default: 24,
	},
	{
		ID: ExitMarketClose, Label: "Market close", Unit: "hours",
		Description: "Close the position this long before market resolution",
		Kind:        ValueKindEnumerated, Options: []float64{1, 2, 6, 12, 24}, Default: 2,
	},
	{
		ID: ExitEdgeCollapse, Label: "Edge collapse", Unit: "%",
		Description: "Close the position once the expected edge drops below the floor",
		Kind:        ValueKindNumeric, Range: NumericRange{Min: 0, Max: 10, Step: 0.5}, Default: 1,
	},
}

// RuleTriggers is the registry of conditional rule triggers
var RuleTriggers = []RuleTrigger{
	{ID: "pnl-above", Label: "P&L rises above", Unit: "$"},
	{ID: "pnl-below", Label: "P&L falls below", Unit: "$"},
	{ID: "win-streak", Label: "Win streak reaches", Unit: "trades"},
	{ID: "loss-streak", Label: "Loss streak reaches", Unit: "trades"},
	{ID: "drawdown-above", Label: "Drawdown exceeds", Unit: "%"},
	{ID: "volatility-above", Label: "Market volatility exceeds", Unit: "%"},
}

// RuleActions is the registry of conditional rule actions
var RuleActions = []RuleAction{
	{ID: "increase-position", Label: "Increase position size by", Unit: "%"},
	{ID: "decrease-position", Label: "Decrease position size by", Unit: "%"},
	{ID: "pause-strategy", Label: "Pause trading for", Unit: "hours"},
	{ID: "tighten-stop", Label: "Tighten stop loss to", Unit: "%"},
	{ID: "widen-target", Label: "Widen take profit to", Unit: "%"},
	{ID: "notify", Label: "Send a notification after", Unit: "trades"},
}

// FindExitCondition looks up an exit condition by id
func FindExitCondition(id models.ConditionID) (ExitCondition, bool) {
	for _, c := range ExitConditions {
		if c.ID == id {
			return c, true
		}
	}
	return ExitCondition{}, false
}

// DefaultValue returns the catalog default for an exit condition, or zero
// when the id is unknown.
func DefaultValue(id models.ConditionID) float64 {
	if c, ok := FindExitCondition(id); ok {
		return c.Default
	}
	return 0
}

// ValidateValue checks a proposed value against the condition's declared
// range or option list.
func (c ExitCondition) ValidateValue(value float64) error {
	switch c.Kind {
	case ValueKindNumeric:
		if value < c.Range.Min || value > c.Range.Max {
			return fmt.Errorf("value %.2f for %s outside range [%.2f, %.2f]", value, c.ID, c.Range.Min, c.Range.Max)
		}
		return nil
	case ValueKindEnumerated:
		for _, opt := range c.Options {
			if opt == value {
				return nil
			}
		}
		return fmt.Errorf("value %.2f for %s is not an allowed option", value, c.ID)
	default:
		return fmt.Errorf("unknown value kind %q for %s", c.Kind, c.ID)
	}
}

// ValidateExitStates checks every populated advanced exit state in a config
// against the catalog.
func ValidateExitStates(config *models.StrategyConfig) error {
	for id, state := range config.AdvancedExitConditions {
		condition, ok := FindExitCondition(id)
		if !ok {
			return fmt.Errorf("unknown exit condition %q", id)
		}
		if !state.Enabled {
			continue
		}
		if err := condition.ValidateValue(state.Value); err != nil {
			return err
		}
	}
	return nil
}
