package models

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StrategyType represents the family of trading strategy
type StrategyType string

const (
	StrategyTypeArbitrage     StrategyType = "arbitrage"
	StrategyTypeMomentum      StrategyType = "momentum"
	StrategyTypeMeanReversion StrategyType = "mean-reversion"
	StrategyTypeNewsBased     StrategyType = "news-based"
	StrategyTypeMarketMaking  StrategyType = "market-making"
)

// ConditionID identifies an entry or exit condition from the catalog
type ConditionID string

// MarketID identifies a target market platform
type MarketID string

const (
	MarketKalshi     MarketID = "Kalshi"
	MarketPolymarket MarketID = "Polymarket"
)

// ExitConditionState holds the tunable state of one advanced exit condition
type ExitConditionState struct {
	Enabled bool    `db:"enabled" json:"enabled"`
	Value   float64 `db:"value" json:"value"`
}

// ConditionalRule represents an "if trigger then action" pair attached to a strategy.
// Rules contribute a performance bonus in the derived statistics; their
// trigger/action semantics are not executed at runtime.
type ConditionalRule struct {
	ID           string  `db:"id" json:"id"`
	Trigger      string  `db:"trigger" json:"trigger" validate:"required"`
	TriggerValue float64 `db:"trigger_value" json:"trigger_value"`
	Action       string  `db:"action" json:"action" validate:"required"`
	ActionValue  float64 `db:"action_value" json:"action_value"`
}

// RiskSettings represents strategy-level risk management parameters
type RiskSettings struct {
	MinEdge        float64 `db:"min_edge" json:"min_edge" validate:"required,gt=0"`
	MaxPosition    float64 `db:"max_position" json:"max_position" validate:"required,gt=0"`
	StopLoss       float64 `db:"stop_loss" json:"stop_loss" validate:"gte=0"`
	TakeProfit     float64 `db:"take_profit" json:"take_profit" validate:"gte=0"`
	MaxConcurrent  int     `db:"max_concurrent" json:"max_concurrent" validate:"required,gte=1"`
	DailyLossLimit float64 `db:"daily_loss_limit" json:"daily_loss_limit" validate:"gte=0"`
}

// DefaultRiskSettings returns the settings a new wizard config starts from
func DefaultRiskSettings() RiskSettings {
	return RiskSettings{
		MinEdge:        2.0,
		MaxPosition:    100,
		StopLoss:       10,
		TakeProfit:     20,
		MaxConcurrent:  5,
		DailyLossLimit: 500,
	}
}

// StrategyConfig represents an in-progress or saved trading strategy
type StrategyConfig struct {
	ID                     uuid.UUID                            `db:"id" json:"id"`
	Name                   string                               `db:"name" json:"name" validate:"max=255"`
	Type                   StrategyType                         `db:"type" json:"type"`
	Icon                   string                               `db:"icon" json:"icon"`
	Markets                []MarketID                           `db:"markets" json:"markets"`
	EntryConditions        []ConditionID                        `db:"entry_conditions" json:"entry_conditions"`
	ExitConditions         []ConditionID                        `db:"exit_conditions" json:"exit_conditions"`
	AdvancedExitConditions map[ConditionID]ExitConditionState   `db:"advanced_exit_conditions" json:"advanced_exit_conditions"`
	ConditionalRules       []ConditionalRule                    `db:"conditional_rules" json:"conditional_rules"`
	Settings               RiskSettings                         `db:"settings" json:"settings"`
	CreatedAt              time.Time                            `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time                            `db:"updated_at" json:"updated_at"`
}

// ExitState returns the state of an advanced exit condition, defaulting
// absent entries to disabled with the supplied catalog default value.
func (c *StrategyConfig) ExitState(id ConditionID, catalogDefault float64) ExitConditionState {
	if state, ok := c.AdvancedExitConditions[id]; ok {
		return state
	}
	return ExitConditionState{Enabled: false, Value: catalogDefault}
}

// ExitEnabled reports whether an advanced exit condition is enabled
func (c *StrategyConfig) ExitEnabled(id ConditionID) bool {
	state, ok := c.AdvancedExitConditions[id]
	return ok && state.Enabled
}

// HasEnabledExit reports whether at least one advanced exit condition is enabled
func (c *StrategyConfig) HasEnabledExit() bool {
	for _, state := range c.AdvancedExitConditions {
		if state.Enabled {
			return true
		}
	}
	return false
}

// Validate checks backtest eligibility and returns the first violation
func (c *StrategyConfig) Validate() error {
	if c.Name == "" {
		return ErrStrategyNameRequired
	}
	if c.Type == "" {
		return ErrStrategyTypeRequired
	}
	if len(c.Markets) == 0 {
		return ErrMarketsRequired
	}
	if len(c.EntryConditions) == 0 {
		return ErrEntryConditionRequired
	}
	if !c.HasEnabledExit() {
		return ErrExitConditionRequired
	}
	return nil
}

// BacktestEligible reports whether the config can be backtested and deployed
func (c *StrategyConfig) BacktestEligible() bool {
	return c.Validate() == nil
}

// fingerprintPayload is the canonical form hashed by Fingerprint. Map and
// slice fields are normalized so that display ordering does not change the
// hash; rules are order-insensitive for valuation purposes.
type fingerprintPayload struct {
	Name    string            `json:"name"`
	Type    StrategyType      `json:"type"`
	Markets []MarketID        `json:"markets"`
	Entry   []ConditionID     `json:"entry"`
	Exit    []ConditionID     `json:"exit"`
	AdvExit []advExitEntry    `json:"adv_exit"`
	Rules   []ConditionalRule `json:"rules"`
	Risk    RiskSettings      `json:"risk"`
}

type advExitEntry struct {
	ID    ConditionID        `json:"id"`
	State ExitConditionState `json:"state"`
}

// Fingerprint returns a stable hash of every field that influences derived
// statistics. A deployment is refused when the latest backtest was computed
// against a different fingerprint.
func (c *StrategyConfig) Fingerprint() string {
	payload := fingerprintPayload{
		Name:    c.Name,
		Type:    c.Type,
		Markets: append([]MarketID(nil), c.Markets...),
		Entry:   append([]ConditionID(nil), c.EntryConditions...),
		Exit:    append([]ConditionID(nil), c.ExitConditions...),
		Rules:   sortedRules(c.ConditionalRules),
		Risk:    c.Settings,
	}
	sort.Slice(payload.Markets, func(i, j int) bool { return payload.Markets[i] < payload.Markets[j] })
	sort.Slice(payload.Entry, func(i, j int) bool { return payload.Entry[i] < payload.Entry[j] })
	sort.Slice(payload.Exit, func(i, j int) bool { return payload.Exit[i] < payload.Exit[j] })

	for id, state := range c.AdvancedExitConditions {
		payload.AdvExit = append(payload.AdvExit, advExitEntry{ID: id, State: state})
	}
	sort.Slice(payload.AdvExit, func(i, j int) bool { return payload.AdvExit[i].ID < payload.AdvExit[j].ID })

	data, _ := json.Marshal(payload)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

func sortedRules(rules []ConditionalRule) []ConditionalRule {
	out := append([]ConditionalRule(nil), rules...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trigger != out[j].Trigger {
			return out[i].Trigger < out[j].Trigger
		}
		return out[i].Action < out[j].Action
	})
	return out
}
