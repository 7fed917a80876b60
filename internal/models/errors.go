package models

import "errors"

// Custom errors
var (
	ErrStrategyNameRequired   = errors.New("strategy name is required")
	ErrStrategyTypeRequired   = errors.New("strategy type is required")
	ErrMarketsRequired        = errors.New("at least one market is required")
	ErrEntryConditionRequired = errors.New("at least one entry condition is required")
	ErrExitConditionRequired  = errors.New("at least one enabled exit condition is required")
	ErrBacktestStale          = errors.New("backtest statistics are stale for this configuration")
	ErrCapitalBelowMinimum    = errors.New("capital is below the minimum deployment amount")
	ErrCapitalExceedsBalance  = errors.New("capital exceeds available balance")
	ErrStrategyNotFound       = errors.New("deployed strategy not found")
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateKey           = errors.New("duplicate key violation")
	ErrInvalidID              = errors.New("invalid ID format")
)
