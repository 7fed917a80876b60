// Package logger provides strategy-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// StrategyLogger provides dedicated logging for strategy lifecycle operations.
type StrategyLogger struct {
	*logrus.Entry
}

// NewStrategyLogger creates a new strategy logger.
func NewStrategyLogger(baseLogger *logrus.Logger) *StrategyLogger {
	return &StrategyLogger{
		Entry: baseLogger.WithField("component", "strategy"),
	}
}

// LogStrategyDeployment logs a strategy deployment event.
func (sl *StrategyLogger) LogStrategyDeployment(strategyID, strategyName, strategyType, mode string, capital float64, remoteSynced bool) {
	sl.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"strategy_type": strategyType,
		"trading_mode":  mode,
		"capital":       capital,
		"remote_synced": remoteSynced,
	}).Info("Strategy deployed")
}

// LogStrategyStop logs a strategy stop event.
func (sl *StrategyLogger) LogStrategyStop(strategyID, strategyName string, trades int, pnl float64) {
	sl.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"trades":        trades,
		"pnl":           pnl,
	}).Info("Strategy stopped")
}

// LogStrategyResume logs a strategy resume event.
func (sl *StrategyLogger) LogStrategyResume(strategyID, strategyName string) {
	sl.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
	}).Info("Strategy resumed")
}

// LogStrategyRemoval logs a strategy removal event.
func (sl *StrategyLogger) LogStrategyRemoval(strategyID, strategyName string, finalPnL float64, totalTrades int) {
	sl.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"final_pnl":     finalPnL,
		"total_trades":  totalTrades,
	}).Info("Strategy removed")
}

// LogBacktestDerivation logs completion of a backtest statistics derivation.
func (sl *StrategyLogger) LogBacktestDerivation(strategyName, strategyType string, winRate, totalTrades int, profitLoss float64, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"strategy_name":        strategyName,
		"strategy_type":        strategyType,
		"win_rate":             winRate,
		"total_trades":         totalTrades,
		"profit_loss":          profitLoss,
		"derivation_duration_ms": durationMs,
	}).Info("Backtest statistics derived")
}

// LogStrategyPnLUpdate logs strategy P&L updates.
func (sl *StrategyLogger) LogStrategyPnLUpdate(strategyID, strategyName string, pnl float64, trades int) {
	sl.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"pnl":           pnl,
		"trades":        trades,
	}).Info("Strategy P&L updated")
}
