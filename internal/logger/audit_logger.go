// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for trade events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogTradePlacement logs a synthetic trade placement event.
func (al *AuditLogger) LogTradePlacement(strategyID, strategyName, marketTitle, platform, side string, contracts, priceCents int, timestamp time.Time, paperTrading bool) {
	al.WithFields(logrus.Fields{
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"market_title":  marketTitle,
		"platform":      platform,
		"side":          side,
		"contracts":     contracts,
		"price_cents":   priceCents,
		"timestamp":     timestamp.Unix(),
		"paper_trading": paperTrading,
	}).Info("Trade placement recorded")
}

// LogLiveOrder logs a live order submitted to Kalshi.
func (al *AuditLogger) LogLiveOrder(strategyID, ticker, side string, contracts, priceCents int, capped bool) {
	al.WithFields(logrus.Fields{
		"strategy_id": strategyID,
		"ticker":      ticker,
		"side":        side,
		"contracts":   contracts,
		"price_cents": priceCents,
		"capped":      capped,
	}).Info("Live order submitted")
}

// LogRemoteSyncFailure logs a failed remote synchronization kept local-only.
func (al *AuditLogger) LogRemoteSyncFailure(operation, strategyID string, err error) {
	al.WithFields(logrus.Fields{
		"operation":   operation,
		"strategy_id": strategyID,
		"error":       err.Error(),
	}).Warn("Remote sync failed, local state retained")
}

// LogSnapshotFlush logs a deployed-strategies snapshot flush.
func (al *AuditLogger) LogSnapshotFlush(strategies int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"strategies":  strategies,
		"duration_ms": durationMs,
	}).Debug("Deployment snapshot flushed")
}
