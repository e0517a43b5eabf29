// Package logger provides preference-store logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PreferenceLogger provides dedicated logging for persisted user preferences.
type PreferenceLogger struct {
	*logrus.Entry
}

// NewPreferenceLogger creates a new preference logger.
func NewPreferenceLogger(baseLogger *logrus.Logger) *PreferenceLogger {
	return &PreferenceLogger{
		Entry: baseLogger.WithField("component", "preferences"),
	}
}

// LogCorruptValue logs a stored value that was discarded in favour of defaults.
func (pl *PreferenceLogger) LogCorruptValue(key, reason string) {
	pl.WithFields(logrus.Fields{
		"key":    key,
		"reason": reason,
	}).Warn("Discarding unreadable preference, using defaults")
}

// LogSaved logs a successful preference write.
func (pl *PreferenceLogger) LogSaved(key string, bytes int) {
	pl.WithFields(logrus.Fields{
		"key":   key,
		"bytes": bytes,
	}).Debug("Preference saved")
}

// LogSweep logs a retention sweep.
func (pl *PreferenceLogger) LogSweep(deleted int64, olderThanHours float64) {
	pl.WithFields(logrus.Fields{
		"deleted":          deleted,
		"older_than_hours": olderThanHours,
	}).Info("Preference retention sweep completed")
}
