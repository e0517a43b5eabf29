// Package logger provides simulation-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for calculator and Monte Carlo runs.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogRunStarted logs the start of a Monte Carlo run.
func (sl *SimulationLogger) LogRunStarted(generation uint64, style string, trials int, seed int64) {
	sl.WithFields(logrus.Fields{
		"generation": generation,
		"risk_style": style,
		"trials":     trials,
		"seed":       seed,
	}).Debug("Simulation run started")
}

// LogRunCompleted logs a finished Monte Carlo run.
func (sl *SimulationLogger) LogRunCompleted(runID string, generation uint64, trials int, successRate, maxDrawdown float64, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"run_id":       runID,
		"generation":   generation,
		"trials":       trials,
		"success_rate": successRate,
		"max_drawdown": maxDrawdown,
		"duration_ms":  duration.Milliseconds(),
	}).Info("Simulation run completed")
}

// LogRunSuperseded logs a run whose result was dropped because newer input arrived.
func (sl *SimulationLogger) LogRunSuperseded(generation, current uint64) {
	sl.WithFields(logrus.Fields{
		"generation": generation,
		"current":    current,
	}).Debug("Simulation result superseded")
}

// LogRunFailed logs a run that ended with an error.
func (sl *SimulationLogger) LogRunFailed(generation uint64, err error) {
	sl.WithFields(logrus.Fields{
		"generation": generation,
		"error":      err.Error(),
	}).Warn("Simulation run failed")
}

// LogMetricsComputed logs a deterministic calculator outcome.
func (sl *SimulationLogger) LogMetricsComputed(status string, field string, tradesNeeded, passProbability float64) {
	sl.WithFields(logrus.Fields{
		"status":           status,
		"field":            field,
		"trades_needed":    tradesNeeded,
		"pass_probability": passProbability,
	}).Debug("Strategy metrics computed")
}
