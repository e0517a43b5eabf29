package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevelsAndFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	log = newLogger(buf, "nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, ok = log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestSimulationLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogRunCompleted("run-1", 7, 1000, 62.5, 8.1, 150*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "simulation", logEntry["component"])
	assert.Equal(t, "run-1", logEntry["run_id"])
	assert.Equal(t, float64(7), logEntry["generation"])
	assert.Equal(t, float64(150), logEntry["duration_ms"])
}

func TestSimulationLoggerFailed(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogRunFailed(3, errors.New("context canceled"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "context canceled", logEntry["error"])
}

func TestPreferenceLoggerCorruptValue(t *testing.T) {
	log, buf := setupTestLogger()
	NewPreferenceLogger(log).LogCorruptValue("traderProfile", "unexpected end of JSON input")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "preferences", logEntry["component"])
	assert.Equal(t, "traderProfile", logEntry["key"])
}

func TestDiscardLogger(t *testing.T) {
	log := Discard()
	log.Info("dropped")
	assert.NotNil(t, log)
}
