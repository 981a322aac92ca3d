package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

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
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerTo(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLoggerTo(buf, "nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestScoringLoggerEventScored(t *testing.T) {
	log, buf := setupTestLogger()
	scoringLogger := NewScoringLogger(log)

	scoringLogger.LogEventScored("event_001", "東京", 16, 9, 6, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scoring", logEntry["component"])
	assert.Equal(t, "event_001", logEntry["event_id"])
	assert.Equal(t, float64(16), logEntry["participants"])
	assert.Equal(t, float64(9), logEntry["balanced_wagers"])
	assert.Equal(t, "Event scored", logEntry["msg"])
}

func TestScoringLoggerClassifications(t *testing.T) {
	log, buf := setupTestLogger()
	scoringLogger := NewScoringLogger(log)

	scoringLogger.LogClassifications("event_001", map[string]int{
		"solid-anchor":     2,
		"high-ev-longshot": 1,
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(2), logEntry["class_solid-anchor"])
	assert.Equal(t, float64(1), logEntry["class_high-ev-longshot"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestScoringLoggerDegenerateField(t *testing.T) {
	log, buf := setupTestLogger()
	NewScoringLogger(log).LogDegenerateField("event_002")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "event_002", logEntry["event_id"])
}

func TestScoringLoggerCacheHit(t *testing.T) {
	log, buf := setupTestLogger()
	NewScoringLogger(log).LogCacheHit("event_003", "abc")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "abc", logEntry["fingerprint"])
}

func TestScoringLoggerBatchCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	NewScoringLogger(log).LogBatchCompleted(12, 2, 1, 40.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(12), logEntry["events"])
	assert.Equal(t, float64(2), logEntry["degenerate"])
	assert.Equal(t, float64(1), logEntry["sink_failures"])
}

func TestSinkLogger(t *testing.T) {
	log, buf := setupTestLogger()
	sinkLogger := NewSinkLogger(log)

	sinkLogger.LogResultsWritten("file", "out.json", 3)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "sink", logEntry["component"])
	assert.Equal(t, float64(3), logEntry["results"])

	buf.Reset()
	sinkLogger.LogSinkFailure("postgres", "scoring_results", errors.New("connection refused"))
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "connection refused", logEntry["error"])
}
