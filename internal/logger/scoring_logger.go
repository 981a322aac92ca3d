// Package logger provides scoring-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for scoring runs.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogEventScored logs a completed event evaluation.
func (sl *ScoringLogger) LogEventScored(eventID, venue string, participants, balanced, highRisk int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"event_id":            eventID,
		"venue":               venue,
		"participants":        participants,
		"balanced_wagers":     balanced,
		"high_risk_wagers":    highRisk,
		"scoring_duration_ms": durationMs,
	}).Info("Event scored")
}

// LogClassifications logs the classification tally of an event.
func (sl *ScoringLogger) LogClassifications(eventID string, counts map[string]int) {
	fields := logrus.Fields{"event_id": eventID}
	for class, n := range counts {
		fields["class_"+class] = n
	}
	sl.WithFields(fields).Debug("Field classified")
}

// LogDegenerateField logs an event that produced no participants.
func (sl *ScoringLogger) LogDegenerateField(eventID string) {
	sl.WithField("event_id", eventID).Warn("Event has no participants, returning empty result")
}

// LogCacheHit logs a result served from the evaluation cache.
func (sl *ScoringLogger) LogCacheHit(eventID, fingerprint string) {
	sl.WithFields(logrus.Fields{
		"event_id":    eventID,
		"fingerprint": fingerprint,
	}).Debug("Scoring result served from cache")
}

// LogBatchCompleted logs the outcome of a batch run.
func (sl *ScoringLogger) LogBatchCompleted(events, degenerate, sinkFailures int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"events":            events,
		"degenerate":        degenerate,
		"sink_failures":     sinkFailures,
		"batch_duration_ms": durationMs,
	}).Info("Scoring batch completed")
}
