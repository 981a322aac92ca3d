// Package logger provides result sink logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SinkLogger records where scoring results were delivered.
type SinkLogger struct {
	*logrus.Entry
}

// NewSinkLogger creates a new sink logger.
func NewSinkLogger(baseLogger *logrus.Logger) *SinkLogger {
	return &SinkLogger{
		Entry: baseLogger.WithField("component", "sink"),
	}
}

// LogResultsWritten logs a successful write.
func (sl *SinkLogger) LogResultsWritten(sink, target string, results int) {
	sl.WithFields(logrus.Fields{
		"sink":    sink,
		"target":  target,
		"results": results,
	}).Info("Results written")
}

// LogSinkFailure logs a failed write.
func (sl *SinkLogger) LogSinkFailure(sink, target string, err error) {
	sl.WithFields(logrus.Fields{
		"sink":   sink,
		"target": target,
	}).WithError(err).Error("Failed to write results")
}
