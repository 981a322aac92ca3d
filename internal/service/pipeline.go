package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-ev/internal/datasource"
	"github.com/yourusername/race-ev/internal/logger"
	"github.com/yourusername/race-ev/internal/metrics"
)

// ResultSink persists scored events
type ResultSink interface {
	Name() string
	Save(ctx context.Context, results []EventResult) error
}

// RunSummary describes one load, score and save pass
type RunSummary struct {
	RunID       uuid.UUID
	Events      int
	Degenerate  int
	StartedAt   time.Time
	CompletedAt time.Time
	Results     []EventResult
}

// Pipeline loads events from a source, scores them and writes them to every sink
type Pipeline struct {
	source  datasource.Source
	scorer  *ScoringService
	sinks   []ResultSink
	logger  *logger.ScoringLogger
	sinkLog *logger.SinkLogger
}

// NewPipeline creates a pipeline
func NewPipeline(source datasource.Source, scorer *ScoringService, log *logrus.Logger, sinks ...ResultSink) *Pipeline {
	return &Pipeline{
		source:  source,
		scorer:  scorer,
		sinks:   sinks,
		logger:  logger.NewScoringLogger(log),
		sinkLog: logger.NewSinkLogger(log),
	}
}

// Run executes one pass. Every sink is attempted; sink failures are joined
// into the returned error alongside a complete summary.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.New(), StartedAt: time.Now().UTC()}

	inputs, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events from %s: %w", p.source.Name(), err)
	}

	results, err := p.scorer.ScoreEvents(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to score events: %w", err)
	}
	summary.Results = results
	summary.Events = len(results)
	for _, r := range results {
		if r.Degenerate {
			summary.Degenerate++
		}
	}

	var sinkErrs []error
	for _, sink := range p.sinks {
		err := sink.Save(ctx, results)
		metrics.RecordSinkWrite(sink.Name(), err)
		if err != nil {
			p.sinkLog.LogSinkFailure(sink.Name(), summary.RunID.String(), err)
			sinkErrs = append(sinkErrs, fmt.Errorf("sink %s: %w", sink.Name(), err))
			continue
		}
		p.sinkLog.LogResultsWritten(sink.Name(), summary.RunID.String(), len(results))
	}

	summary.CompletedAt = time.Now().UTC()
	elapsed := summary.CompletedAt.Sub(summary.StartedAt)
	metrics.RecordBatch(summary.Events, elapsed.Seconds(), float64(summary.CompletedAt.Unix()))
	p.logger.LogBatchCompleted(summary.Events, summary.Degenerate, len(sinkErrs), float64(elapsed.Milliseconds()))

	return summary, errors.Join(sinkErrs...)
}
