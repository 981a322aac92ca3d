// Package service orchestrates loading, scoring and persisting events.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/race-ev/internal/datasource"
	"github.com/yourusername/race-ev/internal/engine"
	"github.com/yourusername/race-ev/internal/logger"
	"github.com/yourusername/race-ev/internal/metrics"
	"github.com/yourusername/race-ev/internal/models"
)

// EventResult is the scored output for one event
type EventResult struct {
	Fingerprint string         `json:"fingerprint"`
	Degenerate  bool           `json:"degenerate"`
	Result      *engine.Result `json:"result"`
}

// ScoringService scores events concurrently with a bounded worker count
type ScoringService struct {
	engine  *engine.Engine
	cache   *ResultCache
	workers int
	logger  *logger.ScoringLogger
}

// NewScoringService creates a scoring service. cache may be nil; workers <= 0
// uses GOMAXPROCS.
func NewScoringService(eng *engine.Engine, cache *ResultCache, workers int, log *logrus.Logger) *ScoringService {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ScoringService{
		engine:  eng,
		cache:   cache,
		workers: workers,
		logger:  logger.NewScoringLogger(log),
	}
}

// ScoreEvent scores a single event. An empty field yields an empty result
// flagged as degenerate rather than an error.
func (s *ScoringService) ScoreEvent(ctx context.Context, input datasource.EventInput) (EventResult, error) {
	if err := ctx.Err(); err != nil {
		return EventResult{}, err
	}

	fingerprint, err := Fingerprint(input)
	if err != nil {
		metrics.RecordScoringFailure()
		return EventResult{}, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(fingerprint); ok {
			s.logger.LogCacheHit(input.Event.ID, fingerprint)
			return EventResult{
				Fingerprint: fingerprint,
				Degenerate:  len(cached.Participants) == 0,
				Result:      cached,
			}, nil
		}
	}

	start := time.Now()
	result, err := s.engine.Score(input.Event, input.Participants)
	degenerate := errors.Is(err, models.ErrDegenerateField)
	if err != nil && !degenerate {
		metrics.RecordScoringFailure()
		return EventResult{}, fmt.Errorf("failed to score event %s: %w", input.Event.ID, err)
	}
	elapsed := time.Since(start)

	if degenerate {
		metrics.RecordDegenerateEvent()
		s.logger.LogDegenerateField(input.Event.ID)
	}
	s.record(result, elapsed)

	if s.cache != nil {
		s.cache.Set(fingerprint, result)
	}

	return EventResult{Fingerprint: fingerprint, Degenerate: degenerate, Result: result}, nil
}

// ScoreEvents scores every event, preserving input order. Events are independent,
// so they run in parallel up to the worker limit.
func (s *ScoringService) ScoreEvents(ctx context.Context, inputs []datasource.EventInput) ([]EventResult, error) {
	results := make([]EventResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range inputs {
		i := i
		g.Go(func() error {
			r, err := s.ScoreEvent(gctx, inputs[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ScoringService) record(result *engine.Result, elapsed time.Duration) {
	metrics.RecordEventScored(elapsed.Seconds())

	counts := make(map[string]int)
	for class, n := range result.ClassificationCounts() {
		counts[string(class)] = n
		metrics.RecordClassification(string(class), n)
	}
	for _, w := range result.Portfolio.Balanced {
		metrics.RecordWager("balanced", string(w.Type))
	}
	for _, w := range result.Portfolio.HighRisk {
		metrics.RecordWager("high_risk", string(w.Type))
	}

	s.logger.LogClassifications(result.Event.ID, counts)
	s.logger.LogEventScored(
		result.Event.ID,
		result.Event.Venue,
		len(result.Participants),
		len(result.Portfolio.Balanced),
		len(result.Portfolio.HighRisk),
		float64(elapsed.Microseconds())/1000.0,
	)
}
