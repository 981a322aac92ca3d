// Package engine runs the full scoring pipeline for one event.
package engine

import (
	"fmt"
	"sort"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/portfolio"
	"github.com/yourusername/race-ev/internal/scoring"
)

// Result is the engine output for one event
type Result struct {
	Event        models.EventContext        `json:"event"`
	Participants []models.ScoredParticipant `json:"participants"`
	Boards       models.Boards              `json:"boards"`
	Portfolio    models.Portfolio           `json:"portfolio"`
}

// Engine scores events. It holds only immutable policy and is safe for concurrent use.
type Engine struct {
	scoring   scoring.Params
	portfolio portfolio.Params
}

// New creates an engine after validating both policies
func New(sp scoring.Params, pp portfolio.Params) (*Engine, error) {
	if err := sp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring params: %w", err)
	}
	if err := pp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio params: %w", err)
	}
	return &Engine{scoring: sp, portfolio: pp}, nil
}

// NewDefault creates an engine with the reference policies
func NewDefault() *Engine {
	return &Engine{scoring: scoring.DefaultParams(), portfolio: portfolio.DefaultParams()}
}

// ScoringParams returns the scoring policy
func (e *Engine) ScoringParams() scoring.Params {
	return e.scoring
}

// PortfolioParams returns the portfolio policy
func (e *Engine) PortfolioParams() portfolio.Params {
	return e.portfolio
}

// Score runs normalization, course adjustment, composite scoring, probability
// estimation, classification and portfolio synthesis. An empty field returns an
// empty result together with models.ErrDegenerateField.
func (e *Engine) Score(event models.EventContext, records []models.ParticipantRecord) (*Result, error) {
	event = scoring.EnsureProfile(event)
	if len(records) == 0 {
		return emptyResult(event), models.ErrDegenerateField
	}

	scores, signals := scoring.ScoreField(event, records, e.scoring)

	odds := make([]float64, len(records))
	for i, r := range records {
		odds[i] = r.Odds
	}
	estimates := scoring.EstimateProbabilities(scores, odds, e.scoring)

	field := make([]models.ScoredParticipant, len(records))
	for i, r := range records {
		field[i] = models.ScoredParticipant{
			Number:         r.Number,
			Name:           r.Name,
			Jockey:         r.Jockey,
			Odds:           r.Odds,
			WinProbability: estimates[i].Probability,
			ExpectedReturn: estimates[i].ExpectedReturn,
			Score:          scoring.Round(scores[i], 4),
			Mass:           r.Mass,
			MassDelta:      r.MassDelta,
			LateSpeed:      r.LateSpeed,
			Signals:        signals[i],
		}
	}
	scoring.AssignOddsRank(field)

	classes := scoring.Classify(field, e.scoring)
	for i := range field {
		field[i].Classification = classes[i]
	}

	sort.SliceStable(field, func(i, j int) bool {
		return field[i].Number < field[j].Number
	})

	return &Result{
		Event:        event,
		Participants: field,
		Boards:       portfolio.BuildBoards(field, e.portfolio),
		Portfolio:    portfolio.Synthesize(field, e.portfolio),
	}, nil
}

func emptyResult(event models.EventContext) *Result {
	return &Result{
		Event:        event,
		Participants: []models.ScoredParticipant{},
		Boards:       portfolio.BuildBoards(nil, portfolio.DefaultParams()),
		Portfolio: models.Portfolio{
			Balanced: []models.Wager{},
			HighRisk: []models.Wager{},
		},
	}
}

// ClassificationCounts tallies the field by classification
func (r *Result) ClassificationCounts() map[models.Classification]int {
	counts := make(map[models.Classification]int, 4)
	for _, p := range r.Participants {
		counts[p.Classification]++
	}
	return counts
}
