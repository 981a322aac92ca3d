package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Estimate is the win probability and expected return of one participant
type Estimate struct {
	Probability    float64
	ExpectedReturn float64
}

// Softmax converts composite scores into a distribution over the field. Scores
// are re-normalized to z-scores first and divided by the temperature.
func Softmax(scores []float64, temperature float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	fs := ComputeStats(scores)
	x := make([]float64, len(scores))
	for i, s := range scores {
		x[i] = (s - fs.Mean) / fs.Std / temperature
	}
	lse := floats.LogSumExp(x)
	for i := range x {
		x[i] = math.Exp(x[i] - lse)
	}
	return x
}

// EstimateProbabilities returns bounded, rounded probabilities and expected
// returns. Bounds are applied without renormalizing the field.
func EstimateProbabilities(scores, odds []float64, p Params) []Estimate {
	raw := Softmax(scores, p.Temperature)
	out := make([]Estimate, len(raw))
	for i, prob := range raw {
		prob = math.Max(p.ProbabilityFloor, math.Min(p.ProbabilityCeiling, prob))
		prob = Round(prob, 4)
		out[i] = Estimate{
			Probability:    prob,
			ExpectedReturn: ExpectedReturn(prob, odds[i]),
		}
	}
	return out
}

// ExpectedReturn is probability times odds, rounded to two places. Unknown odds yield zero.
func ExpectedReturn(probability, odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return Round(probability*odds, 2)
}
