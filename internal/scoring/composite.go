package scoring

import (
	"strings"

	"github.com/yourusername/race-ev/internal/models"
)

// FormScore is the inverse of the mean recent finishing position
func FormScore(placings []int, p Params) float64 {
	if len(placings) == 0 {
		return 1.0 / p.FormPenaltyPosition
	}
	sum := 0
	for _, pos := range placings {
		sum += pos
	}
	if sum <= 0 {
		return 1.0 / p.FormPenaltyPosition
	}
	return float64(len(placings)) / float64(sum)
}

// JockeyScore rewards riders on the elite allow-list
func JockeyScore(jockey string, p Params) float64 {
	name := fold(jockey)
	if name == "" {
		return p.DefaultJockeyScore
	}
	for _, elite := range p.EliteJockeys {
		if e := fold(elite); e != "" && strings.Contains(name, e) {
			return p.EliteJockeyScore
		}
	}
	return p.DefaultJockeyScore
}

// ConditionScore penalises abnormal body mass swings
func ConditionScore(massDelta *int, p Params) float64 {
	if massDelta == nil {
		return p.NominalConditionScore
	}
	if *massDelta <= p.MassLossLimit || *massDelta >= p.MassGainLimit {
		return p.AbnormalConditionScore
	}
	return p.NominalConditionScore
}

// FormWeight returns the effective form weight. A course score at or above the
// relaxation threshold shrinks the weight of recent form.
func FormWeight(course float64, p Params) float64 {
	if course >= p.RelaxationThreshold {
		return p.Weights.Form * p.RelaxationFactor
	}
	return p.Weights.Form
}

// CompositeScore combines the normalized signals of one participant into S_i
func CompositeScore(features FeatureZ, course float64, record models.ParticipantRecord, p Params) (float64, models.Signals) {
	sig := models.Signals{
		TimeZ:     features.TimeZ,
		SpeedZ:    features.SpeedZ,
		Course:    course,
		Form:      FormScore(record.RecentPlacings, p),
		Jockey:    JockeyScore(record.Jockey, p),
		Condition: ConditionScore(record.MassDelta, p),
	}

	w := p.Weights
	s := w.Time*sig.TimeZ +
		w.Speed*sig.SpeedZ +
		w.Course*sig.Course +
		FormWeight(course, p)*sig.Form*p.FormScale +
		w.Jockey*sig.Jockey +
		w.Condition*sig.Condition
	return s, sig
}

// ScoreField runs the per-participant stages (normalizer, adjuster, scorer) over a field
func ScoreField(event models.EventContext, records []models.ParticipantRecord, p Params) ([]float64, []models.Signals) {
	features := NormalizeFeatures(records, p)
	scores := make([]float64, len(records))
	signals := make([]models.Signals, len(records))
	for i, r := range records {
		course := CourseScore(event, r, p)
		scores[i], signals[i] = CompositeScore(features[i], course, r, p)
	}
	return scores, signals
}
