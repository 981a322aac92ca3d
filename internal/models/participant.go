package models

// Classification is the categorical tag assigned to a scored participant
type Classification string

const (
	ClassDangerousFavorite Classification = "dangerous-favorite"
	ClassSolidAnchor       Classification = "solid-anchor"
	ClassHighEVLongshot    Classification = "high-ev-longshot"
	ClassOrdinary          Classification = "ordinary"
)

// ParticipantRecord represents one entrant as delivered by the data collaborator.
// Pointer fields are optional; a nil value means the signal is not available.
type ParticipantRecord struct {
	Number         int      `json:"number" validate:"required,gt=0"`
	Name           string   `json:"name" validate:"required"`
	Jockey         string   `json:"jockey"`
	Odds           float64  `json:"odds" validate:"gte=0"`
	Frame          *int     `json:"frame,omitempty" validate:"omitempty,gt=0"`
	Mass           *int     `json:"mass,omitempty" validate:"omitempty,gt=0"`
	MassDelta      *int     `json:"mass_delta,omitempty"`
	RecentPlacings []int    `json:"recent_placings,omitempty" validate:"max=3,dive,gt=0"`
	BestTime       *float64 `json:"best_time,omitempty" validate:"omitempty,gt=0"`
	LateSpeed      *float64 `json:"late_speed,omitempty" validate:"omitempty,gt=0"`
	ClassStrength  float64  `json:"class_strength" validate:"gte=0,lte=1"`
}

// HasOdds reports whether a market price is known
func (p *ParticipantRecord) HasOdds() bool {
	return p.Odds > 0
}

// GetMass returns the body mass or 0 if unknown
func (p *ParticipantRecord) GetMass() int {
	if p.Mass == nil {
		return 0
	}
	return *p.Mass
}

// Signals is the per-participant breakdown feeding the composite score
type Signals struct {
	TimeZ     float64 `json:"time_z"`
	SpeedZ    float64 `json:"speed_z"`
	Course    float64 `json:"course"`
	Form      float64 `json:"form"`
	Jockey    float64 `json:"jockey"`
	Condition float64 `json:"condition"`
}

// ScoredParticipant is the engine output for one entrant
type ScoredParticipant struct {
	Number         int            `json:"number"`
	Name           string         `json:"name"`
	Jockey         string         `json:"jockey"`
	Odds           float64        `json:"odds"`
	OddsRank       int            `json:"odds_rank"`
	WinProbability float64        `json:"win_probability"`
	ExpectedReturn float64        `json:"expected_return"`
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
	Mass           *int           `json:"mass,omitempty"`
	MassDelta      *int           `json:"mass_delta,omitempty"`
	LateSpeed      *float64       `json:"late_speed,omitempty"`
	Signals        Signals        `json:"signals"`
}

// Is reports whether the participant carries the given classification
func (s *ScoredParticipant) Is(c Classification) bool {
	return s.Classification == c
}
