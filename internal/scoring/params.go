// Package scoring turns raw participant records into normalized signals,
// composite scores, win probabilities and classifications.
package scoring

import (
	"fmt"

	"github.com/yourusername/race-ev/internal/config"
)

// Weights are the composite score coefficients
type Weights struct {
	Time      float64
	Speed     float64
	Course    float64
	Form      float64
	Jockey    float64
	Condition float64
}

// Params holds every policy constant of the scoring model
type Params struct {
	Weights Weights

	// Feature normalization
	ZClip    float64
	MissingZ float64

	// Course adjuster
	MileAlpha           float64
	DefaultAlpha        float64
	GradientBeta        float64
	DefaultBeta         float64
	Gamma               float64
	InsideDrawBonus     float64
	OutsideDrawPenalty  float64
	InsideDrawMaxFrame  int
	OutsideDrawMinFrame int
	HeavyMassThreshold  int
	HeavyGradientBonus  float64

	// Composite scorer
	RelaxationThreshold    float64
	RelaxationFactor       float64
	FormScale              float64
	FormPenaltyPosition    float64
	EliteJockeys           []string
	EliteJockeyScore       float64
	DefaultJockeyScore     float64
	MassGainLimit          int
	MassLossLimit          int
	NominalConditionScore  float64
	AbnormalConditionScore float64

	// Probability estimator
	Temperature        float64
	ProbabilityFloor   float64
	ProbabilityCeiling float64

	// Classifier
	DangerousEVMax   float64
	DangerousOddsMax float64
	AnchorEVMin      float64
	AnchorTopN       int
	LongshotEVMin    float64
}

// DefaultParams returns the reference scoring model
func DefaultParams() Params {
	return Params{
		Weights: Weights{
			Time:      0.20,
			Speed:     0.25,
			Course:    0.30,
			Form:      0.15,
			Jockey:    0.05,
			Condition: 0.05,
		},
		ZClip:    3.0,
		MissingZ: -0.5,

		MileAlpha:           1.0,
		DefaultAlpha:        0.8,
		GradientBeta:        1.2,
		DefaultBeta:         0.8,
		Gamma:               1.0,
		InsideDrawBonus:     0.5,
		OutsideDrawPenalty:  -0.3,
		InsideDrawMaxFrame:  4,
		OutsideDrawMinFrame: 7,
		HeavyMassThreshold:  500,
		HeavyGradientBonus:  0.2,

		RelaxationThreshold:    1.5,
		RelaxationFactor:       0.2,
		FormScale:              10,
		FormPenaltyPosition:    8,
		EliteJockeys:           []string{"ルメール", "川田", "Lemaire", "Kawada"},
		EliteJockeyScore:       1.0,
		DefaultJockeyScore:     0.5,
		MassGainLimit:          15,
		MassLossLimit:          -10,
		NominalConditionScore:  1.0,
		AbnormalConditionScore: 0.5,

		Temperature:        0.6,
		ProbabilityFloor:   0.005,
		ProbabilityCeiling: 0.995,

		DangerousEVMax:   0.8,
		DangerousOddsMax: 5.0,
		AnchorEVMin:      0.9,
		AnchorTopN:       3,
		LongshotEVMin:    1.2,
	}
}

// FromConfig overlays non-zero configuration values on the default model
func FromConfig(cfg *config.ScoringConfig) (Params, error) {
	p := DefaultParams()
	if cfg == nil {
		return p, nil
	}

	overlay(&p.Weights.Time, cfg.Weights.Time)
	overlay(&p.Weights.Speed, cfg.Weights.Speed)
	overlay(&p.Weights.Course, cfg.Weights.Course)
	overlay(&p.Weights.Form, cfg.Weights.Form)
	overlay(&p.Weights.Jockey, cfg.Weights.Jockey)
	overlay(&p.Weights.Condition, cfg.Weights.Condition)

	overlay(&p.ZClip, cfg.ZClip)
	overlay(&p.MissingZ, cfg.MissingZ)
	overlay(&p.Temperature, cfg.Temperature)
	overlay(&p.ProbabilityFloor, cfg.ProbabilityFloor)
	overlay(&p.ProbabilityCeiling, cfg.ProbabilityCeiling)
	overlay(&p.RelaxationThreshold, cfg.RelaxationThreshold)
	overlay(&p.RelaxationFactor, cfg.RelaxationFactor)
	overlay(&p.FormPenaltyPosition, cfg.FormPenaltyPosition)
	overlay(&p.HeavyGradientBonus, cfg.HeavyGradientBonus)
	if cfg.HeavyMassThreshold > 0 {
		p.HeavyMassThreshold = cfg.HeavyMassThreshold
	}
	if cfg.MassGainLimit > 0 {
		p.MassGainLimit = cfg.MassGainLimit
	}
	if cfg.MassLossLimit < 0 {
		p.MassLossLimit = cfg.MassLossLimit
	}
	if len(cfg.EliteJockeys) > 0 {
		p.EliteJockeys = append([]string(nil), cfg.EliteJockeys...)
	}

	overlay(&p.DangerousEVMax, cfg.Classification.DangerousEVMax)
	overlay(&p.DangerousOddsMax, cfg.Classification.DangerousOddsMax)
	overlay(&p.AnchorEVMin, cfg.Classification.AnchorEVMin)
	overlay(&p.LongshotEVMin, cfg.Classification.LongshotEVMin)
	if cfg.Classification.AnchorTopN > 0 {
		p.AnchorTopN = cfg.Classification.AnchorTopN
	}

	return p, p.Validate()
}

func overlay(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// Validate checks the model constants for internal consistency
func (p Params) Validate() error {
	if p.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive")
	}
	if p.ZClip <= 0 {
		return fmt.Errorf("z clip must be positive")
	}
	if p.ProbabilityFloor <= 0 || p.ProbabilityFloor >= p.ProbabilityCeiling || p.ProbabilityCeiling >= 1 {
		return fmt.Errorf("probability bounds must satisfy 0 < floor < ceiling < 1")
	}
	if p.FormPenaltyPosition < 1 {
		return fmt.Errorf("form penalty position must be at least 1")
	}
	if p.RelaxationFactor < 0 || p.RelaxationFactor > 1 {
		return fmt.Errorf("relaxation factor must be between 0 and 1")
	}
	if p.AnchorTopN <= 0 {
		return fmt.Errorf("anchor top-n must be positive")
	}
	w := p.Weights
	if w.Time < 0 || w.Speed < 0 || w.Course < 0 || w.Form < 0 || w.Jockey < 0 || w.Condition < 0 {
		return fmt.Errorf("weights cannot be negative")
	}
	return nil
}
