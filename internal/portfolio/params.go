// Package portfolio synthesizes recommended wagers from a classified field.
package portfolio

import (
	"fmt"

	"github.com/yourusername/race-ev/internal/config"
)

// SyntheticRule approximates combination odds and expected return from single-entry values:
// odds = max(OddsFloor, product(odds) * OddsFactor), ev = product(ev) * EVFactor.
type SyntheticRule struct {
	OddsFactor float64
	OddsFloor  float64
	EVFactor   float64
}

// Params holds the synthesizer policy
type Params struct {
	PartnerFanOut    int
	LongshotMinOdds  float64
	LongshotMaxOdds  float64
	FallbackRankFrom int
	FallbackRankTo   int
	TrifectaFactor   float64
	BoardSize        int
	BoardPairWindow  int
	BoardTrioWindow  int

	Place    SyntheticRule
	Wide     SyntheticRule
	Quinella SyntheticRule
	Exacta   SyntheticRule
	Trio     SyntheticRule
	Trifecta SyntheticRule
}

// DefaultParams returns the reference portfolio policy
func DefaultParams() Params {
	return Params{
		PartnerFanOut:    7,
		LongshotMinOdds:  10.0,
		LongshotMaxOdds:  50.0,
		FallbackRankFrom: 4,
		FallbackRankTo:   8,
		TrifectaFactor:   6,
		BoardSize:        3,
		BoardPairWindow:  10,
		BoardTrioWindow:  6,

		Place:    SyntheticRule{OddsFactor: 1.0 / 3.0, OddsFloor: 1.1, EVFactor: 1.2},
		Wide:     SyntheticRule{OddsFactor: 0.15, OddsFloor: 1.1, EVFactor: 1.1},
		Quinella: SyntheticRule{OddsFactor: 0.4, OddsFloor: 1.5, EVFactor: 0.9},
		Exacta:   SyntheticRule{OddsFactor: 0.6, OddsFloor: 2.0, EVFactor: 1.0},
		Trio:     SyntheticRule{OddsFactor: 0.08, OddsFloor: 5.0, EVFactor: 1.1},
		// trifecta odds come from the unfloored trio base times TrifectaFactor
		Trifecta: SyntheticRule{OddsFloor: 15.0, EVFactor: 0.8},
	}
}

// FromConfig overlays non-zero configuration values on the default policy
func FromConfig(cfg *config.PortfolioConfig) (Params, error) {
	p := DefaultParams()
	if cfg == nil {
		return p, nil
	}
	if cfg.PartnerFanOut > 0 {
		p.PartnerFanOut = cfg.PartnerFanOut
	}
	if cfg.LongshotMinOdds > 0 {
		p.LongshotMinOdds = cfg.LongshotMinOdds
	}
	if cfg.LongshotMaxOdds > 0 {
		p.LongshotMaxOdds = cfg.LongshotMaxOdds
	}
	if cfg.FallbackRankFrom > 0 {
		p.FallbackRankFrom = cfg.FallbackRankFrom
	}
	if cfg.FallbackRankTo > 0 {
		p.FallbackRankTo = cfg.FallbackRankTo
	}
	if cfg.BoardSize > 0 {
		p.BoardSize = cfg.BoardSize
	}
	return p, p.Validate()
}

// Validate checks the policy for internal consistency
func (p Params) Validate() error {
	if p.PartnerFanOut <= 0 {
		return fmt.Errorf("partner fan-out must be positive")
	}
	if p.LongshotMinOdds > p.LongshotMaxOdds {
		return fmt.Errorf("longshot odds band is inverted")
	}
	if p.FallbackRankFrom < 1 || p.FallbackRankFrom > p.FallbackRankTo {
		return fmt.Errorf("fallback rank window must satisfy 1 <= from <= to")
	}
	if p.BoardSize <= 0 || p.BoardPairWindow <= 1 || p.BoardTrioWindow <= 1 {
		return fmt.Errorf("board size and windows must be positive")
	}
	return nil
}
