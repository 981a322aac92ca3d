package portfolio

import (
	"math"
	"sort"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/scoring"
)

// Synthesize builds the balanced and high-risk strategies for a classified field
func Synthesize(field []models.ScoredParticipant, p Params) models.Portfolio {
	byProb := rankedCopy(field)
	anchors := Anchors(byProb)
	targets := Targets(byProb, p)

	return models.Portfolio{
		Balanced: balanced(anchors, byProb, p),
		HighRisk: highRisk(anchors, targets, p),
	}
}

// Anchors returns the solid-anchor participants, or the single most probable
// participant when none is tagged. byProb must be ordered by probability.
func Anchors(byProb []models.ScoredParticipant) []models.ScoredParticipant {
	var anchors []models.ScoredParticipant
	for _, sp := range byProb {
		if sp.Is(models.ClassSolidAnchor) {
			anchors = append(anchors, sp)
		}
	}
	if len(anchors) == 0 && len(byProb) > 0 {
		anchors = append(anchors, byProb[0])
	}
	return anchors
}

// Targets returns the high-EV longshots, falling back to the longshot odds band
// and then to a window of probability ranks.
func Targets(byProb []models.ScoredParticipant, p Params) []models.ScoredParticipant {
	var targets []models.ScoredParticipant
	for _, sp := range byProb {
		if sp.Is(models.ClassHighEVLongshot) {
			targets = append(targets, sp)
		}
	}
	if len(targets) > 0 {
		return targets
	}

	for _, sp := range byProb {
		if sp.Odds >= p.LongshotMinOdds && sp.Odds <= p.LongshotMaxOdds {
			targets = append(targets, sp)
		}
	}
	if len(targets) > 0 {
		return targets
	}

	from, to := p.FallbackRankFrom-1, p.FallbackRankTo
	if to > len(byProb) {
		to = len(byProb)
	}
	if from >= to {
		return nil
	}
	return append(targets, byProb[from:to]...)
}

func balanced(anchors, byProb []models.ScoredParticipant, p Params) []models.Wager {
	partners := byProb
	if len(partners) > p.PartnerFanOut {
		partners = partners[:p.PartnerFanOut]
	}

	c := newCollector()
	for _, a := range anchors {
		c.add(single(a))
		for _, partner := range partners {
			if partner.Number == a.Number {
				continue
			}
			c.add(combine(models.BetTypeWide, p.Wide, a, partner))
			c.add(combine(models.BetTypeQuinella, p.Quinella, a, partner))
		}
	}
	return c.ranked()
}

func highRisk(anchors, targets []models.ScoredParticipant, p Params) []models.Wager {
	c := newCollector()
	for _, a := range anchors {
		for _, t := range targets {
			if t.Number == a.Number {
				continue
			}
			c.add(single(t))
			c.add(combine(models.BetTypeExacta, p.Exacta, a, t))

			for _, t2 := range targets {
				if t2.Number <= t.Number || t2.Number == a.Number {
					continue
				}
				c.add(combine(models.BetTypeTrio, p.Trio, a, t, t2))
				c.add(trifecta(p, a, t, t2))
			}
		}
	}
	return c.ranked()
}

func single(sp models.ScoredParticipant) models.Wager {
	return models.NewWager(models.BetTypeWin, sp.Odds, sp.ExpectedReturn, sp.Number)
}

func combine(betType models.BetType, rule SyntheticRule, legs ...models.ScoredParticipant) models.Wager {
	oddsProduct, evProduct, numbers := products(legs)
	odds := math.Max(rule.OddsFloor, oddsProduct*rule.OddsFactor)
	return models.NewWager(betType, scoring.Round(odds, 1), scoring.Round(evProduct*rule.EVFactor, 2), numbers...)
}

func trifecta(p Params, legs ...models.ScoredParticipant) models.Wager {
	oddsProduct, evProduct, numbers := products(legs)
	base := oddsProduct * p.Trio.OddsFactor
	odds := math.Max(p.Trifecta.OddsFloor, base*p.TrifectaFactor)
	return models.NewWager(models.BetTypeTrifecta, scoring.Round(odds, 1), scoring.Round(evProduct*p.Trifecta.EVFactor, 2), numbers...)
}

func products(legs []models.ScoredParticipant) (oddsProduct, evProduct float64, numbers []int) {
	oddsProduct, evProduct = 1.0, 1.0
	numbers = make([]int, len(legs))
	for i, l := range legs {
		oddsProduct *= l.Odds
		evProduct *= l.ExpectedReturn
		numbers[i] = l.Number
	}
	return oddsProduct, evProduct, numbers
}

func rankedCopy(field []models.ScoredParticipant) []models.ScoredParticipant {
	idx := scoring.RankByProbability(field)
	out := make([]models.ScoredParticipant, len(idx))
	for i, j := range idx {
		out[i] = field[j]
	}
	return out
}

// collector keeps the first wager emitted for every (type, combination) key
type collector struct {
	seen   map[string]struct{}
	wagers []models.Wager
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{}), wagers: make([]models.Wager, 0)}
}

func (c *collector) add(w models.Wager) {
	key := w.Key()
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.wagers = append(c.wagers, w)
}

func (c *collector) ranked() []models.Wager {
	sortByEV(c.wagers)
	return c.wagers
}

func sortByEV(wagers []models.Wager) {
	sort.SliceStable(wagers, func(i, j int) bool {
		return wagers[i].ExpectedReturn > wagers[j].ExpectedReturn
	})
}
