package portfolio

import (
	"math"
	"sort"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/scoring"
)

// BuildBoards lists the best wagers by expected return for every bet type.
// Combinations are drawn from the EV-ranked field, pairing each participant with
// the next BoardPairWindow-1 ranks and forming trios within BoardTrioWindow ranks.
func BuildBoards(field []models.ScoredParticipant, p Params) models.Boards {
	boards := models.Boards{
		Win:      []models.Wager{},
		Place:    []models.Wager{},
		Quinella: []models.Wager{},
		Exacta:   []models.Wager{},
		Wide:     []models.Wager{},
		Trio:     []models.Wager{},
		Trifecta: []models.Wager{},
	}
	if len(field) < 3 {
		return boards
	}

	byEV := rankByEV(field)
	var win, place, quinella, exacta, wide, trio, trifectas []models.Wager

	for _, sp := range byEV {
		win = append(win, single(sp))
		placeOdds := math.Max(p.Place.OddsFloor, sp.Odds*p.Place.OddsFactor)
		place = append(place, models.NewWager(models.BetTypePlace,
			scoring.Round(placeOdds, 1), scoring.Round(sp.ExpectedReturn*p.Place.EVFactor, 2), sp.Number))
	}

	n := len(byEV)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n && j < i+p.BoardPairWindow; j++ {
			a, b := byEV[i], byEV[j]
			quinella = append(quinella, combine(models.BetTypeQuinella, p.Quinella, a, b))
			wide = append(wide, combine(models.BetTypeWide, p.Wide, a, b))
			exacta = append(exacta, combine(models.BetTypeExacta, p.Exacta, a, b))
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n && j < i+p.BoardTrioWindow; j++ {
			for k := j + 1; k < n && k < j+p.BoardTrioWindow; k++ {
				a, b, c := byEV[i], byEV[j], byEV[k]
				trio = append(trio, combine(models.BetTypeTrio, p.Trio, a, b, c))
				trifectas = append(trifectas, trifecta(p, a, b, c))
			}
		}
	}

	boards.Win = top(win, p.BoardSize)
	boards.Place = top(place, p.BoardSize)
	boards.Quinella = top(quinella, p.BoardSize)
	boards.Exacta = top(exacta, p.BoardSize)
	boards.Wide = top(wide, p.BoardSize)
	boards.Trio = top(trio, p.BoardSize)
	boards.Trifecta = top(trifectas, p.BoardSize)
	return boards
}

func top(wagers []models.Wager, n int) []models.Wager {
	sortByEV(wagers)
	if len(wagers) > n {
		wagers = wagers[:n]
	}
	return wagers
}

func rankByEV(field []models.ScoredParticipant) []models.ScoredParticipant {
	out := append([]models.ScoredParticipant(nil), field...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExpectedReturn != out[j].ExpectedReturn {
			return out[i].ExpectedReturn > out[j].ExpectedReturn
		}
		return out[i].Number < out[j].Number
	})
	return out
}
