package scoring

import (
	"sort"

	"github.com/yourusername/race-ev/internal/models"
)

// RankByProbability returns field indices ordered by win probability descending,
// ties broken by participant number ascending.
func RankByProbability(field []models.ScoredParticipant) []int {
	idx := make([]int, len(field))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := field[idx[a]], field[idx[b]]
		if pa.WinProbability != pb.WinProbability {
			return pa.WinProbability > pb.WinProbability
		}
		return pa.Number < pb.Number
	})
	return idx
}

// AssignOddsRank ranks the field by odds ascending in place. Unknown odds rank last.
func AssignOddsRank(field []models.ScoredParticipant) {
	idx := make([]int, len(field))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		oa, ob := field[idx[a]].Odds, field[idx[b]].Odds
		if (oa > 0) != (ob > 0) {
			return oa > 0
		}
		return oa < ob
	})
	for rank, i := range idx {
		field[i].OddsRank = rank + 1
	}
}

// Classify tags every participant with exactly one classification. Rules are
// checked in priority order and the first match wins.
func Classify(field []models.ScoredParticipant, p Params) []models.Classification {
	ranked := RankByProbability(field)
	top := make(map[int]bool, p.AnchorTopN)
	for i := 0; i < len(ranked) && i < p.AnchorTopN; i++ {
		top[field[ranked[i]].Number] = true
	}

	out := make([]models.Classification, len(field))
	for i, sp := range field {
		out[i] = classifyOne(sp, top[sp.Number], p)
	}
	return out
}

func classifyOne(sp models.ScoredParticipant, inTop bool, p Params) models.Classification {
	switch {
	case sp.Odds > 0 && sp.ExpectedReturn < p.DangerousEVMax && sp.Odds <= p.DangerousOddsMax:
		return models.ClassDangerousFavorite
	case inTop && sp.ExpectedReturn >= p.AnchorEVMin:
		return models.ClassSolidAnchor
	case sp.ExpectedReturn >= p.LongshotEVMin:
		return models.ClassHighEVLongshot
	default:
		return models.ClassOrdinary
	}
}
