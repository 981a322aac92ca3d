package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-ev/internal/models"
)

func boardField() []models.ScoredParticipant {
	return []models.ScoredParticipant{
		participant(1, 2.0, 0.40, 0.8, models.ClassOrdinary),
		participant(2, 4.0, 0.25, 1.0, models.ClassSolidAnchor),
		participant(3, 10.0, 0.15, 1.5, models.ClassSolidAnchor),
		participant(4, 20.0, 0.03, 0.6, models.ClassOrdinary),
	}
}

func TestBuildBoardsSmallField(t *testing.T) {
	boards := BuildBoards(boardField()[:2], DefaultParams())

	for _, board := range [][]models.Wager{
		boards.Win, boards.Place, boards.Quinella, boards.Exacta, boards.Wide, boards.Trio, boards.Trifecta,
	} {
		assert.NotNil(t, board)
		assert.Empty(t, board)
	}
}

func TestBuildBoards(t *testing.T) {
	boards := BuildBoards(boardField(), DefaultParams())

	assert.Equal(t, []string{"win:3", "win:2", "win:1"}, keys(boards.Win))

	require.Len(t, boards.Place, 3)
	assert.Equal(t, []string{"place:3", "place:2", "place:1"}, keys(boards.Place))
	assert.Equal(t, 3.3, boards.Place[0].Odds)
	assert.InDelta(t, 1.8, boards.Place[0].ExpectedReturn, 1e-9)
	assert.Equal(t, 1.1, boards.Place[2].Odds)

	assert.Equal(t, []string{"quinella:2-3", "quinella:1-3", "quinella:3-4"}, keys(boards.Quinella))
	assert.Equal(t, 16.0, boards.Quinella[0].Odds)
	assert.InDelta(t, 1.35, boards.Quinella[0].ExpectedReturn, 1e-9)

	assert.Equal(t, []string{"exacta:3-2", "exacta:3-1", "exacta:3-4"}, keys(boards.Exacta))
	assert.Equal(t, 24.0, boards.Exacta[0].Odds)

	assert.Equal(t, []string{"trio:1-2-3", "trio:2-3-4", "trio:1-3-4"}, keys(boards.Trio))
	assert.InDelta(t, 1.32, boards.Trio[0].ExpectedReturn, 1e-9)

	require.NotEmpty(t, boards.Trifecta)
	assert.Equal(t, "trifecta:3-2-1", boards.Trifecta[0].Key())
	assert.Equal(t, 38.4, boards.Trifecta[0].Odds)
	assert.InDelta(t, 0.96, boards.Trifecta[0].ExpectedReturn, 1e-9)

	for _, board := range [][]models.Wager{boards.Wide, boards.Trio, boards.Trifecta} {
		assert.LessOrEqual(t, len(board), 3)
		assertSortedByEV(t, board)
	}
}

func TestBuildBoardsRespectsWindow(t *testing.T) {
	var field []models.ScoredParticipant
	for i := 1; i <= 12; i++ {
		field = append(field, participant(i, float64(i)*2, 0.08, 1.0+float64(12-i)*0.1, models.ClassOrdinary))
	}
	p := DefaultParams()
	p.BoardSize = 1000

	boards := BuildBoards(field, p)

	// each of 12 ranks pairs with up to 9 following ranks
	pairs := 0
	for i := 0; i < 12; i++ {
		n := 11 - i
		if n > p.BoardPairWindow-1 {
			n = p.BoardPairWindow - 1
		}
		pairs += n
	}
	assert.Len(t, boards.Quinella, pairs)
	assert.Len(t, boards.Exacta, pairs)
	assert.Len(t, boards.Win, 12)
	assert.NotContains(t, keys(boards.Quinella), "quinella:1-11")
	assert.Contains(t, keys(boards.Quinella), "quinella:1-10")
}
