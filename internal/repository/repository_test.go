package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-ev/internal/datasource"
	"github.com/yourusername/race-ev/internal/engine"
	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/scoring"
	"github.com/yourusername/race-ev/internal/service"
)

func intPtr(v int) *int { return &v }

func scoredResults(t *testing.T) []service.EventResult {
	t.Helper()

	inputs := []datasource.EventInput{
		{
			Event: scoring.NewEventContext("tokyo-11", "東京11R", "東京", "芝1600m", "2026-06-07", "G1"),
			Participants: []models.ParticipantRecord{
				{Number: 1, Name: "Alpha", Jockey: "ルメール", Odds: 2.4, Mass: intPtr(502), RecentPlacings: []int{1, 2}},
				{Number: 2, Name: "Bravo", Odds: 6.0, Frame: intPtr(3)},
				{Number: 3, Name: "Charlie", Odds: 18.0},
				{Number: 4, Name: "Delta", Odds: 35.0},
			},
		},
		{Event: scoring.NewEventContext("kyoto-1", "Kyoto 1R", "", "2000m", "", "")},
	}

	results := make([]service.EventResult, len(inputs))
	eng := engine.NewDefault()
	for i, in := range inputs {
		fp, err := service.Fingerprint(in)
		require.NoError(t, err)
		res, err := eng.Score(in.Event, in.Participants)
		results[i] = service.EventResult{Fingerprint: fp, Degenerate: err != nil, Result: res}
	}
	return results
}

func TestNewFileResultRepositoryRejectsUnknownFormat(t *testing.T) {
	_, err := NewFileResultRepository("out.xml", "xml", false)
	assert.Error(t, err)
}

func TestFileResultRepositoryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	repo, err := NewFileResultRepository(path, FormatJSON, true)
	require.NoError(t, err)
	assert.Equal(t, "file", repo.Name())

	results := scoredResults(t)
	require.NoError(t, repo.Save(context.Background(), results))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
	assert.Contains(t, string(raw), `"name": "東京11R"`)
	assert.Contains(t, string(raw), `"high_risk"`)

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Results, 2)
	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, results[0].Result, doc.Results[0].Result)
	assert.True(t, doc.Results[1].Degenerate)

	got, err := repo.GetByEventID(context.Background(), "tokyo-11")
	require.NoError(t, err)
	assert.Equal(t, results[0].Fingerprint, got.Fingerprint)

	_, err = repo.GetByEventID(context.Background(), "nowhere")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFileResultRepositoryMsgpack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.msgpack")
	repo, err := NewFileResultRepository(path, FormatMsgpack, false)
	require.NoError(t, err)

	results := scoredResults(t)
	require.NoError(t, repo.Save(context.Background(), results))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Results, 2)

	want, got := results[0].Result, doc.Results[0].Result
	require.NotNil(t, got)
	assert.Equal(t, want.Event.ID, got.Event.ID)
	assert.Equal(t, want.Event.VenueKey, got.Event.VenueKey)
	require.Len(t, got.Participants, len(want.Participants))
	for i := range want.Participants {
		assert.Equal(t, want.Participants[i].Number, got.Participants[i].Number)
		assert.Equal(t, want.Participants[i].WinProbability, got.Participants[i].WinProbability)
		assert.Equal(t, want.Participants[i].Classification, got.Participants[i].Classification)
	}
	assert.Equal(t, len(want.Portfolio.Balanced), len(got.Portfolio.Balanced))
	assert.Equal(t, len(want.Portfolio.HighRisk), len(got.Portfolio.HighRisk))
}

func TestFileResultRepositoryOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	repo, err := NewFileResultRepository(path, FormatJSON, false)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), scoredResults(t)))
	require.NoError(t, repo.Save(context.Background(), nil))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Results)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileResultRepositoryMissingFile(t *testing.T) {
	repo, err := NewFileResultRepository(filepath.Join(t.TempDir(), "none.json"), FormatJSON, false)
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResultRows(t *testing.T) {
	results := scoredResults(t)
	results = append(results, service.EventResult{Fingerprint: uuid.NewString()})

	rows, err := resultRows(results)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "tokyo-11", first[0])
	assert.Equal(t, uuid.MustParse(results[0].Fingerprint), first[1])
	assert.Equal(t, "2026-06-07", first[3])
	assert.Equal(t, false, first[4])

	var payload engine.Result
	require.NoError(t, json.Unmarshal(first[5].([]byte), &payload))
	assert.Equal(t, "tokyo-11", payload.Event.ID)

	assert.Equal(t, true, rows[1][4])
}

func TestResultRowsRejectsBadFingerprint(t *testing.T) {
	results := scoredResults(t)
	results[0].Fingerprint = "not-a-uuid"

	_, err := resultRows(results)
	assert.Error(t, err)
}
