package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-ev/internal/models"
)

func TestParseRaceTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1:33.5", 93.5, true},
		{"93.5", 93.5, true},
		{"2:01.0", 121.0, true},
		{"１:３３.５", 93.5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0.0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRaceTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBestTimeEstimate(t *testing.T) {
	runs := []PastRun{
		{Distance: 1600, Time: "1:33.5"},
		{Distance: 1800, Time: "1:47.0"},
	}
	best := BestTimeEstimate(runs, 1600)
	require.NotNil(t, best)
	assert.InDelta(t, 93.5, *best, 1e-9)

	// the shorter run scales to the faster estimate
	best = BestTimeEstimate([]PastRun{{Distance: 2000, Time: "2:00.0"}, {Distance: 1000, Time: "59.0"}}, 2000)
	require.NotNil(t, best)
	assert.InDelta(t, 118.0, *best, 1e-9)

	assert.Nil(t, BestTimeEstimate(nil, 1600))
	assert.Nil(t, BestTimeEstimate([]PastRun{{Distance: 0, Time: "1:33.5"}, {Distance: 1600, Time: "n/a"}}, 1600))
}

func TestClassStrengthFromGrades(t *testing.T) {
	tests := []struct {
		name   string
		grades []string
		want   float64
	}{
		{"none", nil, 0},
		{"grade one", []string{"G1"}, GradeOneStrength},
		{"roman", []string{"GIII", "GI"}, GradeOneStrength},
		{"jpn graded", []string{"Jpn2"}, GradedStrength},
		{"listed", []string{"L", "maiden"}, OpenListedStrength},
		{"open", []string{"OP"}, OpenListedStrength},
		{"full width", []string{"Ｇ２"}, GradedStrength},
		{"unknown", []string{"1勝クラス"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassStrengthFromGrades(tt.grades))
		})
	}
}

func TestFileSourceLoad(t *testing.T) {
	src := NewFileSource("testdata/events.json")
	assert.Equal(t, FileSourceName, src.Name())

	inputs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	tokyo := inputs[0]
	assert.Equal(t, "2026-tokyo-11", tokyo.Event.ID)
	assert.Equal(t, "2026-06-07", tokyo.Event.Date)
	assert.Equal(t, "G1", tokyo.Event.Grade)
	assert.Equal(t, 1600, tokyo.Event.Distance)
	assert.Equal(t, models.VenueTokyo, tokyo.Event.VenueKey)
	require.Len(t, tokyo.Participants, 3)

	alpha := tokyo.Participants[0]
	assert.Equal(t, []int{1, 2, 1}, alpha.RecentPlacings)
	require.NotNil(t, alpha.BestTime)
	assert.InDelta(t, 93.5, *alpha.BestTime, 1e-9)
	assert.Equal(t, GradeOneStrength, alpha.ClassStrength)
	require.NotNil(t, alpha.Mass)
	assert.Equal(t, 502, *alpha.Mass)

	bravo := tokyo.Participants[1]
	require.NotNil(t, bravo.BestTime)
	assert.InDelta(t, 94.1, *bravo.BestTime, 1e-9)
	assert.Equal(t, 0.25, bravo.ClassStrength)

	charlie := tokyo.Participants[2]
	assert.False(t, charlie.HasOdds())
	assert.Nil(t, charlie.BestTime)
	assert.Nil(t, charlie.Frame)

	nakayama := inputs[1]
	assert.Equal(t, models.VenueNakayama, nakayama.Event.VenueKey)
	assert.Equal(t, 1200, nakayama.Event.Distance)
	assert.Empty(t, nakayama.Participants)
}

func TestFileSourceLoadDirectory(t *testing.T) {
	inputs, err := NewFileSource("testdata/batch").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "a-1", inputs[0].Event.ID)
	assert.Equal(t, "b-1", inputs[1].Event.ID)
}

func TestFileSourceMissingPath(t *testing.T) {
	_, err := NewFileSource("testdata/missing.json").Load(context.Background())
	require.Error(t, err)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, ErrCodeNotFound, srcErr.Code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSourceParseRejectsInvalidDocuments(t *testing.T) {
	src := NewFileSource("")
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"events": [`},
		{"missing id", `{"events": [{"event": {"name": "x"}, "participants": []}]}`},
		{"bad number", `{"events": [{"event": {"id": "e", "name": "x"}, "participants": [{"number": 0, "name": "a"}]}]}`},
		{"negative odds", `{"events": [{"event": {"id": "e", "name": "x"}, "participants": [{"number": 1, "name": "a", "odds": -2}]}]}`},
		{"class out of range", `{"events": [{"event": {"id": "e", "name": "x"}, "participants": [{"number": 1, "name": "a", "class_strength": 1.5}]}]}`},
		{"duplicate number", `{"events": [{"event": {"id": "e", "name": "x"}, "participants": [{"number": 1, "name": "a"}, {"number": 1, "name": "b"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidData)

			var srcErr *SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, ErrCodeInvalidData, srcErr.Code)
			if tt.name == "duplicate number" {
				assert.ErrorIs(t, err, models.ErrInvalidEvent)
			}
		})
	}
}

func TestFileSourceHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("testdata/events.json").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceErrorMessage(t *testing.T) {
	err := NewSourceError("file", ErrCodeInvalidData, "bad", errors.New("boom"))
	assert.Equal(t, "file: invalid_data: bad (boom)", err.Error())
	assert.Equal(t, "file: not_found: gone", NewSourceError("file", ErrCodeNotFound, "gone", nil).Error())
}
