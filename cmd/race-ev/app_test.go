package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/repository"
)

func setupFlags(t *testing.T, output, format string) {
	t.Helper()
	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	inputPath = filepath.Join("..", "..", "internal", "datasource", "testdata", "events.json")
	outputPath = output
	outputFormat = format
	awsSecretID = ""

	log = logrus.New()
	log.SetOutput(io.Discard)
	t.Cleanup(func() {
		inputPath, outputPath, outputFormat = "", "", ""
		cfg = nil
	})
}

func TestScorePipelineEndToEnd(t *testing.T) {
	output := filepath.Join(t.TempDir(), "results.msgpack")
	setupFlags(t, output, "msgpack")

	ctx := context.Background()
	require.NoError(t, loadConfig(ctx))
	assert.False(t, cfg.Database.Enabled)

	a, err := newApp(ctx)
	require.NoError(t, err)
	defer a.close()

	summary, err := a.pipeline.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Events)
	assert.Equal(t, 1, summary.Degenerate)

	repo, err := repository.NewFileResultRepository(output, repository.FormatMsgpack, false)
	require.NoError(t, err)

	tokyo, err := repo.GetByEventID(ctx, "2026-tokyo-11")
	require.NoError(t, err)
	require.NotNil(t, tokyo.Result)
	assert.Equal(t, models.VenueTokyo, tokyo.Result.Event.VenueKey)
	assert.Len(t, tokyo.Result.Participants, 3)
	assert.NotEmpty(t, tokyo.Result.Portfolio.Balanced)

	sum := 0.0
	for _, p := range tokyo.Result.Participants {
		sum += p.WinProbability
	}
	assert.InDelta(t, 1.0, sum, 0.01)

	empty, err := repo.GetByEventID(ctx, "2026-nakayama-11")
	require.NoError(t, err)
	assert.True(t, empty.Degenerate)

	_, err = repo.GetByEventID(ctx, "unknown")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoadConfigRejectsUnknownFormat(t *testing.T) {
	setupFlags(t, filepath.Join(t.TempDir(), "results.xml"), "xml")

	err := loadConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Output.Format")
}
