package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	th "github.com/desertthunder/moodmix/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkExport(t *testing.T) {
	ctx := context.Background()
	catalog := &th.StaticPlaylists{Tracks: map[string][]models.Track{
		"h": {th.SampleTrack("t1", "Song One", "Artist")},
		"s": {},
	}}
	r := NewRecommender(&th.StaticToken{Token: "tok"}, catalog, map[string]string{"Happy": "h", "Sad": "s"}, nil)

	t.Run("Exports Every Configured Emotion", func(t *testing.T) {
		dir := t.TempDir()
		prog := make(chan ProgressUpdate, 16)

		result, err := r.BulkExport(ctx, prog, BulkExportOpts{Format: "csv", OutputDir: dir, RateLimit: 100})
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalEmotions)
		assert.Equal(t, 2, result.SuccessfulExports)
		assert.Zero(t, result.FailedExports)
		assert.FileExists(t, filepath.Join(dir, "happy.csv"))
		assert.FileExists(t, filepath.Join(dir, "sad.csv"))

		data, err := os.ReadFile(result.ManifestPath)
		require.NoError(t, err)
		var manifest BulkExportResult
		require.NoError(t, json.Unmarshal(data, &manifest))
		assert.Len(t, manifest.Results, 2)

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		assert.Contains(t, phases, FetchTracks)
		assert.Contains(t, phases, ExportRecommendation)
	})

	t.Run("Records Per-Emotion Failures", func(t *testing.T) {
		dir := t.TempDir()
		result, err := r.BulkExport(ctx, nil, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
			Emotions:  []string{"Happy", "Fear", "disgust"},
			RateLimit: 100,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.SuccessfulExports)
		assert.Equal(t, 2, result.FailedExports)
		for _, res := range result.Results {
			switch res.Emotion {
			case "Fear":
				assert.ErrorIs(t, res.Error, shared.ErrNoRecommendation)
			case "disgust":
				assert.ErrorIs(t, res.Error, shared.ErrUnsupportedEmotion)
			case "Happy":
				assert.True(t, res.Success)
				assert.Equal(t, 1, res.TrackCount)
			}
		}
	})

	t.Run("Default Output Directory", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		t.Cleanup(func() { th.MustChdir(t, wd) })

		result, err := r.BulkExport(ctx, nil, BulkExportOpts{Format: "text", Emotions: []string{"Happy"}, RateLimit: 100})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(result.OutputDirectory, "moodmix_export_"))
		th.AssertFileExists(t, filepath.Join(result.OutputDirectory, "happy.txt"))
	})

	t.Run("Bad Format Fails Each Emotion", func(t *testing.T) {
		result, err := r.BulkExport(ctx, nil, BulkExportOpts{Format: "pdf", OutputDir: t.TempDir(), RateLimit: 100})
		require.NoError(t, err)
		assert.Equal(t, 2, result.FailedExports)
	})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "fetch_tracks", FetchTracks.String())
	assert.Equal(t, "export_recommendation", ExportRecommendation.String())
	assert.Equal(t, "", Phase(99).String())
}
