package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Recommend prints the tracks for a display emotion in the requested format.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	label := cmd.StringArg("emotion")
	if label == "" {
		return fmt.Errorf("%w: emotion", shared.ErrMissingArgument)
	}

	recommender, err := r.recommender(ctx)
	if err != nil {
		return err
	}

	rec, err := recommender.Recommend(ctx, label)
	if err != nil {
		return err
	}

	if cmd.Bool("record") {
		repo, err := r.history()
		if err != nil {
			return err
		}
		n, err := repo.Record(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to record recommendation: %w", err)
		}
		r.logger.Info("recorded recommendation", "emotion", label, "rows", n)
	}

	out, err := formatter.Render(rec, cmd.String("format"))
	if err != nil {
		return err
	}
	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// History lists stored recommendations, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history()
	if err != nil {
		return err
	}

	if cmd.Bool("stats") {
		counts, err := repo.CountByEmotion()
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(counts, true)
		}
		r.writePlainHeader("Recommendations by emotion")
		for _, label := range slices.Sorted(maps.Keys(counts)) {
			r.writePlain("%-10s %d\n", label, counts[label])
		}
		return nil
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if emotion := cmd.String("emotion"); emotion != "" {
		criteria["emotion"] = emotion
	}

	recs, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, true)
	}
	if len(recs) == 0 {
		return r.writePlain("No recommendations recorded yet.\n")
	}
	_, err = r.output.Write(formatter.HistoryTable(recs))
	return err
}

// Export writes recommendations for several emotions to disk, printing progress as it goes.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	recommender, err := r.recommender(ctx)
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		Emotions:   cmd.StringSlice("emotion"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}
	if cmd.Bool("covers") {
		client := r.client()
		opts.CoverImage = func(ctx context.Context, url string) ([]byte, error) {
			return formatter.DownloadImage(ctx, client, url)
		}
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportRecommendation:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := recommender.BulkExport(ctx, progress, opts)
	close(progress)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalEmotions)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	if result.FailedExports > 0 {
		r.writePlain("\nFailed %d:\n", result.FailedExports)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.Emotion, res.Error)
			}
		}
	}
	return err
}
