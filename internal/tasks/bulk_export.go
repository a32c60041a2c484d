package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/moodmix/internal/formatter"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk recommendation exports.
type BulkExportOpts struct {
	Format     string                                                // Export format: json, csv, markdown, text
	OutputDir  string                                                // Base output directory (default: moodmix_export_{epoch})
	Emotions   []string                                              // Labels to export (default: every configured label)
	NumWorkers int                                                   // Concurrent workers (default: 3)
	RateLimit  float64                                               // Fetches per second (default: 5)
	CoverImage func(ctx context.Context, url string) ([]byte, error) // Optional cover fetcher for markdown
}

// EmotionExportResult is the outcome for a single emotion.
type EmotionExportResult struct {
	Emotion    string   `json:"emotion"`
	Success    bool     `json:"success"`
	TrackCount int      `json:"track_count"`
	Files      []string `json:"files,omitempty"`
	Error      error    `json:"-"`
	ErrorText  string   `json:"error,omitempty"`
}

// BulkExportResult summarises a [Recommender.BulkExport] run.
type BulkExportResult struct {
	TotalEmotions     int                   `json:"total_emotions"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"manifest_path"`
	Results           []EmotionExportResult `json:"results"`
}

type exportJob struct {
	emotion string
	rec     *models.Recommendation
}

// BulkExport fetches recommendations for several emotions and writes each one to disk.
//
// Fetches go through a rate limiter; writes run on a small worker pool. A failure for one
// emotion is recorded in the result and does not stop the others. A manifest.json is written last.
func (r *Recommender) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("moodmix_export_%d", time.Now().Unix())
	}
	if len(opts.Emotions) == 0 {
		opts.Emotions = r.Emotions()
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(opts.Emotions)
	result := &BulkExportResult{
		TotalEmotions:   total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]EmotionExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, total)
	results := make(chan EmotionExportResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go r.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, emotion := range opts.Emotions {
			if err := limiter.Wait(ctx); err != nil {
				results <- EmotionExportResult{Emotion: emotion, Error: err}
				continue
			}

			sendProgress(prog, fetchingTracksUpdate(i+1, total, emotion))
			rec, err := r.Recommend(ctx, emotion)
			if err != nil {
				results <- EmotionExportResult{Emotion: emotion, Error: err}
				continue
			}
			jobs <- exportJob{emotion: emotion, rec: rec}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorText = res.Error.Error()
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, res))
		} else {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res))
		}
		result.Results = append(result.Results, res)

		if completed == total {
			break
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err == nil {
		err = os.WriteFile(manifestPath, data, 0644)
	}
	if err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker writes recommendations from the jobs channel until it is closed.
func (r *Recommender) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- EmotionExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := EmotionExportResult{Emotion: job.emotion, TrackCount: len(job.rec.Tracks)}

		files, err := formatter.WriteExport(ctx, job.rec, formatter.WriteOpts{
			Format:     opts.Format,
			OutputDir:  opts.OutputDir,
			CoverImage: opts.CoverImage,
		})
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.Success = true
			res.Files = files
		}
		results <- res
	}
}
