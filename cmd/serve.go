package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/vision"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve wires the vision and catalog pipelines into the HTTP service and runs it until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.conf()

	analyzer, err := r.emotionAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to load vision models: %w", err)
	}

	recommender, err := r.recommender(ctx)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Decoder:     vision.NewDecoder(config.Upload.MaxBytes),
		Analyzer:    analyzer,
		Recommender: recommender,
		UploadField: config.Upload.Field,
		Timeout:     config.Server.RequestTimeout,
		Logger:      r.logger,
	}
	if config.Database.RecordHistory {
		repo, err := r.history()
		if err != nil {
			return err
		}
		deps.Recorder = repo
	}

	srv := server.NewHTTPServer(config.Server, server.NewRouter(deps))

	serverErr := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", srv.Addr, "emotions", recommender.Emotions())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		r.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: shutdown: %v", shared.ErrTimeout, err)
		}
		return nil
	}
}
