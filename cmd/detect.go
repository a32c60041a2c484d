package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/vision"
	"github.com/urfave/cli/v3"
)

// Detect classifies the face in a local image file.
func (r *Runner) Detect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("image")
	if path == "" {
		return fmt.Errorf("%w: image path", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	buf, err := vision.NewDecoder(r.conf().Upload.MaxBytes).Decode(data, contentTypeFor(path, data), int64(len(data)))
	if err != nil {
		return err
	}

	analyzer, err := r.emotionAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to load vision models: %w", err)
	}

	analysis, err := analyzer.Analyze(ctx, buf)
	if err != nil {
		return err
	}
	if !analysis.FaceFound {
		return fmt.Errorf("%w in %s", shared.ErrNoFaceDetected, path)
	}

	r.logger.Debug("detected", "path", path, "region", analysis.Region.String(), "emotion", analysis.Emotion)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{"emotion": string(analysis.Emotion)}, false)
	}

	display, ok := analysis.Emotion.Display()
	if !ok {
		return r.writePlain("%s (no playlist mapping)\n", analysis.Emotion)
	}
	return r.writePlain("%s\n", display)
}

// contentTypeFor derives the declared media type from the file extension, sniffing when there is none.
func contentTypeFor(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return http.DetectContentType(data)
	}
}
