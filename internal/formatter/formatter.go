// package formatter renders recommendations as CSV, Markdown, plain text or JSON and writes them to disk
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Formats lists the names accepted by [Render].
var Formats = []string{"text", "markdown", "csv", "json"}

// Render converts rec into the named format.
func Render(rec *models.Recommendation, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return ToText(rec)
	case "markdown", "md":
		return ToMarkdown(rec, "")
	case "csv":
		return ToCSV(rec)
	case "json":
		return shared.MarshalJSON(rec, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ToCSV converts a Recommendation to CSV format with columns: ID, Title, Artists, Album, Preview URL, Cover URL
func ToCSV(rec *models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "Preview URL", "Cover URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range rec.Tracks {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistNames(),
			track.Album.Name,
			previewOrEmpty(track),
			track.CoverURL(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a Recommendation to Markdown with an optional cover image
func ToMarkdown(rec *models.Recommendation, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", rec.Emotion))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(rec.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range rec.Tracks {
		line := fmt.Sprintf("%d. %s - %s (%s)", i+1, artistsOrUnknown(track), track.Name, track.Album.Name)
		if track.PreviewURL != nil {
			line += fmt.Sprintf(" [preview](%s)", *track.PreviewURL)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ToText converts a Recommendation to plain text
func ToText(rec *models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Emotion: %s\n", rec.Emotion))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(rec.Tracks)))

	for i, track := range rec.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, artistsOrUnknown(track), track.Name))
	}

	return buf.Bytes(), nil
}

// HistoryTable renders stored recommendations as aligned plain-text rows.
func HistoryTable(recs []*models.SongRecommendation) []byte {
	var buf bytes.Buffer
	if len(recs) == 0 {
		buf.WriteString("No recommendations recorded.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%-20s  %-8s  %-32s  %s\n", "CREATED", "EMOTION", "TITLE", "ARTIST"))
	for _, r := range recs {
		buf.WriteString(fmt.Sprintf("%-20s  %-8s  %-32s  %s\n",
			r.CreatedAt().Format(time.DateTime), r.Emotion(), clip(r.Title(), 32), r.Artist()))
	}
	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteOpts controls [WriteExport].
type WriteOpts struct {
	Format     string
	OutputDir  string
	CoverImage func(ctx context.Context, url string) ([]byte, error) // optional, markdown only
}

// WriteExport writes rec under opts.OutputDir and returns the created files.
//
// Markdown goes to {dir}/{emotion}/README.md with an optional cover.jpg; other formats write {dir}/{emotion}.{ext}.
func WriteExport(ctx context.Context, rec *models.Recommendation, opts WriteOpts) ([]string, error) {
	base := strings.ToLower(rec.Emotion)
	if base == "" {
		return nil, fmt.Errorf("%w: recommendation has no emotion", shared.ErrInvalidArgument)
	}

	switch strings.ToLower(opts.Format) {
	case "markdown", "md":
		return writeMarkdown(ctx, rec, filepath.Join(opts.OutputDir, base), opts.CoverImage)
	case "csv":
		return writeFile(rec, filepath.Join(opts.OutputDir, base+".csv"), ToCSV)
	case "text", "txt":
		return writeFile(rec, filepath.Join(opts.OutputDir, base+".txt"), ToText)
	case "", "json":
		return writeFile(rec, filepath.Join(opts.OutputDir, base+".json"), func(r *models.Recommendation) ([]byte, error) {
			return shared.MarshalJSON(r, true)
		})
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, opts.Format)
	}
}

func writeFile(rec *models.Recommendation, path string, render func(*models.Recommendation) ([]byte, error)) ([]string, error) {
	data, err := render(rec)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return []string{path}, nil
}

func writeMarkdown(ctx context.Context, rec *models.Recommendation, dir string, cover func(context.Context, string) ([]byte, error)) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var files []string
	var coverFilename string
	if cover != nil && len(rec.Tracks) > 0 && rec.Tracks[0].CoverURL() != "" {
		if data, err := cover(ctx, rec.Tracks[0].CoverURL()); err == nil {
			path := filepath.Join(dir, "cover.jpg")
			if err := os.WriteFile(path, data, 0644); err == nil {
				coverFilename = "cover.jpg"
				files = append(files, path)
			}
		}
	}

	md, err := ToMarkdown(rec, coverFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}
	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return append(files, mdFile), nil
}

func previewOrEmpty(t models.Track) string {
	if t.PreviewURL == nil {
		return ""
	}
	return *t.PreviewURL
}

func artistsOrUnknown(t models.Track) string {
	if names := t.ArtistNames(); names != "" {
		return names
	}
	return "Unknown Artist"
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
