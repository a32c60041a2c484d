package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
)

type fakeRecommender struct {
	mu       sync.Mutex
	emotions []string
	recs     map[string]*models.Recommendation
	err      error
	exported []tasks.BulkExportOpts
	result   *tasks.BulkExportResult
}

func (f *fakeRecommender) Emotions() []string { return f.emotions }

func (f *fakeRecommender) Recommend(_ context.Context, label string) (*models.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.recs[label]
	if !ok {
		return nil, shared.ErrNoRecommendation
	}
	return rec, nil
}

func (f *fakeRecommender) BulkExport(_ context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.BulkExportOpts) (*tasks.BulkExportResult, error) {
	f.mu.Lock()
	f.exported = append(f.exported, opts)
	f.mu.Unlock()
	prog <- tasks.ProgressUpdate{Phase: tasks.ExportRecommendation, Step: 1, Total: 1, Message: "done"}
	return f.result, nil
}

func newFake() *fakeRecommender {
	preview := "https://p.example/1"
	return &fakeRecommender{
		emotions: []string{"Happy"},
		recs: map[string]*models.Recommendation{
			"Happy": {Emotion: "Happy", Tracks: []models.Track{{
				ID:         "t1",
				Name:       "Good Day",
				Artists:    []models.Artist{{Name: "Ice Cube"}},
				Album:      models.Album{Name: "The Predator"},
				PreviewURL: &preview,
			}}},
		},
		result: &tasks.BulkExportResult{
			TotalEmotions:     1,
			SuccessfulExports: 1,
			OutputDirectory:   "out",
			ManifestPath:      "out/manifest.json",
			Results:           []tasks.EmotionExportResult{{Emotion: "Happy", Success: true, Files: []string{"out/Happy/README.md"}}},
		},
	}
}

func press(t *testing.T, m *Model, k tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(k)
	return cmd
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel(t *testing.T) {
	t.Run("lists every display emotion", func(t *testing.T) {
		m := NewModel(context.Background(), newFake(), ExportOpts{})

		if got := len(m.emotionList.Items()); got != len(models.DisplayEmotions) {
			t.Fatalf("expected %d emotions, got %d", len(models.DisplayEmotions), got)
		}
		first := m.emotionList.Items()[0].(emotionItem)
		if first.label != "Happy" || !first.configured {
			t.Errorf("unexpected first item %+v", first)
		}
		second := m.emotionList.Items()[1].(emotionItem)
		if second.configured {
			t.Errorf("%s should not be configured", second.label)
		}
		if m.export.Format != "markdown" {
			t.Errorf("default export format = %q", m.export.Format)
		}
	})

	t.Run("enter fetches tracks and shows them", func(t *testing.T) {
		m := NewModel(context.Background(), newFake(), ExportOpts{})
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

		cmd := press(t, m, enterKey)
		if cmd == nil {
			t.Fatal("expected a fetch command")
		}
		m.Update(cmd())

		if m.view != TrackListView {
			t.Fatalf("view = %v, want TrackListView", m.view)
		}
		if len(m.trackList.Items()) != 1 {
			t.Fatalf("expected 1 track, got %d", len(m.trackList.Items()))
		}
		if !strings.Contains(m.View(), "Good Day") {
			t.Errorf("track list should render the track name:\n%s", m.View())
		}

		press(t, m, escKey)
		if m.view != EmotionListView {
			t.Errorf("esc should return to the emotion list, got %v", m.view)
		}
	})

	t.Run("fetch failure stays on the list with a status", func(t *testing.T) {
		fake := newFake()
		fake.err = errors.New("catalog down")
		m := NewModel(context.Background(), fake, ExportOpts{})

		m.Update(press(t, m, enterKey)())

		if m.view != EmotionListView {
			t.Fatalf("view = %v, want EmotionListView", m.view)
		}
		if !strings.Contains(m.status, "catalog down") {
			t.Errorf("status = %q", m.status)
		}
	})

	t.Run("confirm and export", func(t *testing.T) {
		fake := newFake()
		m := NewModel(context.Background(), fake, ExportOpts{Format: "csv", OutputDir: "out"})
		m.Update(press(t, m, enterKey)())

		press(t, m, enterKey)
		if m.view != ConfirmView {
			t.Fatalf("view = %v, want ConfirmView", m.view)
		}
		if !strings.Contains(m.View(), "Export Happy") {
			t.Errorf("confirm view:\n%s", m.View())
		}

		cmd := press(t, m, runeKey('y'))
		if m.view != ExportView {
			t.Fatalf("view = %v, want ExportView", m.view)
		}

		for i := 0; cmd != nil && i < 10; i++ {
			_, cmd = m.Update(cmd())
		}

		if m.view != ResultView {
			t.Fatalf("view = %v, want ResultView", m.view)
		}
		if len(fake.exported) != 1 {
			t.Fatalf("expected one export, got %d", len(fake.exported))
		}
		opts := fake.exported[0]
		if opts.Format != "csv" || opts.OutputDir != "out" || len(opts.Emotions) != 1 || opts.Emotions[0] != "Happy" {
			t.Errorf("unexpected export opts %+v", opts)
		}
		if !strings.Contains(m.View(), "out/Happy/README.md") {
			t.Errorf("result view should list files:\n%s", m.View())
		}

		press(t, m, runeKey('r'))
		if m.view != EmotionListView || m.result != nil {
			t.Errorf("restart should reset to the emotion list")
		}
	})

	t.Run("n cancels the export", func(t *testing.T) {
		fake := newFake()
		m := NewModel(context.Background(), fake, ExportOpts{})
		m.Update(press(t, m, enterKey)())
		press(t, m, enterKey)

		press(t, m, runeKey('n'))
		if m.view != TrackListView {
			t.Errorf("view = %v, want TrackListView", m.view)
		}
		if len(fake.exported) != 0 {
			t.Error("export should not have started")
		}
	})

	t.Run("q quits from the list", func(t *testing.T) {
		m := NewModel(context.Background(), newFake(), ExportOpts{})
		cmd := press(t, m, runeKey('q'))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestTrackItem(t *testing.T) {
	item := trackItem{track: models.Track{
		Name:    "Song",
		Artists: []models.Artist{{Name: "A"}, {Name: "B"}},
		Album:   models.Album{Name: "LP"},
	}}
	if got := item.Description(); got != "A, B • LP • no preview" {
		t.Errorf("Description() = %q", got)
	}
}
