package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EmotionListView ViewState = iota
	TrackListView
	ConfirmView
	ExportView
	ResultView
)

// Recommender is what the TUI needs from [tasks.Recommender].
type Recommender interface {
	Emotions() []string
	Recommend(ctx context.Context, label string) (*models.Recommendation, error)
	BulkExport(ctx context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.BulkExportOpts) (*tasks.BulkExportResult, error)
}

// ExportOpts configures the export started from the confirm view.
type ExportOpts struct {
	Format    string
	OutputDir string
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	recommender  Recommender
	export       ExportOpts
	width        int
	height       int
	emotionList  list.Model
	trackList    list.Model
	selected     *models.Recommendation
	progressChan chan tasks.ProgressUpdate
	done         chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model listing every display emotion.
func NewModel(ctx context.Context, recommender Recommender, export ExportOpts) *Model {
	if export.Format == "" {
		export.Format = "markdown"
	}

	configured := make(map[string]bool)
	for _, label := range recommender.Emotions() {
		configured[label] = true
	}
	items := make([]list.Item, len(models.DisplayEmotions))
	for i, label := range models.DisplayEmotions {
		items[i] = emotionItem{label: label, configured: configured[label]}
	}

	emotions := list.New(items, list.NewDefaultDelegate(), 0, 0)
	emotions.Title = "How are you feeling?"

	return &Model{
		ctx:         ctx,
		view:        EmotionListView,
		recommender: recommender,
		export:      export,
		emotionList: emotions,
		trackList:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init has nothing to load up front; the emotion list is static.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.emotionList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EmotionListView:
			return m.handleEmotionListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ExportView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRecommendationFetched:
		data := msg.data.(recommendationFetched)
		if data.err != nil {
			m.status = fmt.Sprintf("%s: %v", data.label, data.err)
			m.view = EmotionListView
			return m, nil
		}
		m.status = ""
		m.selected = data.rec
		items := make([]list.Item, len(data.rec.Tracks))
		for i, track := range data.rec.Tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("%s (%d tracks)", data.rec.Emotion, len(data.rec.Tracks))
		if m.width > 0 {
			m.trackList.SetSize(m.width-4, m.height-8)
		}
		m.view = TrackListView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.done)

	case MsgExportComplete:
		data := msg.data.(exportComplete)
		m.result = data.result
		m.err = data.err
		m.progressChan = nil
		m.done = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case EmotionListView:
		return m.renderEmotionList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEmotionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.emotionList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.emotionList.SelectedItem().(emotionItem); ok {
				m.status = fmt.Sprintf("Fetching %s tracks...", item.label)
				return m, m.fetchRecommendation(item.label)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.emotionList, cmd = m.emotionList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = EmotionListView
			return m, nil
		case key.Matches(msg, m.keys.enter):
			m.view = ConfirmView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ExportView
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = EmotionListView
		m.selected = nil
		m.result = nil
		m.err = nil
		m.status = ""
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case EmotionListView:
		m.emotionList, cmd = m.emotionList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRecommendation(label string) tea.Cmd {
	ctx := m.ctx
	recommender := m.recommender
	return func() tea.Msg {
		rec, err := recommender.Recommend(ctx, label)
		return recommendationFetchedMsg(label, rec, err)
	}
}

// startExport runs the export in the background; the result arrives after the progress channel closes.
func (m *Model) startExport() tea.Cmd {
	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan Msg, 1)
	m.progressChan = prog
	m.done = done

	ctx := m.ctx
	recommender := m.recommender
	opts := tasks.BulkExportOpts{
		Format:     m.export.Format,
		OutputDir:  m.export.OutputDir,
		Emotions:   []string{m.selected.Emotion},
		NumWorkers: 1,
	}

	go func() {
		result, err := recommender.BulkExport(ctx, prog, opts)
		done <- exportCompleteMsg(result, err)
		close(prog)
	}()

	return waitForProgress(prog, done)
}

func waitForProgress(prog <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-prog
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderEmotionList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit})
	if m.status == "" {
		return fmt.Sprintf("%s\n\n%s", m.emotionList.View(), helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", m.emotionList.View(), styles.warn.Render(m.status), helpView)
}

func (m *Model) renderTrackList() string {
	exportKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export"))
	helpView := m.help.ShortHelpView([]key.Binding{exportKey, m.keys.back, m.keys.quit})
	if len(m.selected.Tracks) == 0 {
		empty := styles.warn.Render(fmt.Sprintf("The %s playlist has no tracks.", m.selected.Emotion))
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.Mood(m.selected.Emotion), empty, helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", styles.Mood(m.selected.Emotion), m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Export %s recommendations?", m.selected.Emotion))
	dir := m.export.OutputDir
	if dir == "" {
		dir = styles.help.Render("(new timestamped directory)")
	}
	info := fmt.Sprintf("\nFormat: %s\nDirectory: %s\nTracks: %d\n", m.export.Format, dir, len(m.selected.Tracks))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTracks:
		phase = "Fetching tracks..."
	case tasks.ExportRecommendation:
		phase = "Writing files..."
	default:
		phase = "Processing..."
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	var b strings.Builder
	if m.result.FailedExports > 0 {
		b.WriteString(styles.err.Render("✗ Export failed"))
	} else {
		b.WriteString(styles.ok.Render("✓ Export complete!"))
	}
	fmt.Fprintf(&b, "\n\nDirectory: %s\nManifest: %s\n", m.result.OutputDirectory, m.result.ManifestPath)
	for _, res := range m.result.Results {
		if res.Error != nil {
			b.WriteString(styles.warn.Render(fmt.Sprintf("\n  • %s: %v", res.Emotion, res.Error)))
			continue
		}
		for _, f := range res.Files {
			fmt.Fprintf(&b, "\n  • %s", f)
		}
	}
	fmt.Fprintf(&b, "\n\n%s", helpView)
	return b.String()
}
