package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/services"
	"github.com/desertthunder/youtify/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ConfirmView
	ConvertView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      services.SourceCatalog
	engine       *tasks.ConversionEngine
	playlistID   string
	opts         tasks.RunOptions
	width        int
	height       int
	source       *models.SourcePlaylist
	recordList   list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	processed    int
	matched      int
	summary      *models.ConversionSummary
	err          error
	help         help.Model
	keys         keyMap
}

type infoFetchedMsg struct {
	source *models.SourcePlaylist
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type conversionCompleteMsg struct {
	summary *models.ConversionSummary
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.SourceCatalog, engine *tasks.ConversionEngine, playlistID string, opts tasks.RunOptions) *Model {
	return &Model{
		ctx:        ctx,
		view:       LoadingView,
		catalog:    catalog,
		engine:     engine,
		playlistID: playlistID,
		opts:       opts,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the TUI by fetching source playlist metadata.
func (m *Model) Init() tea.Cmd {
	return m.fetchInfo()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.recordList.Width() != 0 {
			m.recordList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}

	case infoFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.source = msg.source
		m.view = ConfirmView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		if record, ok := m.progress.Data.(models.ConversionRecord); ok {
			m.processed++
			if record.Match.Matched {
				m.matched++
			}
		}
		return m, m.waitForProgress()

	case conversionCompleteMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.buildRecordList()
		m.view = ResultView
		return m, nil
	}

	if m.view == ResultView {
		var cmd tea.Cmd
		m.recordList, cmd = m.recordList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.help.Render("Fetching playlist...")
	case ConfirmView:
		return m.renderConfirm()
	case ConvertView:
		return m.renderConvert()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		return m, tea.Quit
	case "y", "enter":
		m.view = ConvertView
		return m, m.startConversion()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) fetchInfo() tea.Cmd {
	return func() tea.Msg {
		source, err := m.catalog.PlaylistInfo(m.ctx, m.playlistID)
		return infoFetchedMsg{source: source, err: err}
	}
}

func (m *Model) startConversion() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		summary, err := m.engine.Run(m.ctx, m.playlistID, m.opts, m.progressChan)
		m.summary = summary
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return conversionCompleteMsg{summary: m.summary, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return conversionCompleteMsg{summary: m.summary, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) buildRecordList() {
	if m.summary == nil {
		return
	}
	items := make([]list.Item, len(m.summary.Records))
	for i, rec := range m.summary.Records {
		items[i] = recordItem{record: rec}
	}
	m.recordList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.recordList.Title = "Results"
	m.recordList.SetSize(m.width-4, m.height-10)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Convert '%s' to Spotify?", m.source.Title))
	info := fmt.Sprintf("\nChannel: %s\nItems: %d\n", m.source.Channel, m.source.ItemCount)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderConvert() string {
	title := styles.title.Render("Converting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSource:
		phase = "Fetching source playlist..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.ExportReport:
		phase = "Writing report..."
	default:
		phase = "Processing..."
	}

	tally := styles.help.Render(fmt.Sprintf("%d matched / %d processed", m.matched, m.processed))

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, tally)
}

func (m *Model) renderResult() string {
	if m.summary == nil {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Conversion failed: %v\n\nPress q to quit", m.err))
		}
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	state := m.summary.State
	title := styles.ok.Render("✓ Conversion Complete")
	if m.err != nil {
		title = styles.warn.Render(fmt.Sprintf("Conversion finished with errors: %v", m.err))
	}

	info := fmt.Sprintf(
		"\nSource: %s (%d items)\nMatched: %d/%d (%.0f%%)\nConfidence: %d high / %d medium / %d low / %d not found",
		m.summary.Source.Title,
		state.Total,
		state.Matched,
		state.Processed,
		state.MatchRate()*100,
		m.summary.High,
		m.summary.Medium,
		m.summary.Low,
		m.summary.NotFound,
	)

	if m.summary.Playlist != nil {
		info += fmt.Sprintf("\nPlaylist: %s", m.summary.Playlist.URL)
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, info, m.recordList.View(), helpView)
}
