package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vicrodh/qbz-control/internal/logtail"
	"github.com/vicrodh/qbz-control/internal/qbz"
	"github.com/vicrodh/qbz-control/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewPlayer View = iota
	ViewSearch
	ViewLogs
)

// Actions is the command surface the UI drives. *engine.Dispatcher
// implements it.
type Actions interface {
	TogglePlayback(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	NudgeSeek(delta float64)
	NudgeVolume(delta float64)
	ToggleShuffle(ctx context.Context) error
	CycleRepeat(ctx context.Context) error
	PlayQueueIndex(ctx context.Context, index int) error
	AddToQueue(ctx context.Context, track qbz.Track) error
	PlayAlbum(ctx context.Context, albumID string) error
	Search(ctx context.Context, query string) (*qbz.SearchResponse, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Actions   Actions
	Reconnect func(context.Context) error
	LogPath   string
	Tick      time.Duration
	ThemeName string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	actions   Actions
	reconnect func(context.Context) error
	logPath   string
	tick      time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	progress    progress.Model
	currentView View
	showHelp    bool
	width       int
	height      int
	ready       bool

	// Data state
	snapshot state.Snapshot

	// Queue state
	selectedRow int

	// Search state
	searchInput   textinput.Model
	searchResults []searchResult
	searchRow     int
	searchPending bool

	// Log state
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	theme := GetTheme(opts.ThemeName)

	input := textinput.New()
	input.Placeholder = "Albums, tracks, artists"
	input.Prompt = "/ "
	input.CharLimit = 120

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		actions:     opts.Actions,
		reconnect:   opts.Reconnect,
		logPath:     opts.LogPath,
		tick:        tick,
		theme:       theme,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		progress:    newProgress(theme),
		currentView: ViewPlayer,
		searchInput: input,
		logViewport: viewport.New(0, 0),
	}
}

func newProgress(t Theme) progress.Model {
	return progress.New(
		progress.WithGradient(t.Accent, t.Info),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case actionDoneMsg:
		// Failures are already on the snapshot as a notice.
		return m, fetchSnapshotCmd(m.store)

	case searchResultMsg:
		m.searchPending = false
		m.searchResults = flattenSearch(msg.res)
		m.searchRow = 0
		return m, nil

	case logLinesMsg:
		m.logLines, m.logErr = msg.lines, msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.currentView == ViewSearch && m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}

	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = newProgress(m.theme)
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewPlayer
		return m, nil
	case key.Matches(msg, m.keys.ToggleLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewPlayer
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Search):
		m.currentView = ViewSearch
		m.searchInput.SetValue("")
		cmd := m.searchInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Reconnect):
		if m.reconnect == nil {
			return m, nil
		}
		return m, m.run(m.reconnect)
	}

	if cmd, ok := m.transportKey(msg); ok {
		return m, cmd
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewLogs:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	default:
		return m.handleQueueKey(msg)
	}
}

// transportKey handles playback keys, which work in every view.
func (m Model) transportKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.actions == nil {
		return nil, false
	}
	a := m.actions
	switch {
	case key.Matches(msg, m.keys.PlayPause):
		return m.run(a.TogglePlayback), true
	case key.Matches(msg, m.keys.Next):
		return m.run(a.Next), true
	case key.Matches(msg, m.keys.Previous):
		return m.run(a.Previous), true
	case key.Matches(msg, m.keys.SeekBack):
		a.NudgeSeek(-SeekStep)
		return fetchSnapshotCmd(m.store), true
	case key.Matches(msg, m.keys.SeekFwd):
		a.NudgeSeek(SeekStep)
		return fetchSnapshotCmd(m.store), true
	case key.Matches(msg, m.keys.VolUp):
		a.NudgeVolume(VolumeStep)
		return fetchSnapshotCmd(m.store), true
	case key.Matches(msg, m.keys.VolDown):
		a.NudgeVolume(-VolumeStep)
		return fetchSnapshotCmd(m.store), true
	case key.Matches(msg, m.keys.Shuffle):
		return m.run(a.ToggleShuffle), true
	case key.Matches(msg, m.keys.Repeat):
		return m.run(a.CycleRepeat), true
	}
	return nil, false
}

// handleQueueKey moves through and plays upcoming queue rows.
func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.upcomingCount()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Confirm):
		if count == 0 || m.actions == nil {
			return m, nil
		}
		index := upcomingIndex(m.snapshot.Queue, m.selectedRow)
		m.selectedRow = 0
		return m, m.run(func(ctx context.Context) error {
			return m.actions.PlayQueueIndex(ctx, index)
		})
	}
	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searchInput.Blur()
		if len(m.searchResults) == 0 {
			m.currentView = ViewPlayer
		}
		return m, nil
	case "enter":
		m.searchInput.Blur()
		query := m.searchInput.Value()
		if m.actions == nil || query == "" {
			return m, nil
		}
		m.searchPending = true
		return m, searchCmd(m.ctx, m.actions, query)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleSearchKey navigates results. Enter plays an album or queues a track.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.searchRow > 0 {
			m.searchRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.searchRow < len(m.searchResults)-1 {
			m.searchRow++
		}
	case key.Matches(msg, m.keys.Confirm):
		if m.searchRow >= len(m.searchResults) || m.actions == nil {
			return m, nil
		}
		res := m.searchResults[m.searchRow]
		if res.track != nil {
			track := *res.track
			return m, m.run(func(ctx context.Context) error { return m.actions.AddToQueue(ctx, track) })
		}
		return m, m.run(func(ctx context.Context) error { return m.actions.PlayAlbum(ctx, res.albumID) })
	}
	return m, nil
}

// handleTick re-reads the store and, when visible, the log file.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

func (m *Model) resize() {
	width := m.width - 4
	if width > LayoutMaxProgressWidth {
		width = LayoutMaxProgressWidth
	}
	if width < 10 {
		width = 10
	}
	m.progress.Width = width
	m.help.Width = m.width
	m.logViewport.Width = m.width
	m.logViewport.Height = maxInt(m.height-4, 3)
	m.updateLogViewport()
}

func (m *Model) clampSelection() {
	count := m.upcomingCount()
	if m.selectedRow >= count {
		m.selectedRow = maxInt(count-1, 0)
	}
}

func (m Model) upcomingCount() int {
	if m.snapshot.Queue == nil {
		return 0
	}
	return len(m.snapshot.Queue.Upcoming)
}

// run executes a blocking command off the UI goroutine.
func (m Model) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionDoneMsg struct{ err error }

type searchResultMsg struct {
	res *qbz.SearchResponse
	err error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func searchCmd(ctx context.Context, actions Actions, query string) tea.Cmd {
	return func() tea.Msg {
		res, err := actions.Search(ctx, query)
		return searchResultMsg{res: res, err: err}
	}
}

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, LogTailLines)
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.String())
		}
		return logLinesMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
