package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/ledger"
	"github.com/Veraticus/spice-budget/internal/model"
	"github.com/Veraticus/spice-budget/internal/tui/themes"
)

// Model is the read-only monthly dashboard.
type Model struct {
	source  StateSource
	changes <-chan ledger.Event
	now     func() time.Time
	month   time.Time
	state   model.AppState
	theme   themes.Theme
	keymap  KeyMap
	help    help.Model
	bar     progress.Model
	width   int
	height  int
	recent  int
	ready   bool
	// quitting suppresses the final frame.
	quitting bool
}

// NewModel creates a dashboard reading from source. When changes is not nil
// the dashboard reloads on every event received from it.
func NewModel(source StateSource, changes <-chan ledger.Event, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	return Model{
		source:  source,
		changes: changes,
		now:     cfg.Now,
		month:   firstOfMonth(cfg.Now()),
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    h,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		width:   cfg.Width,
		height:  cfg.Height,
		recent:  cfg.Recent,
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Month returns the YYYY-MM key of the month on screen.
func (m Model) Month() string {
	return derive.MonthKey(m.month)
}

// Init loads the first snapshot and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadState(), m.waitForChange())
}

func (m Model) loadState() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		return stateLoadedMsg{state: source()}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		ev, ok := <-changes
		if !ok {
			return nil
		}
		return stateChangedMsg{event: ev}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateLoadedMsg:
		m.state = msg.state
		m.ready = true
		return m, nil

	case stateChangedMsg:
		return m, tea.Batch(m.loadState(), m.waitForChange())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.PrevMonth):
		m.month = m.month.AddDate(0, -1, 0)
	case key.Matches(msg, m.keymap.NextMonth):
		m.month = m.month.AddDate(0, 1, 0)
	case key.Matches(msg, m.keymap.CurrentMonth):
		m.month = firstOfMonth(m.now())
	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadState()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the dashboard for the selected month.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}
	return m.renderDashboard()
}
