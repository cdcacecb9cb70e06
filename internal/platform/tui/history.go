package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quad/internal/storage"
)

// History browser layout constants
const (
	minWidthForSamples = 90 // Minimum width to show the samples pane
	samplesWidth       = 22 // Width of the samples pane
	maxSampleLines     = 30 // Samples listed before eliding the rest
)

// RunSource is the read side of the run history.
type RunSource interface {
	RecentRuns(limit int) ([]storage.Run, error)
	RateSamples(runID int64) ([]int, error)
}

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous run"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded runs.
type HistoryModel struct {
	source      RunSource
	runs        []storage.Run
	samples     []int
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	showSamples bool
	quitting    bool
}

// NewHistoryModel loads up to limit runs from source.
func NewHistoryModel(source RunSource, limit, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSamples: width >= minWidthForSamples,
	}

	m.runs, m.loadErr = source.RecentRuns(limit)
	m.table = m.createTable()
	m.updateTableRows()
	m.loadSamples()

	return m
}

// createTable creates a new table sized to the terminal.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Backend", Width: 8},
		{Title: "Target", Width: 7},
		{Title: "Interval", Width: 9},
		{Title: "Frames", Width: 9},
		{Title: "Avg FPS", Width: 8},
		{Title: "End", Width: 15},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(m.height)), // Leave room for title, help and borders
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// tableHeight keeps the table at least a few rows tall on tiny terminals.
func tableHeight(termHeight int) int {
	if h := termHeight - 8; h > 3 {
		return h
	}
	return 3
}

// updateTableRows fills the table from the loaded runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		avg := "-"
		if r.Samples > 0 {
			avg = fmt.Sprintf("%.1f", r.AvgFPS)
		}
		reason := r.EndReason
		if reason == "" {
			reason = "running"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			r.Backend,
			fmt.Sprintf("%.1f", r.FrameRate),
			fmt.Sprintf("%dms", r.IntervalMS),
			fmt.Sprintf("%d", r.Frames),
			avg,
			reason,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// loadSamples loads the per-second rates of the selected run.
func (m *HistoryModel) loadSamples() {
	m.samples = nil
	run, ok := m.Selected()
	if !ok {
		return
	}
	samples, err := m.source.RateSamples(run.ID)
	if err == nil {
		m.samples = samples
	}
}

// Selected returns the run under the cursor.
func (m HistoryModel) Selected() (storage.Run, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.Run{}, false
	}
	return m.runs[i], true
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.loadSamples()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.showSamples = m.width >= minWidthForSamples
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RUN HISTORY", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := boxStyle.Render(m.renderTableContent())
	if m.showSamples && len(m.runs) > 0 {
		samplesRendered := boxStyle.Width(samplesWidth).Render(m.renderSamples())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", samplesRendered))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an explanation when it is empty.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render("Could not load runs:\n" + m.loadErr.Error())
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nRun 'quad' to record the first one!")
	}
	return m.table.View()
}

// renderSamples lists the frame rate measured each second of the selected run.
func (m HistoryModel) renderSamples() string {
	var b strings.Builder
	b.WriteString("FPS per second\n")
	b.WriteString(strings.Repeat("-", samplesWidth-4))
	b.WriteString("\n")

	if len(m.samples) == 0 {
		b.WriteString("no samples")
		return b.String()
	}

	for i, fps := range m.samples {
		if i == maxSampleLines {
			fmt.Fprintf(&b, "... %d more", len(m.samples)-i)
			break
		}
		fmt.Fprintf(&b, "%4ds  %d\n", i+1, fps)
	}
	return strings.TrimRight(b.String(), "\n")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunHistory shows the history browser until the user quits.
func RunHistory(source RunSource, limit int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, limit, 100, 30),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
