package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-combo/internal/registry"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

// Stats layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show roster sidebar
	sidebarWidth       = 20
	maxMoves           = 50 // Max move rows to load
	recentSessions     = 5
)

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextRoster key.Binding
	PrevRoster key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextRoster, k.PrevRoster, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextRoster, k.PrevRoster},
		{k.Back, k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextRoster: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next roster"),
		),
		PrevRoster: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev roster"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsModel shows how often each move of a roster has been landed.
type StatsModel struct {
	rosters     []registry.RosterInfo
	cursor      int
	store       *storage.Store
	counts      []storage.MoveCount
	sessions    []storage.Session
	summary     *storage.RosterStats
	table       table.Model
	help        help.Model
	keys        StatsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewStatsModel creates a new stats model starting at the given roster.
// An empty or unknown roster ID starts at the first roster.
func NewStatsModel(store *storage.Store, rosterID string, width, height int) StatsModel {
	h := help.New()
	h.Width = width

	m := StatsModel{
		rosters:     registry.List(),
		store:       store,
		keys:        DefaultStatsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, r := range m.rosters {
		if r.ID == rosterID {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table sized to the window.
func (m *StatsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Move", Width: 18},
		{Title: "Count", Width: 7},
		{Title: "Last", Width: 14},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if spare := tableWidth - 53; spare > 0 {
		columns[1].Width += min(spare, 12)
	}

	height := m.height - 10
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// load reads counts for the current roster.
func (m *StatsModel) load() {
	m.counts = nil
	m.sessions = nil
	m.summary = nil

	if m.store != nil && len(m.rosters) > 0 {
		id := m.rosters[m.cursor].ID
		if counts, err := m.store.TopMoves(id, maxMoves); err == nil {
			m.counts = counts
		}
		if summary, err := m.store.GetRosterStats(id); err == nil {
			m.summary = summary
		}
		if sessions, err := m.store.RecentSessions(id, recentSessions); err == nil {
			m.sessions = sessions
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded counts.
func (m *StatsModel) updateTableRows() {
	rows := make([]table.Row, len(m.counts))
	for i, c := range m.counts {
		last := "-"
		if !c.Last.IsZero() {
			last = c.Last.Format("Jan 02 15:04")
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			c.Move,
			fmt.Sprintf("%d", c.Count),
			last,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextRoster):
			if len(m.rosters) > 0 {
				m.cursor = (m.cursor + 1) % len(m.rosters)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevRoster):
			if len(m.rosters) > 0 {
				m.cursor = (m.cursor - 1 + len(m.rosters)) % len(m.rosters)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "MOVE STATS"
	if len(m.rosters) > 0 {
		title = fmt.Sprintf("MOVE STATS - %s", m.rosters[m.cursor].Title)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	if m.summary != nil {
		line := fmt.Sprintf("%d detections  |  %d different moves  |  %d sessions",
			m.summary.Detections, m.summary.Distinct, m.summary.Sessions)
		b.WriteString(centerText(dimStyle.Render(line), m.width))
	}
	b.WriteString("\n\n")

	content := panelStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)
	b.WriteString("\n")

	if len(m.sessions) > 0 {
		b.WriteString(m.renderSessions())
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the rosters with the current one highlighted.
func (m StatsModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Rosters\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, r := range m.rosters {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := r.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(style.Render(cursor + name))
		sb.WriteString("\n")
	}

	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

// renderSessions lists the roster's latest training sessions.
func (m StatsModel) renderSessions() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Recent sessions"))
	sb.WriteString("\n")
	for _, s := range m.sessions {
		user := s.User
		if user == "" {
			user = "local"
		}
		line := fmt.Sprintf("%-12s %3d moves  %4ds  %s",
			user, s.Detections, s.Duration, s.CreatedAt.Format("Jan 02 15:04"))
		sb.WriteString(dimStyle.Render(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTableContent renders the table or empty message.
func (m StatsModel) renderTableContent() string {
	if len(m.counts) == 0 {
		return dimStyle.Italic(true).Padding(2, 4).
			Render("No moves landed yet.\nTrain this roster to fill the table!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the stats screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunStats(store *storage.Store, rosterID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewStatsModel(store, rosterID, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(StatsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
