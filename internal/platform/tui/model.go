package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/core"
	"github.com/vovakirdan/tui-combo/internal/registry"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

// feedSize is how many recent detections the training view lists.
const feedSize = 6

// TrainingOptions configures a training session.
type TrainingOptions struct {
	Config  config.Config
	Roster  registry.Roster
	Store   *storage.Store // Optional
	User    string         // SSH user, empty for local play
	Runtime core.RuntimeConfig
	Logger  *log.Logger      // Optional
	Clock   func() time.Time // Optional, defaults to time.Now
}

// feedEntry is one detection shown in the recent list.
type feedEntry struct {
	player core.PlayerID
	move   string
	at     time.Duration
}

// TrainingModel is the Bubble Tea model for practicing a roster.
type TrainingModel struct {
	roster  registry.Roster
	engine  *combo.Engine
	tracker *KeyboardTracker
	keys    *KeyMapper
	keyMap  TrainingKeyMap
	help    help.Model
	store   *storage.Store
	logger  *log.Logger
	config  core.RuntimeConfig
	clock   func() time.Time

	sessionID string
	user      string
	start     time.Time
	now       time.Duration

	feed   []feedEntry
	counts map[string]int
	last   []string // Last move per player
	total  int

	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewTrainingModel builds the engine for the roster and prepares the view.
func NewTrainingModel(opts TrainingOptions) (TrainingModel, error) {
	list, ecfg, err := opts.Config.BuildMoveList(opts.Roster.Moves)
	if err != nil {
		return TrainingModel{}, fmt.Errorf("roster %q: %w", opts.Roster.ID, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	tracker := NewKeyboardTracker(ecfg.Players, opts.Config.Terminal.Hold)
	engine, err := combo.NewEngine(ecfg, list, tracker, combo.WithLogger(logger))
	if err != nil {
		return TrainingModel{}, err
	}

	user := opts.User
	if user == "" {
		user = "local"
	}

	runtime := opts.Runtime
	if runtime.TickRate <= 0 {
		runtime.TickRate = opts.Config.TickRate
	}

	h := help.New()
	h.Width = runtime.ScreenW

	return TrainingModel{
		roster:    opts.Roster,
		engine:    engine,
		tracker:   tracker,
		keys:      NewKeyMapper(opts.Config.Terminal.Controls, ecfg.Players),
		keyMap:    DefaultTrainingKeyMap(),
		help:      h,
		store:     opts.Store,
		logger:    logger,
		config:    runtime,
		clock:     clock,
		sessionID: fmt.Sprintf("%s-%d", user, clock().UnixNano()),
		user:      opts.User,
		start:     clock(),
		counts:    make(map[string]int),
		last:      make([]string, ecfg.Players),
	}, nil
}

// Init starts the tick loop.
func (m TrainingModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m TrainingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m TrainingModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Back):
		m.finish()
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Reset):
		m.engine.Reset()
		m.tracker.Release()
		m.start = m.clock()
		m.now = 0
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if id, k, ok := m.keys.MapKey(msg); ok {
		m.tracker.Press(id, k, m.elapsed(m.clock()))
	}
	return m, nil
}

// handleTick advances the engine and collects detections.
func (m TrainingModel) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	m.now = m.elapsed(t)
	m.tracker.Advance(m.now)
	m.engine.Update(m.now)

	for i := 0; i < m.engine.Players(); i++ {
		id := core.PlayerFromIndex(i)
		if mv, ok := m.engine.DetectNew(id); ok {
			m.record(id, mv)
		}
	}

	return m, tickCmd(m.config.TickRate)
}

// elapsed converts wall time to game time, never running backwards.
func (m TrainingModel) elapsed(t time.Time) time.Duration {
	d := t.Sub(m.start)
	if d < m.now {
		return m.now
	}
	return d
}

// record stores a detection in the feed, the counters and the database.
func (m *TrainingModel) record(id core.PlayerID, mv combo.Move) {
	m.total++
	m.counts[mv.Name()]++
	m.last[id.Index()] = mv.Name()

	m.feed = append(m.feed, feedEntry{player: id, move: mv.Name(), at: m.now})
	if len(m.feed) > feedSize {
		m.feed = m.feed[len(m.feed)-feedSize:]
	}

	m.logger.Info("move landed", "player", id, "move", mv.Name(), "session", m.sessionID)

	if m.store != nil {
		_, err := m.store.SaveDetection(storage.Detection{
			SessionID: m.sessionID,
			RosterID:  m.roster.ID,
			Player:    int(id),
			Move:      mv.Name(),
			Sequence:  core.FormatSequence(mv.Sequence()),
		})
		if err != nil {
			m.logger.Warn("could not save detection", "error", err)
		}
	}
	m.saveSession()
}

// finish brings the session summary up to date before leaving.
func (m *TrainingModel) finish() {
	m.saveSession()
}

// saveSession writes the session summary. It runs after every detection
// so a dropped SSH connection still leaves a current row.
func (m *TrainingModel) saveSession() {
	if m.store == nil || m.total == 0 {
		return
	}

	err := m.store.UpdateSession(storage.Session{
		SessionID:  m.sessionID,
		RosterID:   m.roster.ID,
		User:       m.user,
		Detections: m.total,
		Duration:   int(m.now / time.Second),
	})
	if err != nil {
		m.logger.Warn("could not save session", "error", err)
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(4)
	landedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// View renders the current state to a string for display.
func (m TrainingModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("COMBO TRAINER - %s", m.roster.Title)
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.config.ScreenW))
	b.WriteString("\n\n")

	capacity := m.engine.Config().Capacity
	for i := 0; i < m.engine.Players(); i++ {
		id := core.PlayerFromIndex(i)
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			labelStyle.Render(id.String()),
			" "+DirectionGlyph(m.engine.Direction(id))+" ",
			RenderBuffer(m.engine.Buffer(id), capacity),
			"  "+landedStyle.Render(m.last[i]),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.renderMoves()),
		"  ",
		panelStyle.Render(m.renderFeed()),
	))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render(m.help.View(m.keyMap)))
	return b.String()
}

// renderMoves lists the roster in match priority order with counts.
func (m TrainingModel) renderMoves() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Moves"))
	b.WriteString("\n")

	moves := m.engine.Moves().Moves()
	nameWidth := 0
	for _, mv := range moves {
		if w := lipgloss.Width(mv.Name()); w > nameWidth {
			nameWidth = w
		}
	}

	for _, mv := range moves {
		name := lipgloss.NewStyle().Width(nameWidth + 2).Render(mv.Name())
		count := dimStyle.Render(fmt.Sprintf("x%d", m.counts[mv.Name()]))
		b.WriteString(name + RenderSequence(mv.Sequence()) + "  " + count)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFeed lists the latest detections, newest first.
func (m TrainingModel) renderFeed() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent"))
	b.WriteString("\n")

	if len(m.feed) == 0 {
		b.WriteString(dimStyle.Render("nothing yet"))
		return b.String()
	}
	for i := len(m.feed) - 1; i >= 0; i-- {
		e := m.feed[i]
		fmt.Fprintf(&b, "%s %s %s\n", e.player, e.move, dimStyle.Render(fmt.Sprintf("%.1fs", e.at.Seconds())))
	}
	fmt.Fprintf(&b, "%s", dimStyle.Render(fmt.Sprintf("total %d", m.total)))
	return b.String()
}

// Counts returns how often each move was detected this session.
func (m TrainingModel) Counts() map[string]int {
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Engine returns the session's engine.
func (m TrainingModel) Engine() *combo.Engine {
	return m.engine
}

// IsQuitting returns true if user requested to quit entirely.
func (m TrainingModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m TrainingModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone training session.
func Run(opts TrainingOptions) error {
	model, err := NewTrainingModel(opts)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
