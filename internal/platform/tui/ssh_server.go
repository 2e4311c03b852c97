package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/core"
	"github.com/vovakirdan/tui-combo/internal/registry"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.combo/host_key.
	HostKeyPath string

	// DBPath is the path to the detections database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Trainer is the engine and controls configuration shared by all sessions.
	Trainer config.Config

	// Logger receives server and session events. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.combo/combo.db",
		IdleTimeout: 30 * time.Minute,
		Trainer:     config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server for remote training.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "combo-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open detections database", "error", err)
		store = nil // Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".combo", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	runtime := s.config.Trainer.RuntimeConfig(pty.Window.Width, pty.Window.Height)
	model := NewSessionModel(s.store, s.config.Trainer, runtime, sshSession.User(), s.logger)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a SessionModel is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenTraining
	screenStats
)

// SessionModel manages the full session flow: menu -> training or stats -> menu.
// This is the top-level model used for SSH sessions and the local menu command.
type SessionModel struct {
	store    *storage.Store
	trainer  config.Config
	runtime  core.RuntimeConfig
	username string
	logger   *log.Logger

	screen   sessionScreen
	menu     MenuModel
	training *TrainingModel
	stats    *StatsModel
	quitting bool
	err      error // Last roster that failed to load
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, trainer config.Config, runtime core.RuntimeConfig, username string, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		store:    store,
		trainer:  trainer,
		runtime:  runtime,
		username: username,
		logger:   logger,
		menu:     NewMenuModel(runtime),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenTraining:
		return m.updateTraining(msg)
	case screenStats:
		return m.updateStats(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsStats() {
		stats := NewStatsModel(m.store, "", m.runtime.ScreenW, m.runtime.ScreenH)
		m.stats = &stats
		m.screen = screenStats
		return m, m.stats.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		training, err := m.startTraining(selected.ID)
		if err != nil {
			// Shouldn't happen since registered rosters are validated
			m.err = err
			m.logger.Error("cannot start training", "roster", selected.ID, "error", err)
			m.menu = NewMenuModel(m.runtime)
			return m, nil
		}
		m.err = nil
		m.training = &training
		m.screen = screenTraining
		return m, m.training.Init()
	}

	return m, cmd
}

func (m SessionModel) startTraining(rosterID string) (TrainingModel, error) {
	roster, err := registry.Create(rosterID)
	if err != nil {
		return TrainingModel{}, err
	}
	return NewTrainingModel(TrainingOptions{
		Config:  m.trainer,
		Roster:  roster,
		Store:   m.store,
		User:    m.username,
		Runtime: m.runtime,
		Logger:  m.logger,
	})
}

// updateTraining handles updates when training.
func (m SessionModel) updateTraining(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.training.Update(msg)
	if training, ok := newModel.(TrainingModel); ok {
		m.training = &training
	}

	if m.training.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.training.BackToMenu() {
		return m.backToMenu()
	}

	return m, cmd
}

// updateStats handles updates on the stats screen.
func (m SessionModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.stats.Update(msg)
	if stats, ok := newModel.(StatsModel); ok {
		m.stats = &stats
	}

	if m.stats.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.stats.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.training = nil
	m.stats = nil
	m.screen = screenMenu
	m.menu = NewMenuModel(m.runtime)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenTraining:
		return m.training.View()
	case screenStats:
		return m.stats.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(dimStyle.Render(m.err.Error()), m.runtime.ScreenW)
	}
	return view
}

// RunSession runs the menu-driven session locally.
func RunSession(store *storage.Store, trainer config.Config, runtime core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewSessionModel(store, trainer, runtime, "", logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
