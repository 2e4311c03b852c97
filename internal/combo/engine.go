// Package combo implements the temporal input buffer and move recognition.
//
// Each tick the Engine samples every player's device state, folds newly
// pressed buttons and direction changes into a chord, and records the chord
// in that player's Buffer. Detect then looks for the longest move in the
// MoveList whose sequence matches the tail of the buffer.
package combo

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// DeviceSource supplies the raw device reading for a player each tick.
type DeviceSource interface {
	DeviceState(id core.PlayerID) core.DeviceState
}

// DeviceSourceFunc adapts a function to DeviceSource.
type DeviceSourceFunc func(id core.PlayerID) core.DeviceState

// DeviceState calls f(id).
func (f DeviceSourceFunc) DeviceState(id core.PlayerID) core.DeviceState {
	return f(id)
}

// Config holds the engine settings.
type Config struct {
	Players  int // Number of players sampled each tick
	Capacity int // Maximum buffered chords per player
	Timing   Timing
}

// DefaultConfig returns a one-player config with default timing.
func DefaultConfig() Config {
	return Config{
		Players:  1,
		Capacity: 8,
		Timing:   DefaultTiming(),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for buffer and detection events.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithButtonMap replaces the default action button mapping.
func WithButtonMap(m ButtonMap) Option {
	return func(e *Engine) {
		e.buttons = m
	}
}

// playerInput is the per-player state: sampler plus buffer.
type playerInput struct {
	sampler *Sampler
	buffer  *Buffer

	// revision counts buffer mutations; reported remembers the last
	// reusable move handed out by DetectNew and the revision it matched.
	revision uint64
	reported struct {
		move     string
		revision uint64
		valid    bool
	}
}

// Engine drives sampling, buffering and detection for all players.
// It is not safe for concurrent use; Update and Detect must be called from
// the same goroutine, Update first in each tick.
type Engine struct {
	config  Config
	moves   *MoveList
	source  DeviceSource
	buttons ButtonMap
	players []playerInput
	logger  *log.Logger
	now     time.Duration
}

// NewEngine validates the configuration against the move list and creates
// one sampler and buffer per player.
func NewEngine(cfg Config, moves *MoveList, src DeviceSource, opts ...Option) (*Engine, error) {
	if cfg.Players <= 0 {
		return nil, fmt.Errorf("combo: players %d: %w", cfg.Players, ErrInvalidPlayers)
	}
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("combo: capacity %d: %w", cfg.Capacity, ErrInvalidCapacity)
	}
	if err := cfg.Timing.Validate(); err != nil {
		return nil, err
	}
	if moves == nil || moves.Len() == 0 {
		return nil, fmt.Errorf("combo: %w", ErrEmptyCatalog)
	}
	if moves.Longest() > cfg.Capacity {
		return nil, fmt.Errorf("combo: longest move has %d chords, capacity is %d: %w",
			moves.Longest(), cfg.Capacity, ErrMoveTooLong)
	}
	if src == nil {
		return nil, fmt.Errorf("combo: device source is nil")
	}

	e := &Engine{
		config:  cfg,
		moves:   moves,
		source:  src,
		buttons: DefaultButtonMap(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.players = make([]playerInput, cfg.Players)
	for i := range e.players {
		buf, err := NewBuffer(cfg.Capacity, cfg.Timing)
		if err != nil {
			return nil, err
		}
		e.players[i] = playerInput{
			sampler: NewSampler(e.buttons),
			buffer:  buf,
		}
	}

	return e, nil
}

// Update samples every player at game time now and updates their buffers.
func (e *Engine) Update(now time.Duration) {
	e.now = now
	for i := range e.players {
		id := core.PlayerFromIndex(i)
		p := &e.players[i]

		sample := p.sampler.Sample(e.source.DeviceState(id))
		result := p.buffer.Update(now, sample.Buttons, sample.DirectionChanged)

		if result.Expired || result.Action != UpdateIdle {
			p.revision++
		}
		if result.Expired {
			e.logger.Debug("buffer expired", "player", id, "at", now)
		}
		switch result.Action {
		case UpdateMerged:
			e.logger.Debug("chord merged", "player", id, "chord", sample.Buttons, "tail", p.buffer.Tail())
		case UpdateAppended:
			e.logger.Debug("chord appended", "player", id, "chord", sample.Buttons, "evicted", result.Evicted)
		}
	}
}

// Detect returns the highest-priority move matching the player's recent
// input. Unknown players never match.
func (e *Engine) Detect(id core.PlayerID) (Move, bool) {
	p, ok := e.player(id)
	if !ok {
		return Move{}, false
	}

	m, found := e.moves.Detect(p.buffer)
	if found {
		e.logger.Debug("move detected", "player", id, "move", m.Name(), "reusable", m.IsReusable(), "at", e.now)
	}
	return m, found
}

// DetectNew is Detect for callers that act on each detection once. A
// reusable move stays matchable until the buffer changes, so it is reported
// again only after new input reaches the buffer.
func (e *Engine) DetectNew(id core.PlayerID) (Move, bool) {
	p, ok := e.player(id)
	if !ok {
		return Move{}, false
	}

	m, found := e.moves.Detect(p.buffer)
	if !found {
		return Move{}, false
	}
	if !m.IsReusable() {
		p.reported.valid = false
		e.logger.Debug("move detected", "player", id, "move", m.Name(), "reusable", false, "at", e.now)
		return m, true
	}

	r := &p.reported
	if r.valid && r.move == m.Name() && r.revision == p.revision {
		return Move{}, false
	}
	r.move, r.revision, r.valid = m.Name(), p.revision, true
	e.logger.Debug("move detected", "player", id, "move", m.Name(), "reusable", true, "at", e.now)
	return m, true
}

// Buffer returns a snapshot of the player's buffered chords, oldest first.
// Returns nil for unknown players.
func (e *Engine) Buffer(id core.PlayerID) []core.Buttons {
	p, ok := e.player(id)
	if !ok {
		return nil
	}
	return p.buffer.Entries()
}

// Direction returns the player's current resolved direction.
func (e *Engine) Direction(id core.PlayerID) core.Buttons {
	p, ok := e.player(id)
	if !ok {
		return core.ButtonNone
	}
	return p.sampler.Current().Direction()
}

// Reset clears every player's buffer and sampler state.
func (e *Engine) Reset() {
	for i := range e.players {
		e.players[i].buffer.Reset()
		e.players[i].sampler.Reset()
		e.players[i].reported.valid = false
	}
	e.now = 0
}

// Players returns the number of players.
func (e *Engine) Players() int {
	return len(e.players)
}

// Moves returns the move list.
func (e *Engine) Moves() *MoveList {
	return e.moves
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.config
}

// Now returns the game time of the last Update.
func (e *Engine) Now() time.Duration {
	return e.now
}

func (e *Engine) player(id core.PlayerID) (*playerInput, bool) {
	i := id.Index()
	if i < 0 || i >= len(e.players) {
		return nil, false
	}
	return &e.players[i], true
}
