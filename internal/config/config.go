// Package config provides YAML-based configuration loading for the combo
// trainer: engine timing, player count, terminal controls and move rosters.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/core"
)

// Config contains all trainer configuration.
type Config struct {
	Players  int            `yaml:"players"`
	TickRate int            `yaml:"tick_rate"`
	Buffer   BufferConfig   `yaml:"buffer"`
	Terminal TerminalConfig `yaml:"terminal"`
}

// BufferConfig defines the per-player input buffer.
type BufferConfig struct {
	Capacity           int           `yaml:"capacity"` // 0 = longest move in the roster
	Expiry             time.Duration `yaml:"expiry"`
	MergeWindow        time.Duration `yaml:"merge_window"`
	MergeExtendsWindow bool          `yaml:"merge_extends_window"`
}

// TerminalConfig defines how terminal key presses become device state.
type TerminalConfig struct {
	Hold     time.Duration    `yaml:"hold"`
	Controls []ControlsConfig `yaml:"controls"` // One entry per player, in order
}

// ControlsConfig lists the terminal keys bound to each virtual key.
// Key names follow Bubble Tea's KeyMsg.String() ("up", "a", "ctrl+x").
type ControlsConfig struct {
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	A     []string `yaml:"a"`
	B     []string `yaml:"b"`
	X     []string `yaml:"x"`
	Y     []string `yaml:"y"`
}

// Bindings returns the terminal keys for each virtual key.
func (c ControlsConfig) Bindings() map[core.Key][]string {
	return map[core.Key][]string{
		core.KeyUp:    c.Up,
		core.KeyDown:  c.Down,
		core.KeyLeft:  c.Left,
		core.KeyRight: c.Right,
		core.KeyA:     c.A,
		core.KeyB:     c.B,
		core.KeyX:     c.X,
		core.KeyY:     c.Y,
	}
}

// Validate checks the config for values the engine cannot use.
func (c Config) Validate() error {
	if c.Players <= 0 {
		return fmt.Errorf("config: players must be positive, got %d", c.Players)
	}
	if c.TickRate <= 0 || c.TickRate > core.MaxTickRate {
		return fmt.Errorf("config: tick_rate must be between 1 and %d, got %d", core.MaxTickRate, c.TickRate)
	}
	if c.Buffer.Capacity < 0 {
		return fmt.Errorf("config: buffer.capacity must not be negative, got %d", c.Buffer.Capacity)
	}
	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("config: buffer: %w", err)
	}
	if c.Terminal.Hold < 0 {
		return fmt.Errorf("config: terminal.hold must not be negative, got %v", c.Terminal.Hold)
	}

	// A terminal key may drive only one virtual key across all players
	owner := make(map[string]string)
	for i, ctl := range c.Terminal.Controls {
		for k, names := range ctl.Bindings() {
			for _, name := range names {
				if isReserved(name) {
					return fmt.Errorf("config: terminal key %q is reserved by the trainer", name)
				}
				target := fmt.Sprintf("player %d %s", i+1, k)
				if prev, ok := owner[name]; ok && prev != target {
					return fmt.Errorf("config: terminal key %q bound to both %s and %s", name, prev, target)
				}
				owner[name] = target
			}
		}
	}
	return nil
}

// ReservedKeys are handled by the trainer itself and cannot drive a player.
var ReservedKeys = []string{"ctrl+c", "esc", "tab", "?"}

func isReserved(name string) bool {
	for _, r := range ReservedKeys {
		if r == name {
			return true
		}
	}
	return false
}

// Timing returns the buffer timing settings.
func (c Config) Timing() combo.Timing {
	return combo.Timing{
		Expiry:             c.Buffer.Expiry,
		MergeWindow:        c.Buffer.MergeWindow,
		MergeExtendsWindow: c.Buffer.MergeExtendsWindow,
	}
}

// EngineConfig builds the engine settings for a roster whose longest move
// has the given length. A zero capacity is sized to fit that move.
func (c Config) EngineConfig(longest int) combo.Config {
	capacity := c.Buffer.Capacity
	if capacity == 0 {
		capacity = longest
	}
	return combo.Config{
		Players:  c.Players,
		Capacity: capacity,
		Timing:   c.Timing(),
	}
}

// RuntimeConfig returns the runtime settings for the training view.
func (c Config) RuntimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: c.TickRate,
		Players:  c.Players,
	}
}

// TimingPreset represents a named set of buffer windows.
type TimingPreset string

const (
	TimingLenient  TimingPreset = "lenient"
	TimingStandard TimingPreset = "standard"
	TimingStrict   TimingPreset = "strict"
)

// ApplyTimingPreset overwrites the buffer windows with a preset.
// An empty preset leaves the config unchanged.
func ApplyTimingPreset(cfg *Config, preset TimingPreset) error {
	switch preset {
	case "":
		return nil
	case TimingLenient:
		cfg.Buffer.Expiry = 800 * time.Millisecond
		cfg.Buffer.MergeWindow = 150 * time.Millisecond
		cfg.Buffer.MergeExtendsWindow = true
	case TimingStandard:
		cfg.Buffer.Expiry = 500 * time.Millisecond
		cfg.Buffer.MergeWindow = 100 * time.Millisecond
		cfg.Buffer.MergeExtendsWindow = false
	case TimingStrict:
		cfg.Buffer.Expiry = 300 * time.Millisecond
		cfg.Buffer.MergeWindow = 50 * time.Millisecond
		cfg.Buffer.MergeExtendsWindow = false
	default:
		return fmt.Errorf("config: unknown timing preset %q (use lenient, standard or strict)", preset)
	}
	return nil
}

// BuildMoveList sizes the engine for the moves and builds the catalog.
// The returned engine config is ready for combo.NewEngine.
func (c Config) BuildMoveList(moves []combo.Move) (*combo.MoveList, combo.Config, error) {
	longest := 0
	for _, m := range moves {
		if m.Len() > longest {
			longest = m.Len()
		}
	}

	ecfg := c.EngineConfig(longest)
	list, err := combo.NewMoveList(moves, ecfg.Capacity)
	if err != nil {
		return nil, ecfg, err
	}
	return list, ecfg, nil
}
