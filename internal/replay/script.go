// Package replay runs scripted device input through the combo engine at a
// fixed tick rate and reports every detection. Scripts make timing bugs
// reproducible without a terminal.
package replay

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// Script is a timeline of held device state:
//
//	roster: brawler
//	tick_rate: 60
//	steps:
//	  - {at: 0ms, keys: [down]}
//	  - {at: 50ms, keys: [down, right]}
//	  - {at: 100ms, keys: [right, a]}
//	  - {at: 150ms}
//
// Each step replaces what its player holds until that player's next step.
type Script struct {
	Roster   string `yaml:"roster"`
	Players  int    `yaml:"players"`
	TickRate int    `yaml:"tick_rate"`
	Steps    []Step `yaml:"steps"`
}

// Step sets one player's held keys and pad buttons from At onward.
type Step struct {
	At     time.Duration `yaml:"at"`
	Player int           `yaml:"player"` // 1-based, default 1
	Keys   []string      `yaml:"keys"`
	Pad    []string      `yaml:"pad"`
}

// State resolves the step's names into a device reading.
func (s Step) State() (core.DeviceState, error) {
	var state core.DeviceState
	for _, name := range s.Keys {
		k, ok := core.ParseKey(name)
		if !ok {
			return core.DeviceState{}, fmt.Errorf("replay: unknown key %q", name)
		}
		state.Keys = state.Keys.With(k)
	}
	for _, name := range s.Pad {
		b, ok := core.ParsePadButton(name)
		if !ok {
			return core.DeviceState{}, fmt.Errorf("replay: unknown pad button %q", name)
		}
		state.Pad = state.Pad.With(b)
	}
	return state, nil
}

// Parse decodes a script, fills defaults and sorts the steps by time.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: cannot parse script: %w", err)
	}
	if s.TickRate == 0 {
		s.TickRate = 60
	}
	for i := range s.Steps {
		if s.Steps[i].Player == 0 {
			s.Steps[i].Player = 1
		}
		if s.Players < s.Steps[i].Player {
			s.Players = s.Steps[i].Player
		}
	}
	if s.Players == 0 {
		s.Players = 1
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}

	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].At < s.Steps[j].At
	})
	return s, nil
}

// Load reads and decodes a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks tick rate, player numbers, times and names.
func (s Script) Validate() error {
	if s.TickRate <= 0 || s.TickRate > core.MaxTickRate {
		return fmt.Errorf("replay: tick_rate must be between 1 and %d, got %d", core.MaxTickRate, s.TickRate)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("replay: script has no steps")
	}
	for i, st := range s.Steps {
		if st.At < 0 {
			return fmt.Errorf("replay: step %d: negative time %v", i, st.At)
		}
		if st.Player < 1 || st.Player > s.Players {
			return fmt.Errorf("replay: step %d: player %d out of range", i, st.Player)
		}
		if _, err := st.State(); err != nil {
			return fmt.Errorf("replay: step %d: %w", i, err)
		}
	}
	return nil
}

// TickInterval returns the game time between ticks.
func (s Script) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// End returns the time of the last step.
func (s Script) End() time.Duration {
	var end time.Duration
	for _, st := range s.Steps {
		if st.At > end {
			end = st.At
		}
	}
	return end
}
