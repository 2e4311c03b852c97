package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/core"
)

// RosterConfig is a named move list as written in YAML:
//
//	id: brawler
//	title: Brawler
//	moves:
//	  - name: Fireball
//	    sequence: [down, down+right, right+a]
type RosterConfig struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Moves       []MoveConfig `yaml:"moves"`
}

// MoveConfig describes one move.
type MoveConfig struct {
	Name     string   `yaml:"name"`
	Sequence []string `yaml:"sequence"`
	Reusable bool     `yaml:"reusable"`
}

// ParseRoster decodes a roster file.
func ParseRoster(data []byte) (RosterConfig, error) {
	var rc RosterConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return RosterConfig{}, fmt.Errorf("config: cannot parse roster: %w", err)
	}
	if rc.ID == "" {
		return RosterConfig{}, fmt.Errorf("config: roster has no id")
	}
	if rc.Title == "" {
		rc.Title = rc.ID
	}
	return rc, nil
}

// LoadRoster reads and decodes a roster file.
func LoadRoster(path string) (RosterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	rc, err := ParseRoster(data)
	if err != nil {
		return RosterConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// BuildMoves parses every chord and returns the moves in file order.
// Catalog rules are checked here; the capacity check waits until the
// moves become the engine's MoveList.
func (rc RosterConfig) BuildMoves() ([]combo.Move, error) {
	moves := make([]combo.Move, 0, len(rc.Moves))
	for _, mc := range rc.Moves {
		if mc.Name == "" {
			return nil, fmt.Errorf("config: roster %q has a move with no name", rc.ID)
		}
		seq := make([]core.Buttons, 0, len(mc.Sequence))
		for _, s := range mc.Sequence {
			b, err := core.ParseButtons(s)
			if err != nil {
				return nil, fmt.Errorf("config: roster %q move %q: %w", rc.ID, mc.Name, err)
			}
			seq = append(seq, b)
		}
		moves = append(moves, combo.NewMove(mc.Name, mc.Reusable, seq...))
	}

	longest := 1
	for _, m := range moves {
		longest = max(longest, m.Len())
	}
	if _, err := combo.NewMoveList(moves, longest); err != nil {
		return nil, fmt.Errorf("config: roster %q: %w", rc.ID, err)
	}
	return moves, nil
}
