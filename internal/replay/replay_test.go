package replay

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/core"
)

const ms = time.Millisecond

func testMoves(t *testing.T) (*combo.MoveList, combo.Config) {
	t.Helper()
	moves := []combo.Move{
		combo.NewMove("Fireball", false, core.ButtonDown, core.ButtonDownRight, core.ButtonRight|core.ButtonA),
		combo.NewMove("Jab", true, core.ButtonA),
	}
	list, err := combo.NewMoveList(moves, 4)
	if err != nil {
		t.Fatalf("NewMoveList() failed: %v", err)
	}
	cfg := combo.DefaultConfig()
	cfg.Capacity = 4
	return list, cfg
}

func mustParse(t *testing.T, src string) Script {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return s
}

func TestParseDefaults(t *testing.T) {
	s := mustParse(t, `
steps:
  - {at: 100ms, keys: [a]}
  - {at: 0ms, keys: [down]}
  - {at: 50ms, player: 2, pad: [dpad_left, b]}
`)
	if s.TickRate != 60 {
		t.Errorf("TickRate = %d, expected 60", s.TickRate)
	}
	if s.Players != 2 {
		t.Errorf("Players = %d, expected 2", s.Players)
	}
	if s.Steps[0].At != 0 || s.Steps[2].At != 100*ms {
		t.Errorf("steps not sorted by time: %+v", s.Steps)
	}
	if s.End() != 100*ms {
		t.Errorf("End() = %v, expected 100ms", s.End())
	}

	state, err := s.Steps[1].State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if !state.Pad.IsDown(core.PadDPadLeft) || !state.Pad.IsDown(core.PadB) {
		t.Errorf("State() pad = %v, expected dpad_left+b", state.Pad)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no steps", "tick_rate: 60", "no steps"},
		{"unknown key", "steps: [{keys: [jump]}]", "unknown key"},
		{"unknown pad", "steps: [{pad: [start]}]", "unknown pad button"},
		{"negative time", "steps: [{at: -1ms}]", "negative time"},
		{"player out of range", "players: 1\nsteps: [{player: -1}]", "out of range"},
		{"negative tick rate", "tick_rate: -5\nsteps: [{}]", "tick_rate"},
		{"tick rate too high", "tick_rate: 2000000000\nsteps: [{keys: [a]}]", "tick_rate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Parse() error = %v, expected it to mention %q", err, tc.want)
			}
		})
	}
}

func TestRunFireball(t *testing.T) {
	list, cfg := testMoves(t)
	s := mustParse(t, `
steps:
  - {at: 0ms, keys: [down]}
  - {at: 50ms, keys: [down, right]}
  - {at: 100ms, keys: [right, a]}
  - {at: 150ms}
`)

	detections, err := Run(s, list, cfg)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("Run() = %d detections, expected 1", len(detections))
	}
	d := detections[0]
	if d.Move.Name() != "Fireball" || d.Player != core.Player1 {
		t.Errorf("detection = %s by %v, expected Fireball by P1", d.Move.Name(), d.Player)
	}
	if d.At < 100*ms || d.At > 150*ms {
		t.Errorf("detection at %v, expected between 100ms and 150ms", d.At)
	}
}

func TestRunSlowInputExpires(t *testing.T) {
	list, cfg := testMoves(t)
	s := mustParse(t, `
steps:
  - {at: 0ms, keys: [down]}
  - {at: 600ms, keys: [down, right]}
  - {at: 1200ms, keys: [right, a]}
  - {at: 1300ms}
`)

	detections, err := Run(s, list, cfg)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if counts := Count(detections); counts["Fireball"] != 0 {
		t.Errorf("Fireball detected %d times, expected 0 with expired input", counts["Fireball"])
	}
}

func TestRunPlayersAndReusable(t *testing.T) {
	list, cfg := testMoves(t)
	s := mustParse(t, `
steps:
  - {at: 0ms, keys: [down]}
  - {at: 0ms, player: 2, pad: [a]}
  - {at: 50ms, keys: [down, right]}
  - {at: 100ms, keys: [right, a]}
  - {at: 150ms}
  - {at: 200ms, player: 2}
  - {at: 300ms, player: 2, pad: [a]}
`)

	detections, err := Run(s, list, cfg)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	byPlayer := map[core.PlayerID][]string{}
	for _, d := range detections {
		byPlayer[d.Player] = append(byPlayer[d.Player], d.Move.Name())
	}
	if got := byPlayer[core.Player1]; len(got) != 1 || got[0] != "Fireball" {
		t.Errorf("P1 detections = %v, expected [Fireball]", got)
	}
	// Two separate presses, each reported once while held
	if got := byPlayer[core.Player2]; len(got) != 2 || got[0] != "Jab" || got[1] != "Jab" {
		t.Errorf("P2 detections = %v, expected [Jab Jab]", got)
	}
}
