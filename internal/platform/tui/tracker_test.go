package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/core"
)

const ms = time.Millisecond

func TestTrackerHoldWindow(t *testing.T) {
	tr := NewKeyboardTracker(1, 120*ms)

	tr.Press(core.Player1, core.KeyA, 0)
	tr.Advance(100 * ms)
	if !tr.DeviceState(core.Player1).Keys.IsDown(core.KeyA) {
		t.Error("key should be held within the hold window")
	}

	tr.Advance(120 * ms)
	if tr.DeviceState(core.Player1).Keys.IsDown(core.KeyA) {
		t.Error("key should be released once the hold window ends")
	}
}

func TestTrackerRepeatExtendsHold(t *testing.T) {
	tr := NewKeyboardTracker(1, 120*ms)

	tr.Press(core.Player1, core.KeyDown, 0)
	tr.Press(core.Player1, core.KeyDown, 100*ms) // auto-repeat
	tr.Advance(200 * ms)
	if !tr.DeviceState(core.Player1).Keys.IsDown(core.KeyDown) {
		t.Error("repeated press should keep the key held")
	}
}

func TestTrackerOppositeDirectionReleases(t *testing.T) {
	tr := NewKeyboardTracker(1, 120*ms)

	tr.Press(core.Player1, core.KeyLeft, 0)
	tr.Press(core.Player1, core.KeyRight, 10*ms)
	tr.Advance(20 * ms)

	state := tr.DeviceState(core.Player1)
	if state.Keys.IsDown(core.KeyLeft) {
		t.Error("pressing right should release left")
	}
	if state.Direction() != core.ButtonRight {
		t.Errorf("Direction() = %v, expected right", state.Direction())
	}
}

func TestTrackerPlayersAndRelease(t *testing.T) {
	tr := NewKeyboardTracker(2, 120*ms)

	tr.Press(core.Player1, core.KeyA, 0)
	tr.Press(core.Player2, core.KeyB, 0)
	tr.Press(core.PlayerID(3), core.KeyX, 0) // ignored
	tr.Advance(10 * ms)

	if s := tr.DeviceState(core.Player1); !s.Keys.IsDown(core.KeyA) || s.Keys.IsDown(core.KeyB) {
		t.Errorf("P1 keys = %v, expected only A", s.Keys)
	}
	if s := tr.DeviceState(core.Player2); !s.Keys.IsDown(core.KeyB) || s.Keys.IsDown(core.KeyA) {
		t.Errorf("P2 keys = %v, expected only B", s.Keys)
	}
	if s := tr.DeviceState(core.PlayerID(3)); s != (core.DeviceState{}) {
		t.Errorf("unknown player state = %v, expected empty", s)
	}

	tr.Release()
	if s := tr.DeviceState(core.Player1); s.Keys != 0 {
		t.Errorf("keys after Release() = %v, expected none", s.Keys)
	}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper(config.DefaultConfig().Terminal.Controls, 2)

	tests := []struct {
		msg    tea.KeyMsg
		player core.PlayerID
		key    core.Key
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, core.Player1, core.KeyDown},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, core.Player1, core.KeyA},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.Player1, core.KeyY},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, core.Player2, core.KeyLeft},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")}, core.Player2, core.KeyX},
	}

	for _, tc := range tests {
		t.Run(tc.msg.String(), func(t *testing.T) {
			id, k, ok := km.MapKey(tc.msg)
			if !ok || id != tc.player || k != tc.key {
				t.Errorf("MapKey(%q) = %v, %v, %v; expected %v, %v", tc.msg.String(), id, k, ok, tc.player, tc.key)
			}
		})
	}

	if _, _, ok := km.MapKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); ok {
		t.Error("MapKey(q) should not be bound")
	}

	if got := km.KeysFor(core.Player1, core.KeyB); len(got) != 1 || got[0] != "s" {
		t.Errorf("KeysFor(P1, B) = %v, expected [s]", got)
	}
}

func TestKeyMapperSinglePlayer(t *testing.T) {
	km := NewKeyMapper(config.DefaultConfig().Terminal.Controls, 1)
	if _, _, ok := km.MapKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")}); ok {
		t.Error("second player's layout should be ignored with one player")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg    tea.KeyMsg
		action MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionStats},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")}, MenuActionNone},
	}

	for _, tc := range tests {
		if got := MapKeyToMenuAction(tc.msg); got != tc.action {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.action)
		}
	}
}

func TestChordText(t *testing.T) {
	tests := []struct {
		chord    core.Buttons
		expected string
	}{
		{core.ButtonNone, "·"},
		{core.ButtonDownRight, "↘"},
		{core.ButtonRight | core.ButtonA, "→A"},
		{core.ButtonA | core.ButtonY, "AY"},
		{core.ButtonUpLeft | core.ButtonB | core.ButtonX, "↖BX"},
	}

	for _, tc := range tests {
		if got := ChordText(tc.chord); got != tc.expected {
			t.Errorf("ChordText(%v) = %q, expected %q", tc.chord, got, tc.expected)
		}
	}
}
