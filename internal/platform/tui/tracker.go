package tui

import (
	"time"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// KeyboardTracker turns terminal key presses into held device state.
// Terminals report presses but never releases, so a key counts as held for
// a fixed window after its last press. Auto-repeat keeps it held.
type KeyboardTracker struct {
	hold    time.Duration
	now     time.Duration
	pressed []map[core.Key]time.Duration // Per player: key -> last press time
}

// NewKeyboardTracker creates a tracker for the given number of players.
func NewKeyboardTracker(players int, hold time.Duration) *KeyboardTracker {
	t := &KeyboardTracker{
		hold:    hold,
		pressed: make([]map[core.Key]time.Duration, players),
	}
	for i := range t.pressed {
		t.pressed[i] = make(map[core.Key]time.Duration)
	}
	return t
}

// opposite pairs the direction keys.
var opposite = map[core.Key]core.Key{
	core.KeyUp:    core.KeyDown,
	core.KeyDown:  core.KeyUp,
	core.KeyLeft:  core.KeyRight,
	core.KeyRight: core.KeyLeft,
}

// Press records a key press at game time now. Pressing a direction
// releases the opposite one immediately.
func (t *KeyboardTracker) Press(id core.PlayerID, k core.Key, now time.Duration) {
	i := id.Index()
	if i < 0 || i >= len(t.pressed) {
		return
	}
	if opp, ok := opposite[k]; ok {
		delete(t.pressed[i], opp)
	}
	t.pressed[i][k] = now
}

// Advance moves the tracker clock and forgets keys whose hold ran out.
func (t *KeyboardTracker) Advance(now time.Duration) {
	t.now = now
	for _, keys := range t.pressed {
		for k, at := range keys {
			if now-at >= t.hold {
				delete(keys, k)
			}
		}
	}
}

// DeviceState implements combo.DeviceSource.
func (t *KeyboardTracker) DeviceState(id core.PlayerID) core.DeviceState {
	i := id.Index()
	if i < 0 || i >= len(t.pressed) {
		return core.DeviceState{}
	}

	var state core.DeviceState
	for k, at := range t.pressed[i] {
		if t.now-at < t.hold {
			state.Keys = state.Keys.With(k)
		}
	}
	return state
}

// Release forgets every held key.
func (t *KeyboardTracker) Release() {
	for _, keys := range t.pressed {
		clear(keys)
	}
}
