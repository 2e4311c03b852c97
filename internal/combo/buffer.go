package combo

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// Timing controls how the buffer ages and coalesces input.
type Timing struct {
	// Expiry is how long the buffer may go without new input before it is
	// discarded on the next tick.
	Expiry time.Duration

	// MergeWindow is the span after the last appended chord during which a
	// new chord is folded into the tail instead of starting a new entry.
	MergeWindow time.Duration

	// MergeExtendsWindow moves the time anchor forward on every merge.
	// When false the window stays anchored at the last append, so a burst
	// of presses merges only until MergeWindow after its first press.
	MergeExtendsWindow bool
}

// DefaultTiming returns the standard 500ms expiry and 100ms merge window.
func DefaultTiming() Timing {
	return Timing{
		Expiry:      500 * time.Millisecond,
		MergeWindow: 100 * time.Millisecond,
	}
}

// Validate checks that the windows are usable.
func (t Timing) Validate() error {
	if t.Expiry <= 0 {
		return fmt.Errorf("combo: expiry %v: %w", t.Expiry, ErrInvalidTiming)
	}
	if t.MergeWindow < 0 {
		return fmt.Errorf("combo: merge window %v: %w", t.MergeWindow, ErrInvalidTiming)
	}
	return nil
}

// UpdateAction describes what a buffer update did with the tick's chord.
type UpdateAction int

const (
	UpdateIdle     UpdateAction = iota // No chord this tick
	UpdateMerged                       // Chord folded into the tail entry
	UpdateAppended                     // Chord added as a new tail entry
)

// String returns a human-readable name for the action.
func (a UpdateAction) String() string {
	switch a {
	case UpdateIdle:
		return "idle"
	case UpdateMerged:
		return "merged"
	case UpdateAppended:
		return "appended"
	default:
		return "unknown"
	}
}

// UpdateResult reports the transitions a single Update performed.
type UpdateResult struct {
	Action  UpdateAction
	Expired bool // A non-empty buffer was discarded before the chord was considered
	Evicted bool // The oldest entry was dropped to make room
}

// Buffer is one player's bounded, chronologically ordered sequence of chords.
// Entries are only appended, merged into the tail, evicted from the head,
// or cleared.
type Buffer struct {
	entries   []core.Buttons
	capacity  int
	timing    Timing
	lastInput time.Duration
}

// NewBuffer creates an empty buffer holding at most capacity chords.
func NewBuffer(capacity int, timing Timing) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("combo: capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	return &Buffer{
		entries:  make([]core.Buttons, 0, capacity),
		capacity: capacity,
		timing:   timing,
	}, nil
}

// Update applies one tick's chord at game time now.
func (b *Buffer) Update(now time.Duration, chord core.Buttons, directionChanged bool) UpdateResult {
	var result UpdateResult

	// Expire stale input before considering this tick
	sinceLast := now - b.lastInput
	if sinceLast > b.timing.Expiry && len(b.entries) > 0 {
		b.entries = b.entries[:0]
		result.Expired = true
	}

	// Idle ticks neither extend nor reset the time anchor
	if chord == core.ButtonNone {
		return result
	}

	merge := len(b.entries) > 0 && sinceLast < b.timing.MergeWindow && !directionChanged
	if merge {
		last := len(b.entries) - 1
		b.entries[last] |= chord
		if b.timing.MergeExtendsWindow {
			b.lastInput = now
		}
		result.Action = UpdateMerged
		return result
	}

	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
		result.Evicted = true
	}
	b.entries = append(b.entries, chord)
	b.lastInput = now
	result.Action = UpdateAppended
	return result
}

// Matches reports whether the most recent entries equal the move's sequence.
// It has no side effects. An empty sequence never matches.
func (b *Buffer) Matches(m Move) bool {
	n := m.Len()
	if n == 0 || len(b.entries) < n {
		return false
	}

	// Walk backwards from the most recent input
	for i := 1; i <= n; i++ {
		if b.entries[len(b.entries)-i] != m.sequence[n-i] {
			return false
		}
	}
	return true
}

// Clear removes all entries. The time anchor is kept.
func (b *Buffer) Clear() {
	b.entries = b.entries[:0]
}

// Reset clears the entries and the time anchor.
func (b *Buffer) Reset() {
	b.entries = b.entries[:0]
	b.lastInput = 0
}

// Entries returns a copy of the buffered chords, oldest first.
func (b *Buffer) Entries() []core.Buttons {
	out := make([]core.Buttons, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of buffered chords.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Cap returns the maximum number of buffered chords.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Tail returns the most recent chord, or ButtonNone if empty.
func (b *Buffer) Tail() core.Buttons {
	if len(b.entries) == 0 {
		return core.ButtonNone
	}
	return b.entries[len(b.entries)-1]
}

// LastInput returns the game time of the last appended chord.
func (b *Buffer) LastInput() time.Duration {
	return b.lastInput
}

// Timing returns the buffer's timing settings.
func (b *Buffer) Timing() Timing {
	return b.timing
}

// String renders the buffered chords, oldest first.
func (b *Buffer) String() string {
	return core.FormatSequence(b.entries)
}
