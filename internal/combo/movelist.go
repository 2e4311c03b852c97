package combo

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// MoveList is an immutable catalog of moves optimised for matching.
// Moves are stored in order of decreasing sequence length, ties in the order
// they were given, so the first match found is always the longest.
type MoveList struct {
	moves  []Move
	byName map[string]int
}

// NewMoveList validates the moves against the buffer capacity and sorts them.
// Every move must have a non-empty sequence of non-empty chords that fits in
// capacity, and names must be unique.
func NewMoveList(moves []Move, capacity int) (*MoveList, error) {
	if len(moves) == 0 {
		return nil, fmt.Errorf("combo: %w", ErrEmptyCatalog)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("combo: capacity %d: %w", capacity, ErrInvalidCapacity)
	}

	seen := make(map[string]bool, len(moves))
	for _, m := range moves {
		if seen[m.name] {
			return nil, fmt.Errorf("combo: move %q: %w", m.name, ErrDuplicateMove)
		}
		seen[m.name] = true

		if m.Len() == 0 {
			return nil, fmt.Errorf("combo: move %q: %w", m.name, ErrEmptySequence)
		}
		for i, b := range m.sequence {
			if b.IsEmpty() {
				return nil, fmt.Errorf("combo: move %q chord %d: %w", m.name, i+1, ErrEmptySymbol)
			}
			// Direction resolution never reports both halves of an axis
			if b.Has(core.ButtonUp|core.ButtonDown) || b.Has(core.ButtonLeft|core.ButtonRight) {
				return nil, fmt.Errorf("combo: move %q chord %d (%v): %w", m.name, i+1, b, ErrImpossibleChord)
			}
		}
		if m.Len() > capacity {
			return nil, fmt.Errorf("combo: move %q has %d chords, capacity is %d: %w",
				m.name, m.Len(), capacity, ErrMoveTooLong)
		}
	}

	sorted := make([]Move, len(moves))
	copy(sorted, moves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Len() > sorted[j].Len()
	})

	byName := make(map[string]int, len(sorted))
	for i, m := range sorted {
		byName[m.name] = i
	}

	return &MoveList{moves: sorted, byName: byName}, nil
}

// Detect finds the longest move matching the most recent input, if any.
// A non-reusable match clears the buffer so the same input cannot trigger
// again; a reusable match leaves it in place.
func (l *MoveList) Detect(buf *Buffer) (Move, bool) {
	// Linear search relies on the moves being in decreasing length order
	for _, m := range l.moves {
		if !buf.Matches(m) {
			continue
		}
		if !m.reusable {
			buf.Clear()
		}
		return m, true
	}
	return Move{}, false
}

// Longest returns the length of the longest move sequence.
func (l *MoveList) Longest() int {
	// Since they are in decreasing order, the first move is the longest
	return l.moves[0].Len()
}

// Len returns the number of moves.
func (l *MoveList) Len() int {
	return len(l.moves)
}

// Moves returns the moves in matching order.
func (l *MoveList) Moves() []Move {
	out := make([]Move, len(l.moves))
	copy(out, l.moves)
	return out
}

// Lookup returns the move with the given name.
func (l *MoveList) Lookup(name string) (Move, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Move{}, false
	}
	return l.moves[i], true
}
