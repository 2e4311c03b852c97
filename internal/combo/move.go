package combo

import "github.com/vovakirdan/tui-combo/internal/core"

// Move is a named sequence of chords which must be entered to activate it.
// Moves are immutable once created.
type Move struct {
	name     string
	sequence []core.Buttons
	reusable bool
}

// NewMove creates a move. A reusable move leaves its input in the buffer
// when detected, so it can still serve as the start of a longer move.
func NewMove(name string, reusable bool, sequence ...core.Buttons) Move {
	seq := make([]core.Buttons, len(sequence))
	copy(seq, sequence)
	return Move{
		name:     name,
		sequence: seq,
		reusable: reusable,
	}
}

// Name returns the move name.
func (m Move) Name() string {
	return m.name
}

// Sequence returns a copy of the chord sequence, oldest first.
func (m Move) Sequence() []core.Buttons {
	seq := make([]core.Buttons, len(m.sequence))
	copy(seq, m.sequence)
	return seq
}

// Len returns the number of chords in the sequence.
func (m Move) Len() int {
	return len(m.sequence)
}

// IsReusable reports whether detection leaves the buffer intact.
func (m Move) IsReusable() bool {
	return m.reusable
}

// String returns the name followed by the sequence.
func (m Move) String() string {
	return m.name + ": " + core.FormatSequence(m.sequence)
}
