// Package core provides fundamental types for the combo trainer.
// It contains no external dependencies to keep input logic pure and testable.
package core

import (
	"fmt"
	"strings"
)

// Buttons is a chord: a bit-set of directions and action buttons that are
// treated as one atomic unit when comparing input sequences.
type Buttons uint8

// Direction and action bits.
const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
)

// Masks and named diagonals.
const (
	ButtonNone Buttons = 0

	ButtonUpLeft    = ButtonUp | ButtonLeft
	ButtonUpRight   = ButtonUp | ButtonRight
	ButtonDownLeft  = ButtonDown | ButtonLeft
	ButtonDownRight = ButtonDown | ButtonRight

	DirectionMask = ButtonUp | ButtonDown | ButtonLeft | ButtonRight
	ActionMask    = ButtonA | ButtonB | ButtonX | ButtonY
)

// buttonNames lists each bit with its text form, in bit order.
var buttonNames = []struct {
	bit  Buttons
	name string
}{
	{ButtonUp, "up"},
	{ButtonDown, "down"},
	{ButtonLeft, "left"},
	{ButtonRight, "right"},
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonX, "x"},
	{ButtonY, "y"},
}

// diagonalAliases are accepted by ParseButtons as single tokens.
var diagonalAliases = map[string]Buttons{
	"upleft":    ButtonUpLeft,
	"upright":   ButtonUpRight,
	"downleft":  ButtonDownLeft,
	"downright": ButtonDownRight,
}

// Has returns true if every bit in other is set in b.
func (b Buttons) Has(other Buttons) bool {
	return b&other == other
}

// IsEmpty returns true if no bits are set.
func (b Buttons) IsEmpty() bool {
	return b == ButtonNone
}

// HasDirection returns true if any direction bit is set.
func (b Buttons) HasDirection() bool {
	return b&DirectionMask != 0
}

// IsDiagonal returns true if the direction bits form a diagonal.
func (b Buttons) IsDiagonal() bool {
	d := b & DirectionMask
	vertical := d&(ButtonUp|ButtonDown) != 0
	horizontal := d&(ButtonLeft|ButtonRight) != 0
	return vertical && horizontal
}

// String returns the canonical text form, e.g. "down+right+a".
func (b Buttons) String() string {
	if b == ButtonNone {
		return "none"
	}
	parts := make([]string, 0, 4)
	for _, bn := range buttonNames {
		if b&bn.bit != 0 {
			parts = append(parts, bn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseButtons parses the text form produced by String.
// Tokens are joined by '+', case-insensitive, and may use diagonal aliases.
func ParseButtons(s string) (Buttons, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ButtonNone, fmt.Errorf("core: empty button chord")
	}
	if s == "none" {
		return ButtonNone, nil
	}

	var result Buttons
	for _, tok := range strings.Split(s, "+") {
		tok = strings.TrimSpace(tok)
		bit, ok := lookupButton(tok)
		if !ok {
			return ButtonNone, fmt.Errorf("core: unknown button %q in chord %q", tok, s)
		}
		result |= bit
	}
	return result, nil
}

func lookupButton(tok string) (Buttons, bool) {
	for _, bn := range buttonNames {
		if bn.name == tok {
			return bn.bit, true
		}
	}
	b, ok := diagonalAliases[tok]
	return b, ok
}

// FormatSequence renders a chord sequence as space-separated chords.
func FormatSequence(seq []Buttons) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}
