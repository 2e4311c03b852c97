package combo

import (
	"fmt"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// ButtonBinding ties one action bit to the pad button and key that press it.
type ButtonBinding struct {
	Button core.Buttons
	Pad    core.PadButton
	Key    core.Key
}

// ButtonMap is the fixed mapping from action buttons to device inputs.
// It is built once at startup and shared read-only between samplers.
type ButtonMap struct {
	bindings []ButtonBinding
}

// NewButtonMap validates and copies the bindings. Each binding must name a
// single action bit, and no action may be bound twice.
func NewButtonMap(bindings ...ButtonBinding) (ButtonMap, error) {
	var seen core.Buttons
	out := make([]ButtonBinding, 0, len(bindings))
	for _, bb := range bindings {
		if bb.Button.HasDirection() || core.ExtractActions(bb.Button) == core.ButtonNone {
			return ButtonMap{}, fmt.Errorf("combo: binding %v is not an action button: %w", bb.Button, ErrInvalidBinding)
		}
		if bb.Button&(bb.Button-1) != 0 {
			return ButtonMap{}, fmt.Errorf("combo: binding %v names more than one button: %w", bb.Button, ErrInvalidBinding)
		}
		if seen.Has(bb.Button) {
			return ButtonMap{}, fmt.Errorf("combo: binding %v is bound twice: %w", bb.Button, ErrInvalidBinding)
		}
		seen |= bb.Button
		out = append(out, bb)
	}
	return ButtonMap{bindings: out}, nil
}

// DefaultButtonMap binds A, B, X and Y to the matching pad buttons and keys.
func DefaultButtonMap() ButtonMap {
	return ButtonMap{bindings: []ButtonBinding{
		{Button: core.ButtonA, Pad: core.PadA, Key: core.KeyA},
		{Button: core.ButtonB, Pad: core.PadB, Key: core.KeyB},
		{Button: core.ButtonX, Pad: core.PadX, Key: core.KeyX},
		{Button: core.ButtonY, Pad: core.PadY, Key: core.KeyY},
	}}
}

// Bindings returns a copy of the bindings.
func (m ButtonMap) Bindings() []ButtonBinding {
	out := make([]ButtonBinding, len(m.bindings))
	copy(out, m.bindings)
	return out
}

// Sample is the result of diffing two consecutive device readings.
type Sample struct {
	// Buttons holds the newly pressed actions, plus the current direction
	// when it changed this tick.
	Buttons core.Buttons

	// DirectionChanged is true when the resolved direction differs from the
	// previous tick's.
	DirectionChanged bool
}

// Sampler turns one player's raw device readings into per-tick chords.
type Sampler struct {
	buttons ButtonMap
	last    core.DeviceState
	current core.DeviceState
}

// NewSampler creates a sampler using the given button map.
func NewSampler(buttons ButtonMap) *Sampler {
	return &Sampler{buttons: buttons}
}

// Sample records the new reading and reports what changed since the last one.
func (s *Sampler) Sample(state core.DeviceState) Sample {
	s.last = s.current
	s.current = state

	// Accumulate rising edges on either device
	var pressed core.Buttons
	for _, bb := range s.buttons.bindings {
		padEdge := s.last.Pad.IsUp(bb.Pad) && s.current.Pad.IsDown(bb.Pad)
		keyEdge := s.last.Keys.IsUp(bb.Key) && s.current.Keys.IsDown(bb.Key)
		if padEdge || keyEdge {
			pressed |= bb.Button
		}
	}

	direction := s.current.Direction()
	changed := direction != s.last.Direction()
	if changed {
		// A held direction only enters the buffer on the tick it changes
		pressed |= direction
	}

	return Sample{Buttons: pressed, DirectionChanged: changed}
}

// Current returns the most recent reading.
func (s *Sampler) Current() core.DeviceState {
	return s.current
}

// Reset forgets both readings.
func (s *Sampler) Reset() {
	s.last = core.DeviceState{}
	s.current = core.DeviceState{}
}
