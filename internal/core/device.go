package core

// PadButton is a single gamepad button or stick direction.
type PadButton uint16

// Gamepad buttons. The left stick is reported as four digital directions.
const (
	PadDPadUp PadButton = 1 << iota
	PadDPadDown
	PadDPadLeft
	PadDPadRight
	PadStickUp
	PadStickDown
	PadStickLeft
	PadStickRight
	PadA
	PadB
	PadX
	PadY
)

// padNames maps each pad button to its script name.
var padNames = map[PadButton]string{
	PadDPadUp:     "dpad_up",
	PadDPadDown:   "dpad_down",
	PadDPadLeft:   "dpad_left",
	PadDPadRight:  "dpad_right",
	PadStickUp:    "stick_up",
	PadStickDown:  "stick_down",
	PadStickLeft:  "stick_left",
	PadStickRight: "stick_right",
	PadA:          "a",
	PadB:          "b",
	PadX:          "x",
	PadY:          "y",
}

// String returns the script name of the button.
func (b PadButton) String() string {
	if name, ok := padNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParsePadButton resolves a script name to a pad button.
func ParsePadButton(name string) (PadButton, bool) {
	for b, n := range padNames {
		if n == name {
			return b, true
		}
	}
	return 0, false
}

// PadState is the set of gamepad buttons held down during one tick.
type PadState uint16

// IsDown returns true if the button is held.
func (s PadState) IsDown(b PadButton) bool {
	return s&PadState(b) != 0
}

// IsUp returns true if the button is released.
func (s PadState) IsUp(b PadButton) bool {
	return !s.IsDown(b)
}

// With returns a copy of the state with the buttons held.
func (s PadState) With(buttons ...PadButton) PadState {
	for _, b := range buttons {
		s |= PadState(b)
	}
	return s
}

// Key is a virtual keyboard key. Terminal layouts map physical keys onto these.
type Key uint16

// Virtual keys.
const (
	KeyUp Key = 1 << iota
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyB
	KeyX
	KeyY
)

// keyNames maps each key to its config name.
var keyNames = map[Key]string{
	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
	KeyA:     "a",
	KeyB:     "b",
	KeyX:     "x",
	KeyY:     "y",
}

// AllKeys lists the virtual keys in a stable order.
var AllKeys = []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyA, KeyB, KeyX, KeyY}

// String returns the config name of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey resolves a config name to a key.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// KeyState is the set of keys held down during one tick.
type KeyState uint16

// IsDown returns true if the key is held.
func (s KeyState) IsDown(k Key) bool {
	return s&KeyState(k) != 0
}

// IsUp returns true if the key is released.
func (s KeyState) IsUp(k Key) bool {
	return !s.IsDown(k)
}

// With returns a copy of the state with the keys held.
func (s KeyState) With(keys ...Key) KeyState {
	for _, k := range keys {
		s |= KeyState(k)
	}
	return s
}

// DeviceState is one player's raw device reading for a single tick.
type DeviceState struct {
	Pad  PadState
	Keys KeyState
}

// Direction returns the 8-way direction this snapshot resolves to.
func (d DeviceState) Direction() Buttons {
	return DirectionFromDevice(d.Pad, d.Keys)
}
