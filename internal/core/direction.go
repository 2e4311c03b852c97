package core

// DirectionFromDevice resolves the current 8-way direction from a gamepad
// and keyboard reading. Up dominates Down and Left dominates Right when both
// are held; the axes are resolved independently and combined.
func DirectionFromDevice(pad PadState, keys KeyState) Buttons {
	direction := ButtonNone

	// Vertical axis
	if pad.IsDown(PadDPadUp) || pad.IsDown(PadStickUp) || keys.IsDown(KeyUp) {
		direction |= ButtonUp
	} else if pad.IsDown(PadDPadDown) || pad.IsDown(PadStickDown) || keys.IsDown(KeyDown) {
		direction |= ButtonDown
	}

	// Horizontal axis
	if pad.IsDown(PadDPadLeft) || pad.IsDown(PadStickLeft) || keys.IsDown(KeyLeft) {
		direction |= ButtonLeft
	} else if pad.IsDown(PadDPadRight) || pad.IsDown(PadStickRight) || keys.IsDown(KeyRight) {
		direction |= ButtonRight
	}

	return direction
}

// ExtractDirection strips action bits from a chord.
func ExtractDirection(b Buttons) Buttons {
	return b & DirectionMask
}

// ExtractActions strips direction bits from a chord.
func ExtractActions(b Buttons) Buttons {
	return b & ActionMask
}
