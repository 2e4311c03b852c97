package core

import "fmt"

// PlayerID identifies a local player. IDs start at 1.
type PlayerID int

// Player constants for the common one- and two-player layouts.
const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// Index returns the zero-based slot of the player.
func (p PlayerID) Index() int {
	return int(p) - 1
}

// PlayerFromIndex converts a zero-based slot to a PlayerID.
func PlayerFromIndex(i int) PlayerID {
	return PlayerID(i + 1)
}
