package core

// RuntimeConfig contains configuration passed to the training view at startup.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
	Players  int // Number of local players sampled each tick
}

// MaxTickRate bounds tick rates so the tick interval stays at least a
// millisecond.
const MaxTickRate = 1000

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Players:  1,
	}
}
