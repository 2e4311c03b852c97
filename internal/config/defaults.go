package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/combo.yaml
var defaultConfigYAML []byte

// DefaultConfig returns the hard-coded configuration, used when the embedded
// YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Players:  2,
		TickRate: 60,
		Buffer: BufferConfig{
			Capacity:    0,
			Expiry:      500 * time.Millisecond,
			MergeWindow: 100 * time.Millisecond,
		},
		Terminal: TerminalConfig{
			Hold: 120 * time.Millisecond,
			Controls: []ControlsConfig{
				{
					Up:    []string{"up"},
					Down:  []string{"down"},
					Left:  []string{"left"},
					Right: []string{"right"},
					A:     []string{"a"},
					B:     []string{"s"},
					X:     []string{"z"},
					Y:     []string{"x"},
				},
				{
					Up:    []string{"i"},
					Down:  []string{"k"},
					Left:  []string{"j"},
					Right: []string{"l"},
					A:     []string{"1"},
					B:     []string{"2"},
					X:     []string{"3"},
					Y:     []string{"4"},
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConfigYAML
}
