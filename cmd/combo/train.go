package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-combo/internal/platform/tui"
	"github.com/vovakirdan/tui-combo/internal/registry"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

var trainCmd = &cobra.Command{
	Use:   "train <roster>",
	Short: "Practice a roster",
	Long: `Start practicing the specified roster.

Default controls:
  P1  arrows move, a/s/z/x are buttons A/B/X/Y
  P2  i/j/k/l move, 1/2/3/4 are buttons A/B/X/Y

Terminals only report key presses, so a key counts as held for a short
window after each press (terminal.hold in the config).

Trainer keys:
  Tab      - Clear buffers
  ?        - Toggle help
  Esc      - Leave
  Ctrl+C   - Quit

Timing presets:
  lenient  - 800ms expiry, 150ms merge window that slides with each merge
  standard - 500ms expiry, 100ms merge window
  strict   - 300ms expiry, 50ms merge window

Examples:
  combo train brawler
  combo train ninja --timing strict
  combo train charge --config ./my-combo.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runTrain,
}

func runTrain(_ *cobra.Command, args []string) {
	rosterID := args[0]

	// Check if roster exists
	if !registry.Exists(rosterID) {
		fmt.Fprintf(os.Stderr, "Error: unknown roster %q\n", rosterID)
		fmt.Fprintln(os.Stderr, "Run 'combo moves' to see available rosters.")
		os.Exit(1)
	}

	r, err := registry.Create(rosterID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading roster: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open detections database: %v\n", err)
		// Continue without storage - training still works
		store = nil
	}

	runErr := tui.Run(tui.TrainingOptions{
		Config:  trainer,
		Roster:  r,
		Store:   store,
		Runtime: trainer.RuntimeConfig(width, height),
		Logger:  tuiLogger(),
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running trainer: %v\n", runErr)
		os.Exit(1)
	}
}
