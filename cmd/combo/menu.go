package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-combo/internal/platform/tui"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the trainer with a roster picker menu",
	Long: `Start the trainer in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to train a roster.
Leaving a roster with Esc returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Train roster
  Tab          - Move stats
  Q            - Quit

Examples:
  combo menu
  combo menu --fps 30
  combo menu --db ./combo.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open detections database: %v\n", err)
		store = nil
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	runErr := tui.RunSession(store, trainer, trainer.RuntimeConfig(width, height), tuiLogger())

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
