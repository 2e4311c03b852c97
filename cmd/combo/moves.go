package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-combo/internal/core"
	"github.com/vovakirdan/tui-combo/internal/registry"
)

var movesCmd = &cobra.Command{
	Use:   "moves [roster]",
	Short: "List rosters, or the moves of one roster",
	Long: `Without arguments, shows every registered roster.
With a roster ID, shows its moves in match priority order:
longer sequences are tried first.

Rosters are built in, or loaded from ~/.combo/rosters/*.yaml.

Examples:
  combo moves
  combo moves ninja`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMoves,
}

func runMoves(_ *cobra.Command, args []string) {
	if len(args) == 1 {
		printRoster(args[0])
		return
	}

	rosters := registry.List()
	if len(rosters) == 0 {
		fmt.Println("No rosters available.")
		return
	}

	fmt.Println("Available rosters:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, r := range rosters {
		if len(r.ID) > maxIDLen {
			maxIDLen = len(r.ID)
		}
	}

	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Moves", "Title")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "-----", "-----")

	for _, r := range rosters {
		fmt.Printf("  %-*s  %-5d  %s\n", maxIDLen, r.ID, r.Moves, r.Title)
	}

	fmt.Println()
	fmt.Println("Run 'combo train <id>' to practice a roster.")
}

func printRoster(id string) {
	r, err := registry.Create(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown roster %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'combo moves' to see available rosters.")
		os.Exit(1)
	}

	list, ecfg, err := trainer.BuildMoveList(r.Moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (buffer %d, expiry %s, merge %s)\n", r.Title, ecfg.Capacity, ecfg.Timing.Expiry, ecfg.Timing.MergeWindow)
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	fmt.Println()

	maxNameLen := 4 // "Move" header
	for _, m := range list.Moves() {
		if len(m.Name()) > maxNameLen {
			maxNameLen = len(m.Name())
		}
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "Move", "Reusable", "Input")
	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "----", "--------", "-----")

	for _, m := range list.Moves() {
		reusable := "no"
		if m.IsReusable() {
			reusable = "yes"
		}
		fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, m.Name(), reusable, core.FormatSequence(m.Sequence()))
	}
}
