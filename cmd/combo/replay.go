package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/core"
	"github.com/vovakirdan/tui-combo/internal/registry"
	"github.com/vovakirdan/tui-combo/internal/replay"
	"github.com/vovakirdan/tui-combo/internal/storage"
)

var (
	flagReplayRoster string
	flagReplaySave   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Run a scripted input timeline",
	Long: `Feed a YAML timeline of held keys and pad buttons through the
engine at a fixed tick rate and print every move it detects.

Script format:
  roster: brawler
  tick_rate: 60
  steps:
    - {at: 0ms, keys: [down]}
    - {at: 50ms, keys: [down, right]}
    - {at: 100ms, keys: [right, a]}
    - {at: 150ms}
    - {at: 200ms, player: 2, pad: [dpad_left]}

Each step replaces what its player holds until that player's next step.
Key names: up, down, left, right, a, b, x, y.
Pad names: dpad_*, stick_*, a, b, x, y.

Examples:
  combo replay ./fireball.yaml
  combo replay ./fireball.yaml --roster ninja --timing strict
  combo replay ./fireball.yaml --log-level debug
  combo replay ./fireball.yaml --save`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagReplayRoster, "roster", "", "Roster to match against (overrides the script)")
	replayCmd.Flags().BoolVar(&flagReplaySave, "save", false, "Record detections in the database")
}

func runReplay(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	script, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rosterID := script.Roster
	if flagReplayRoster != "" {
		rosterID = flagReplayRoster
	}
	if rosterID == "" {
		fmt.Fprintln(os.Stderr, "Error: script names no roster, use --roster")
		os.Exit(1)
	}

	r, err := registry.Create(rosterID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown roster %q\n", rosterID)
		fmt.Fprintln(os.Stderr, "Run 'combo moves' to see available rosters.")
		os.Exit(1)
	}

	list, ecfg, err := trainer.BuildMoveList(r.Moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	detections, err := replay.Run(script, list, ecfg, combo.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Replay - %s (%d steps at %d ticks/s)\n", r.Title, len(script.Steps), script.TickRate)
	fmt.Println()

	if len(detections) == 0 {
		fmt.Println("No moves detected.")
		return
	}

	fmt.Printf("  %-6s  %-8s  %-6s  %s\n", "Tick", "Time", "Player", "Move")
	fmt.Printf("  %-6s  %-8s  %-6s  %s\n", "----", "----", "------", "----")
	for _, d := range detections {
		fmt.Printf("  %-6d  %-8s  %-6s  %s\n", d.Tick, d.At, d.Player, d.Move.Name())
	}

	counts := replay.Count(detections)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	for _, name := range names {
		fmt.Printf("%s x%d\n", name, counts[name])
	}

	if flagReplaySave {
		saveReplay(rosterID, args[0], script, detections)
	}
}

// saveReplay stores the run as a session named after the script, once.
func saveReplay(rosterID, path string, script replay.Script, detections []replay.Detection) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening detections database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	sessionID := fmt.Sprintf("replay-%s-%s", rosterID, path)

	existing, err := store.SessionByID(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking saved replays: %v\n", err)
		return
	}
	if existing != nil {
		fmt.Printf("\nAlready saved on %s, skipping.\n", existing.CreatedAt.Format("2006-01-02 15:04"))
		return
	}

	for _, d := range detections {
		_, err := store.SaveDetection(storage.Detection{
			SessionID: sessionID,
			RosterID:  rosterID,
			Player:    int(d.Player),
			Move:      d.Move.Name(),
			Sequence:  core.FormatSequence(d.Move.Sequence()),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving detection: %v\n", err)
			return
		}
	}

	_, err = store.SaveSession(storage.Session{
		SessionID:  sessionID,
		RosterID:   rosterID,
		User:       "replay",
		Detections: len(detections),
		Duration:   int(script.End() / time.Second),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving session: %v\n", err)
		return
	}
	fmt.Printf("\nSaved %d detections.\n", len(detections))
}
