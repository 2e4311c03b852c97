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

var (
	flagStatsTUI   bool
	flagStatsClear bool
	flagStatsLimit int
	flagRecent     int
)

var statsCmd = &cobra.Command{
	Use:   "stats <roster>",
	Short: "Show landed move counts for a roster",
	Long: `Display how often each move of the roster has been landed,
most frequent first.

Examples:
  combo stats brawler
  combo stats brawler --limit 5
  combo stats brawler --recent 10
  combo stats brawler --tui
  combo stats brawler --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse stats interactively")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete recorded detections and sessions for the roster")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of moves to show")
	statsCmd.Flags().IntVar(&flagRecent, "recent", 0, "Show the latest detections and sessions instead of counts")
}

func runStats(_ *cobra.Command, args []string) {
	rosterID := args[0]

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

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening detections database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagStatsClear {
		if err := store.ClearDetections(rosterID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing stats: %v\n", err)
			return
		}
		fmt.Printf("Cleared stats for %s.\n", r.Title)
		return
	}

	if flagStatsTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, err := tui.RunStats(store, rosterID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if flagRecent > 0 {
		printRecent(store, rosterID, r.Title, flagRecent)
		return
	}

	counts, err := store.TopMoves(rosterID, flagStatsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	fmt.Printf("Move Stats - %s\n", r.Title)
	fmt.Println()

	if len(counts) == 0 {
		fmt.Println("No moves landed yet.")
		fmt.Println()
		fmt.Printf("Run 'combo train %s' to start practicing!\n", rosterID)
		return
	}

	maxNameLen := 4 // "Move" header
	for _, c := range counts {
		if len(c.Move) > maxNameLen {
			maxNameLen = len(c.Move)
		}
	}

	fmt.Printf("  %-4s  %-*s  %-6s  %s\n", "Rank", maxNameLen, "Move", "Count", "Last")
	fmt.Printf("  %-4s  %-*s  %-6s  %s\n", "----", maxNameLen, "----", "-----", "----")

	for i, c := range counts {
		fmt.Printf("  %-4d  %-*s  %-6d  %s\n", i+1, maxNameLen, c.Move, c.Count, c.Last.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if summary, err := store.GetRosterStats(rosterID); err == nil {
		fmt.Printf("Total: %d detections over %d sessions\n", summary.Detections, summary.Sessions)
	}
}

func printRecent(store *storage.Store, rosterID, title string, limit int) {
	detections, err := store.RecentDetections(rosterID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving detections: %v\n", err)
		return
	}

	fmt.Printf("Recent Detections - %s\n", title)
	fmt.Println()

	if len(detections) == 0 {
		fmt.Println("No moves landed yet.")
	} else {
		fmt.Printf("  %-16s  %-6s  %-18s  %s\n", "When", "Player", "Move", "Input")
		fmt.Printf("  %-16s  %-6s  %-18s  %s\n", "----", "------", "----", "-----")
		for _, d := range detections {
			fmt.Printf("  %-16s  P%-5d  %-18s  %s\n", d.CreatedAt.Format("2006-01-02 15:04"), d.Player, d.Move, d.Sequence)
		}
	}

	sessions, err := store.RecentSessions(rosterID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent Sessions")
	fmt.Println()
	fmt.Printf("  %-16s  %-12s  %-5s  %s\n", "When", "User", "Moves", "Length")
	fmt.Printf("  %-16s  %-12s  %-5s  %s\n", "----", "----", "-----", "------")
	for _, s := range sessions {
		user := s.User
		if user == "" {
			user = "local"
		}
		fmt.Printf("  %-16s  %-12s  %-5d  %ds\n", s.CreatedAt.Format("2006-01-02 15:04"), user, s.Detections, s.Duration)
	}
}
