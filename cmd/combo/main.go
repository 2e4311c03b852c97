// combo is a terminal trainer for fighting-game style move inputs.
//
// Usage:
//
//	combo moves [roster]          - List rosters, or the moves of one roster
//	combo train <roster>          - Practice a roster
//	combo menu                    - Pick rosters interactively
//	combo replay <script.yaml>    - Run a scripted input timeline
//	combo stats <roster>          - Show how often each move was landed
//	combo serve                   - Start SSH server for remote training
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: from config, 60)
//	--config <path>     - Trainer config YAML
//	--timing <preset>   - Buffer timing preset: lenient, standard, strict
//	--db <path>         - Set database path (default: ~/.combo/combo.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file (TUI commands log nowhere by default)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/roster"
)

var (
	// Global flags
	flagFPS      int
	flagConfig   string
	flagTiming   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

// trainer is the loaded configuration shared by every command.
var trainer config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "combo",
	Short: "Combo - Practice move inputs in your terminal",
	Long: `Combo is a terminal trainer for fighting-game style inputs.
Directions and buttons go into a short-lived buffer and are matched
against a roster of moves like down, down+right, right+a.

Available commands:
  moves    - Show rosters and their moves
  train    - Practice a roster directly
  menu     - Interactive roster picker
  replay   - Run a scripted input timeline
  stats    - View landed move counts
  serve    - Start SSH server for remote training

Examples:
  combo moves brawler
  combo train brawler --timing lenient
  combo menu
  combo replay ./fireball.yaml
  combo serve --ssh :2222`,
	PersistentPreRun: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = use config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom trainer config YAML")
	rootCmd.PersistentFlags().StringVar(&flagTiming, "timing", "", "Timing preset: lenient, standard, strict")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.combo/combo.db", "Path to detections database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(movesCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the trainer config and the user's roster directory.
func setup(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.ApplyTimingPreset(&cfg, config.TimingPreset(flagTiming)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	trainer = cfg

	if _, err := roster.RegisterDir(roster.UserDir(), newLogger(os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load user rosters: %v\n", err)
	}
}

// newLogger returns a logger writing to w at the configured level.
// A --log-file overrides w.
func newLogger(w io.Writer) *log.Logger {
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		} else {
			w = f
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "combo",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// tuiLogger keeps log lines off the alt screen unless a log file is set.
func tuiLogger() *log.Logger {
	return newLogger(io.Discard)
}
