// Package tui provides the Bubble Tea integration for the combo trainer.
// It handles the terminal UI loop, keyboard tracking and engine orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// TickMsg is sent to trigger an engine tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
// Rates outside 1..core.MaxTickRate are clamped.
func tickCmd(tickRate int) tea.Cmd {
	tickRate = max(1, min(tickRate, core.MaxTickRate))
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
