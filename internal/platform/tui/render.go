package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-combo/internal/core"
)

// directionGlyphs maps each of the nine directions to an arrow.
var directionGlyphs = map[core.Buttons]string{
	core.ButtonNone:      "·",
	core.ButtonUp:        "↑",
	core.ButtonDown:      "↓",
	core.ButtonLeft:      "←",
	core.ButtonRight:     "→",
	core.ButtonUpLeft:    "↖",
	core.ButtonUpRight:   "↗",
	core.ButtonDownLeft:  "↙",
	core.ButtonDownRight: "↘",
}

// actionStyles colors each action button with its own color.
var actionStyles = []struct {
	button core.Buttons
	label  string
	style  lipgloss.Style
}{
	{core.ButtonA, "A", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))},
	{core.ButtonB, "B", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))},
	{core.ButtonX, "X", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))},
	{core.ButtonY, "Y", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))},
}

var (
	directionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	chipStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// DirectionGlyph returns the arrow for the direction bits of b.
func DirectionGlyph(b core.Buttons) string {
	if g, ok := directionGlyphs[core.ExtractDirection(b)]; ok {
		return g
	}
	return "?"
}

// ChordText renders a chord as plain text, e.g. "↘A".
func ChordText(b core.Buttons) string {
	var sb strings.Builder
	if b.HasDirection() {
		sb.WriteString(DirectionGlyph(b))
	}
	for _, a := range actionStyles {
		if b.Has(a.button) {
			sb.WriteString(a.label)
		}
	}
	if sb.Len() == 0 {
		return DirectionGlyph(core.ButtonNone)
	}
	return sb.String()
}

// RenderChord renders a chord with button colors.
func RenderChord(b core.Buttons) string {
	var sb strings.Builder
	if b.HasDirection() {
		sb.WriteString(directionStyle.Render(DirectionGlyph(b)))
	}
	for _, a := range actionStyles {
		if b.Has(a.button) {
			sb.WriteString(a.style.Render(a.label))
		}
	}
	if sb.Len() == 0 {
		return emptyStyle.Render(DirectionGlyph(core.ButtonNone))
	}
	return sb.String()
}

// RenderSequence renders chords separated by spaces.
func RenderSequence(seq []core.Buttons) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = RenderChord(b)
	}
	return strings.Join(parts, " ")
}

// RenderBuffer renders a player's buffer as a row of bordered chips,
// oldest on the left.
func RenderBuffer(entries []core.Buttons, capacity int) string {
	if len(entries) == 0 {
		return chipStyle.Render(emptyStyle.Render("empty"))
	}

	chips := make([]string, 0, capacity)
	for _, b := range entries {
		chips = append(chips, chipStyle.Render(RenderChord(b)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
