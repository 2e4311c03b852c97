package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/core"
)

// KeyMapper translates Bubble Tea key messages to per-player virtual keys.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	bindings map[string]playerKey
}

type playerKey struct {
	player core.PlayerID
	key    core.Key
}

// NewKeyMapper builds a mapper from the configured controls.
// Only the first players layouts are used.
func NewKeyMapper(controls []config.ControlsConfig, players int) *KeyMapper {
	km := &KeyMapper{bindings: make(map[string]playerKey)}
	for i, ctl := range controls {
		if i >= players {
			break
		}
		id := core.PlayerFromIndex(i)
		for k, names := range ctl.Bindings() {
			for _, name := range names {
				km.bindings[name] = playerKey{player: id, key: k}
			}
		}
	}
	return km
}

// MapKey translates a key message to a player's virtual key.
// Returns ok=false if the key is not bound.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (id core.PlayerID, k core.Key, ok bool) {
	pk, ok := km.bindings[msg.String()]
	if !ok {
		return 0, 0, false
	}
	return pk.player, pk.key, true
}

// KeysFor returns the terminal keys bound to a player's virtual key, sorted.
func (km *KeyMapper) KeysFor(id core.PlayerID, k core.Key) []string {
	var names []string
	for name, pk := range km.bindings {
		if pk.player == id && pk.key == k {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// TrainingKeyMap defines the trainer's own key bindings. These are checked
// before player controls, so layouts must not reuse them.
type TrainingKeyMap struct {
	Reset key.Binding
	Help  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TrainingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Back, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k TrainingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Reset, k.Help},
		{k.Back, k.Quit},
	}
}

// DefaultTrainingKeyMap returns default key bindings.
func DefaultTrainingKeyMap() TrainingKeyMap {
	return TrainingKeyMap{
		Reset: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "clear buffers"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionStats
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionStats
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
