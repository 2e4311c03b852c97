// Package registry provides a global registry for move rosters.
// Rosters register themselves in init() functions, allowing the trainer
// to discover and load them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-combo/internal/combo"
)

// Roster is a named set of moves a player can practice.
type Roster struct {
	// ID is a unique identifier (e.g., "brawler").
	// Used for CLI arguments and stats storage.
	ID string

	// Title is a human-readable name for display.
	Title string

	Description string

	// Moves in catalog order. The engine re-sorts them longest first.
	Moves []combo.Move
}

// RosterInfo contains metadata about a registered roster.
type RosterInfo struct {
	ID          string
	Title       string
	Description string
	Moves       int
}

// Factory builds a roster. It is called on every Create so callers never
// share move slices.
type Factory func() (Roster, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]RosterInfo)
	mu        sync.RWMutex
)

// Register adds a roster factory to the registry.
// Typically called from an init() function.
// Panics if the ID is already registered or the factory fails.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: roster %q already registered", id))
	}

	// Build once to catch broken rosters at startup
	r, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: roster %q: %v", id, err))
	}

	factories[id] = f
	infos[id] = RosterInfo{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Moves:       len(r.Moves),
	}
}

// List returns information about all registered rosters, sorted by ID.
func List() []RosterInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]RosterInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a roster by its ID.
// Returns an error if the roster ID is not registered.
func Create(id string) (Roster, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return Roster{}, fmt.Errorf("registry: unknown roster %q", id)
	}
	return f()
}

// Exists checks if a roster with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
