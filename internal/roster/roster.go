// Package roster registers the built-in move rosters and loads user rosters
// from a directory of YAML files.
package roster

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-combo/internal/config"
	"github.com/vovakirdan/tui-combo/internal/registry"
)

//go:embed sets/*.yaml
var builtin embed.FS

func init() {
	rosters, err := loadFS(builtin, "sets")
	if err != nil {
		panic(fmt.Sprintf("roster: built-in sets: %v", err))
	}
	for _, rc := range rosters {
		registry.Register(rc.ID, factory(rc))
	}
}

// factory turns a decoded roster into a registry factory.
func factory(rc config.RosterConfig) registry.Factory {
	return func() (registry.Roster, error) {
		moves, err := rc.BuildMoves()
		if err != nil {
			return registry.Roster{}, err
		}
		return registry.Roster{
			ID:          rc.ID,
			Title:       rc.Title,
			Description: rc.Description,
			Moves:       moves,
		}, nil
	}
}

// LoadDir recursively scans root for roster files and returns them sorted by ID.
// Files that fail to parse are skipped with a warning.
func LoadDir(root string, logger *log.Logger) ([]config.RosterConfig, error) {
	var rosters []config.RosterConfig

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isRosterFile(path) {
			return nil
		}

		rc, err := config.LoadRoster(path)
		if err != nil {
			logger.Warn("skipping roster", "path", path, "err", err)
			return nil
		}
		if _, err := rc.BuildMoves(); err != nil {
			logger.Warn("skipping roster", "path", path, "err", err)
			return nil
		}
		rosters = append(rosters, rc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: walking %s: %w", root, err)
	}

	sortByID(rosters)
	return rosters, nil
}

// RegisterDir loads user rosters from root and registers the ones whose ID
// is not taken. A missing directory is not an error.
func RegisterDir(root string, logger *log.Logger) (int, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}

	rosters, err := LoadDir(root, logger)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rc := range rosters {
		if registry.Exists(rc.ID) {
			logger.Warn("roster id already registered", "id", rc.ID)
			continue
		}
		registry.Register(rc.ID, factory(rc))
		n++
	}
	return n, nil
}

// UserDir returns ~/.combo/rosters, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".combo", "rosters")
}

func loadFS(fsys fs.FS, dir string) ([]config.RosterConfig, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	rosters := make([]config.RosterConfig, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isRosterFile(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, err
		}
		rc, err := config.ParseRoster(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		rosters = append(rosters, rc)
	}

	sortByID(rosters)
	return rosters, nil
}

func isRosterFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func sortByID(rosters []config.RosterConfig) {
	sort.Slice(rosters, func(i, j int) bool {
		return rosters[i].ID < rosters[j].ID
	})
}
