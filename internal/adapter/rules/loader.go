// Package rules loads the repository's coding guidelines document that
// gets embedded into the review prompt.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is where the guidelines live relative to the repository root.
const DefaultPath = ".github/AGENTS.md"

// Loader reads the coding guidelines from the checked-out repository.
type Loader struct {
	repoDir string
	path    string
}

// NewLoader constructs a loader for the given repository directory.
// An empty path falls back to DefaultPath.
func NewLoader(repoDir, path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{repoDir: repoDir, path: path}
}

// Load returns the guidelines document, or "" when the repository has
// none. A missing file is not an error: the review simply runs without
// repository-specific rules.
func (l *Loader) Load() (string, error) {
	data, err := os.ReadFile(filepath.Join(l.repoDir, l.path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read rules %s: %w", l.path, err)
	}
	return string(data), nil
}
