package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFileName marks a directory as a project root.
const ManifestFileName = "hush.toml"

// Manifest is the decoded hush.toml of one project.
type Manifest struct {
	Project ManifestProject `toml:"project"`
	Scan    ManifestScan    `toml:"scan"`
}

// ManifestProject names the project and declares its language.
type ManifestProject struct {
	Name     string `toml:"name"`
	Language string `toml:"language"`
}

// ManifestScan configures the built-in analyzers for the project.
type ManifestScan struct {
	Exclude       []string `toml:"exclude"`
	MaxLineLength int      `toml:"max-line-length"`
}

// FindRoot walks up from startDir looking for the nearest hush.toml and
// returns the directory containing it.
func FindRoot(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("workspace: resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("workspace: stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
