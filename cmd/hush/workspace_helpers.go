package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hush/internal/workspace"
)

const noHushTomlMessage = "no hush.toml found\nrun `hush init` in the workspace root, or pass an explicit path, e.g.:\n  hush scan path/to/workspace"

// resolveRoot locates the workspace root: an explicit argument wins,
// otherwise the nearest hush.toml above the working directory.
func resolveRoot(args []string) (string, error) {
	start := ""
	if len(args) > 0 {
		start = args[0]
	}

	if start != "" {
		abs, err := filepath.Abs(start)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %q: %w", start, err)
		}
		if _, err := os.Stat(filepath.Join(abs, workspace.ManifestFileName)); err == nil {
			return abs, nil
		}
		root, ok, err := workspace.FindRoot(abs)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%s", noHushTomlMessage)
		}
		return root, nil
	}

	root, ok, err := workspace.FindRoot("")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s", noHushTomlMessage)
	}
	return root, nil
}

// documentPaths returns every document's display path for progress UIs.
func documentPaths(snap *workspace.Snapshot) []string {
	var out []string
	for _, p := range snap.Projects() {
		for _, d := range p.Documents() {
			out = append(out, d.ID().String())
		}
	}
	return out
}
