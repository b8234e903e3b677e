package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// SuppressionsFileName is the per-project external suppression list.
const SuppressionsFileName = "hush.suppressions.toml"

// SuppressionEntry marks one finding as intentionally ignored without
// touching the source: document path (project-relative), diagnostic code,
// and a short hash of the flagged line so stale entries can be detected.
type SuppressionEntry struct {
	Path string `toml:"path"`
	Code string `toml:"code"`
	Hash string `toml:"hash,omitempty"`
}

// Matches reports whether the entry suppresses the given finding. An
// entry without a hash matches any content of the flagged line.
func (e SuppressionEntry) Matches(path, codeID, lineHash string) bool {
	if e.Path != path || !strings.EqualFold(e.Code, codeID) {
		return false
	}
	return e.Hash == "" || e.Hash == lineHash
}

// LineHash returns the short content hash recorded in suppression
// entries: the first 8 hex chars of the trimmed line's SHA-256.
func LineHash(line string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(line)))
	return hex.EncodeToString(sum[:4])
}

type suppressionsFile struct {
	Suppression []SuppressionEntry `toml:"suppression"`
}

// LoadSuppressions reads the suppression list from dir. A missing file is
// not an error and yields no entries.
func LoadSuppressions(dir string) ([]SuppressionEntry, error) {
	path := filepath.Join(dir, SuppressionsFileName)
	var file suppressionsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("workspace: decode %s: %w", path, err)
	}
	return file.Suppression, nil
}

// SaveSuppressions writes the suppression list to dir, sorted for stable
// diffs.
func SaveSuppressions(dir string, entries []SuppressionEntry) error {
	sorted := append([]SuppressionEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return sorted[i].Hash < sorted[j].Hash
	})

	path := filepath.Join(dir, SuppressionsFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("workspace: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(suppressionsFile{Suppression: sorted}); err != nil {
		return fmt.Errorf("workspace: encode %s: %w", path, err)
	}
	return nil
}
