// Package scancache persists scan results on disk so that suppression
// runs can consume the previous scan without rescanning the workspace.
package scancache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hush/internal/diag"
	"hush/internal/source"
	"hush/internal/workspace"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Cache хранит результаты сканирования по хэшу корня workspace на диске.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the serialized form of one workspace scan.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Root      string
	CreatedAt time.Time

	Records []RecordPayload
}

// RecordPayload flattens diag.Record for serialization.
type RecordPayload struct {
	Project  string
	Path     string
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// Open initializes and returns a cache at the standard location.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenAt returns a cache rooted at an explicit directory (tests).
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(root string) string {
	sum := sha256.Sum256([]byte(root))
	hexKey := hex.EncodeToString(sum[:])
	// Подкаталог "scans" — для удобства читаемости/очистки.
	return filepath.Join(c.dir, "scans", hexKey+".msgpack")
}

// Save stores the scan results for a workspace root.
func (c *Cache) Save(root string, records []diag.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := Payload{
		Schema:    schemaVersion,
		Root:      root,
		CreatedAt: time.Now().UTC(),
		Records:   make([]RecordPayload, 0, len(records)),
	}
	for _, r := range records {
		payload.Records = append(payload.Records, RecordPayload{
			Project:  string(r.Document.Project),
			Path:     r.Document.Path,
			Severity: uint8(r.Severity),
			Code:     uint16(r.Code),
			Message:  r.Message,
			Start:    r.Span.Start,
			End:      r.Span.End,
		})
	}

	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("scancache: marshal: %w", err)
	}

	path := c.pathFor(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("scancache: mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scancache: write %s: %w", path, err)
	}
	return nil
}

// Load returns the cached scan for a workspace root. The second return
// is false when no usable cache exists (missing file or schema mismatch).
func (c *Cache) Load(root string) ([]diag.Record, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scancache: read: %w", err)
	}

	var payload Payload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("scancache: unmarshal: %w", err)
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}

	records := make([]diag.Record, 0, len(payload.Records))
	for _, r := range payload.Records {
		records = append(records, diag.Record{
			Document: workspace.DocumentID{
				Project: workspace.ProjectID(r.Project),
				Path:    r.Path,
			},
			Severity: diag.Severity(r.Severity),
			Code:     diag.Code(r.Code),
			Message:  r.Message,
			Span:     source.Span{Start: r.Start, End: r.End},
		})
	}
	return records, true, nil
}

// Invalidate removes the cached scan for a workspace root.
func (c *Cache) Invalidate(root string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.pathFor(root))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("scancache: remove: %w", err)
	}
	return nil
}
