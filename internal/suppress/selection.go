package suppress

import (
	"context"
	"path/filepath"

	"hush/internal/diag"
	"hush/internal/scancache"
)

// Selection describes which diagnostics the user asked to act upon.
type Selection struct {
	// SelectedOnly restricts the result to the user's current selection
	// instead of every known diagnostic.
	SelectedOnly bool
	// IsAdd distinguishes "add suppressions" from "remove suppressions".
	IsAdd bool
	// InSource selects the in-source mechanism over the external list.
	InSource bool
}

// SelectionSource yields the raw diagnostic records the user wants acted
// upon. It stands in for the host surface that owns the diagnostics
// table; an orchestrator without a source has nothing to act upon.
type SelectionSource interface {
	Items(ctx context.Context, sel Selection) ([]diag.Record, error)
}

// CacheSource serves selections from the scan cache. Code and path
// filters define the "selected" subset; without filters, SelectedOnly
// degrades to "all".
type CacheSource struct {
	Cache *scancache.Cache
	Root  string
	// Codes narrows the selection to the given diagnostic codes.
	Codes []diag.Code
	// Paths narrows the selection to project-relative path globs.
	Paths []string
}

func (s *CacheSource) Items(ctx context.Context, sel Selection) ([]diag.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, ok, err := s.Cache.Load(s.Root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if !sel.SelectedOnly || (len(s.Codes) == 0 && len(s.Paths) == 0) {
		return records, nil
	}

	out := make([]diag.Record, 0, len(records))
	for _, r := range records {
		if len(s.Codes) > 0 && !containsCode(s.Codes, r.Code) {
			continue
		}
		if len(s.Paths) > 0 && !matchesPath(s.Paths, r.Document.Path) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func containsCode(codes []diag.Code, c diag.Code) bool {
	for _, code := range codes {
		if code == c {
			return true
		}
	}
	return false
}

func matchesPath(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}
