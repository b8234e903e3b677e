package suppress

import (
	"context"
	"fmt"
	"sort"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/pragma"
	"hush/internal/source"
	"hush/internal/workspace"
)

// Equivalence keys identify the suppression mechanism of an operation.
// Every provider invocation within one operation receives the same key.
const (
	// KeyInSource batches fixes that insert pragma comments.
	KeyInSource = "suppress-in-source"
	// KeyInList batches fixes that extend the project suppression list.
	KeyInList = "suppress-in-list"
)

type suppressionStrategy struct {
	language lang.Language
}

// NewStrategy returns the suppression strategy for a language.
func NewStrategy(language lang.Language) Strategy {
	return suppressionStrategy{language: language}
}

func (s suppressionStrategy) Language() lang.Language {
	return s.language
}

func (s suppressionStrategy) CanSuppress(diags []diag.Diagnostic) bool {
	if len(diags) == 0 || !s.language.Fixable() {
		return false
	}
	for _, d := range diags {
		if d.Doc == nil || d.Doc.Language() != s.language {
			return false
		}
	}
	return true
}

func (s suppressionStrategy) Provider() FixProvider {
	return allOccurrencesProvider{language: s.language}
}

// allOccurrencesProvider aggregates every diagnostic of a language group
// into one multi-document edit.
type allOccurrencesProvider struct {
	language lang.Language
}

func (p allOccurrencesProvider) ComputeFix(ctx context.Context, snap *workspace.Snapshot, mapping DocDiagnostics, equivalenceKey string) (*EditSet, error) {
	switch equivalenceKey {
	case KeyInSource:
		return p.pragmaEdits(ctx, mapping)
	case KeyInList:
		return p.listEntries(ctx, snap, mapping)
	}
	return nil, fmt.Errorf("suppress: unknown equivalence key %q", equivalenceKey)
}

// pragmaEdits inserts one pragma comment line above each flagged line,
// listing every suppressed code of that line.
func (p allOccurrencesProvider) pragmaEdits(ctx context.Context, mapping DocDiagnostics) (*EditSet, error) {
	set := NewEditSet()
	for doc, diags := range mapping {
		text, err := doc.Text(ctx)
		if err != nil {
			return nil, err
		}

		codesByLine := make(map[uint32][]string)
		for _, d := range diags {
			line := text.LineOf(d.Span.Start)
			if pragma.Disables(text.Line(line), p.language, d.Code) {
				continue
			}
			if line > 1 && pragma.Disables(text.Line(line-1), p.language, d.Code) {
				continue
			}
			id := d.Code.ID()
			if !containsString(codesByLine[line], id) {
				codesByLine[line] = append(codesByLine[line], id)
			}
		}

		lines := make([]uint32, 0, len(codesByLine))
		for line := range codesByLine {
			lines = append(lines, line)
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })

		for _, line := range lines {
			codes := codesByLine[line]
			sort.Strings(codes)
			comment := pragma.Format(p.language, codes)
			if comment == "" {
				continue
			}
			insertAt := text.LineStart(line)
			set.Add(TextEdit{
				Doc:     doc.ID(),
				Span:    source.Span{Start: insertAt, End: insertAt},
				NewText: text.Indentation(line) + comment + "\n",
			})
		}
	}
	return set, nil
}

// listEntries records one suppression-list entry per finding, hashing the
// flagged line so the entry goes stale when the line changes.
func (p allOccurrencesProvider) listEntries(ctx context.Context, snap *workspace.Snapshot, mapping DocDiagnostics) (*EditSet, error) {
	set := NewEditSet()
	seen := make(map[string]bool)
	for doc, diags := range mapping {
		text, err := doc.Text(ctx)
		if err != nil {
			return nil, err
		}
		pid := doc.ID().Project
		project := snap.Project(pid)
		for _, d := range diags {
			line := text.Line(text.LineOf(d.Span.Start))
			entry := workspace.SuppressionEntry{
				Path: doc.ID().Path,
				Code: d.Code.ID(),
				Hash: workspace.LineHash(line),
			}
			key := entry.Path + "|" + entry.Code + "|" + entry.Hash
			if seen[key] {
				continue
			}
			seen[key] = true
			if project != nil && alreadyListed(project.Suppressions(), entry) {
				continue
			}
			set.AddListEntry(pid, entry)
		}
	}
	return set, nil
}

func alreadyListed(entries []workspace.SuppressionEntry, entry workspace.SuppressionEntry) bool {
	for _, e := range entries {
		if e.Matches(entry.Path, entry.Code, entry.Hash) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
