package suppress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"hush/internal/workspace"
)

// ErrStaleSnapshot is returned when the workspace snapshot was replaced
// between fix computation and commit.
var ErrStaleSnapshot = errors.New("suppress: snapshot changed during fix computation")

// Request carries everything one language group needs to compute and
// apply its aggregated fix.
type Request struct {
	Mapping        DocDiagnostics
	Workspace      *workspace.Workspace
	Strategy       Strategy
	Provider       FixProvider
	EquivalenceKey string
	Title          string
	Message        string
}

// Executor computes one language group's aggregated fix, previews it, and
// commits it to the workspace. A declined preview leaves the workspace's
// current snapshot untouched; the orchestrator detects that by identity
// comparison.
type Executor interface {
	ComputeAndApply(ctx context.Context, req Request) error
}

// FileChange summarises modifications staged for one document.
type FileChange struct {
	Path      string
	EditCount int
}

// Preview describes the aggregated change offered for confirmation.
type Preview struct {
	Title       string
	Message     string
	Files       []FileChange
	ListEntries int
}

// Previewer presents the aggregated change for user confirmation before
// it commits.
type Previewer interface {
	Confirm(preview Preview) bool
}

// AutoApprove accepts every preview.
type AutoApprove struct{}

func (AutoApprove) Confirm(Preview) bool { return true }

// BulkExecutor is the production Executor: it applies the provider's edit
// set to the current snapshot, swaps the workspace pointer, and persists
// the changed files and suppression lists to disk.
type BulkExecutor struct {
	// Preview gates the commit; nil means auto-approve.
	Preview Previewer
	// Persist writes changed documents and lists to disk after commit.
	Persist bool
}

func (e *BulkExecutor) ComputeAndApply(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Workspace == nil || req.Provider == nil {
		return fmt.Errorf("suppress: incomplete request")
	}

	snap := req.Workspace.Current()
	set, err := req.Provider.ComputeFix(ctx, snap, req.Mapping, req.EquivalenceKey)
	if err != nil {
		return err
	}
	if set.Empty() {
		return nil
	}

	changes, fileChanges, err := applyEdits(ctx, snap, set)
	if err != nil {
		return err
	}

	preview := Preview{
		Title:       req.Title,
		Message:     req.Message,
		Files:       fileChanges,
		ListEntries: set.EntryCount(),
	}
	if e.Preview != nil && !e.Preview.Confirm(preview) {
		return nil
	}

	next := snap.WithDocumentContents(changes).WithSuppressions(set.ListEntries)
	if next == snap {
		return nil
	}
	if !req.Workspace.Commit(snap, next) {
		return ErrStaleSnapshot
	}

	if e.Persist {
		return persist(next, changes, set.ListEntries)
	}
	return nil
}

// applyEdits stages the new content of every edited document. Edits apply
// back-to-front so earlier spans stay valid; overlapping edits and failed
// OldText guards abort the whole computation.
func applyEdits(ctx context.Context, snap *workspace.Snapshot, set *EditSet) (map[workspace.DocumentID][]byte, []FileChange, error) {
	docIDs := make([]workspace.DocumentID, 0, len(set.Edits))
	for id := range set.Edits {
		docIDs = append(docIDs, id)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i].String() < docIDs[j].String() })

	changes := make(map[workspace.DocumentID][]byte, len(docIDs))
	fileChanges := make([]FileChange, 0, len(docIDs))

	for _, id := range docIDs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		doc := snap.Document(id)
		if doc == nil {
			continue
		}
		text, err := doc.Text(ctx)
		if err != nil {
			return nil, nil, err
		}

		edits := append([]TextEdit(nil), set.Edits[id]...)
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Span.Start == edits[j].Span.Start {
				return edits[i].Span.End > edits[j].Span.End
			}
			return edits[i].Span.Start > edits[j].Span.Start
		})

		for i := 0; i < len(edits); i++ {
			for j := i + 1; j < len(edits); j++ {
				if spansConflict(edits[i], edits[j]) {
					return nil, nil, fmt.Errorf("suppress: conflicting edits in %s", displayPath(id))
				}
			}
		}

		working := append([]byte(nil), text.Content...)
		for _, edit := range edits {
			start, end := int(edit.Span.Start), int(edit.Span.End)
			if start < 0 || end < start || end > len(working) {
				return nil, nil, fmt.Errorf("suppress: edit span out of range in %s", displayPath(id))
			}
			if edit.OldText != "" && string(working[start:end]) != edit.OldText {
				return nil, nil, fmt.Errorf("suppress: existing text does not match expected content in %s", displayPath(id))
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], []byte(edit.NewText)...), suffix...)
		}

		changes[id] = working
		fileChanges = append(fileChanges, FileChange{
			Path:      displayPath(id),
			EditCount: len(edits),
		})
	}
	return changes, fileChanges, nil
}

// spansConflict reports whether two text edits' spans overlap. Spans are
// half-open intervals [Start, End). Two zero-length edits never conflict;
// a zero-length edit conflicts with a non-zero span when its position
// falls inside that span.
func spansConflict(a, b TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// persist writes committed document contents and suppression lists to
// disk, preserving existing file modes.
func persist(snap *workspace.Snapshot, changes map[workspace.DocumentID][]byte, listEntries map[workspace.ProjectID][]workspace.SuppressionEntry) error {
	for id, content := range changes {
		project := snap.Project(id.Project)
		if project == nil || project.Handle() == "" {
			continue
		}
		path := filepath.Join(project.Handle(), filepath.FromSlash(id.Path))

		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, content, mode); err != nil {
			return fmt.Errorf("suppress: write %s: %w", path, err)
		}
	}

	for pid := range listEntries {
		project := snap.Project(pid)
		if project == nil || project.Handle() == "" {
			continue
		}
		if err := workspace.SaveSuppressions(project.Handle(), project.Suppressions()); err != nil {
			return err
		}
	}
	return nil
}

func displayPath(id workspace.DocumentID) string {
	if id.Project == "." || id.Project == "" {
		return id.Path
	}
	return string(id.Project) + "/" + id.Path
}
