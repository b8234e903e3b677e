package suppress

import (
	"context"
	"sort"

	"hush/internal/diag"
	"hush/internal/workspace"
)

// DocDiagnostics maps a snapshot-bound document to its diagnostics,
// ordered by span. All documents in one mapping belong to the same
// snapshot; the mapping must be rebuilt (never patched) when the
// snapshot is replaced.
type DocDiagnostics map[*workspace.Document][]diag.Diagnostic

// Materialize binds raw records to the snapshot's live documents,
// restricted to projects accepted by include (nil accepts everything).
//
// Records are grouped by document, the document groups by project. A
// project that no longer resolves, or that the predicate rejects, drops
// its whole group; a document that no longer resolves, or a record whose
// span no longer fits, is dropped silently. An empty or wholly filtered
// input yields an empty mapping, not an error. Cancellation aborts the
// whole materialization with no partial result.
func Materialize(ctx context.Context, snap *workspace.Snapshot, records []diag.Record, include func(*workspace.Project) bool) (DocDiagnostics, error) {
	out := make(DocDiagnostics)
	if len(records) == 0 {
		return out, nil
	}

	byDoc := make(map[workspace.DocumentID][]diag.Record)
	for _, r := range records {
		byDoc[r.Document] = append(byDoc[r.Document], r)
	}

	byProject := make(map[workspace.ProjectID][]workspace.DocumentID)
	for id := range byDoc {
		byProject[id.Project] = append(byProject[id.Project], id)
	}

	for pid, docIDs := range byProject {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		project := snap.Project(pid)
		if project == nil {
			continue
		}
		if include != nil && !include(project) {
			continue
		}
		for _, docID := range docIDs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			doc := project.Document(docID.Path)
			if doc == nil {
				continue
			}
			for _, r := range byDoc[docID] {
				d, err := r.Bind(ctx, doc)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					continue
				}
				out[doc] = append(out[doc], d)
			}
			if diags := out[doc]; len(diags) > 0 {
				sortDiagnostics(diags)
			}
		}
	}
	return out, nil
}

func sortDiagnostics(diags []diag.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Span.Start != diags[j].Span.Start {
			return diags[i].Span.Start < diags[j].Span.Start
		}
		if diags[i].Span.End != diags[j].Span.End {
			return diags[i].Span.End < diags[j].Span.End
		}
		return diags[i].Code < diags[j].Code
	})
}
