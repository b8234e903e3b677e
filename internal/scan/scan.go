// Package scan runs the built-in analyzers over a workspace snapshot and
// collects raw diagnostic records. Findings already covered by an
// in-source pragma or a project suppression list are filtered out here,
// so downstream consumers only ever see active diagnostics.
package scan

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hush/internal/diag"
	"hush/internal/pragma"
	"hush/internal/source"
	"hush/internal/workspace"
)

// Options configures a workspace scan.
type Options struct {
	// MaxDiagnostics caps the collected records; 0 means the default.
	MaxDiagnostics int
	// Jobs limits parallel document scans; 0 means NumCPU.
	Jobs int
	// Progress receives per-document events; may be nil.
	Progress ProgressSink
}

const defaultMaxDiagnostics = 1000

type docTask struct {
	project *workspace.Project
	doc     *workspace.Document
}

// Workspace scans every document of every project in the snapshot.
// Documents are scanned in parallel but results merge in deterministic
// project/path order.
func Workspace(ctx context.Context, snap *workspace.Snapshot, opts Options) (*diag.Bag, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}

	var tasks []docTask
	for _, p := range snap.Projects() {
		for _, d := range p.Documents() {
			tasks = append(tasks, docTask{project: p, doc: d})
			emit(opts.Progress, Event{Document: d.ID().String(), Status: StatusQueued})
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([][]diag.Record, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, task := range tasks {
		g.Go(func() error {
			emit(opts.Progress, Event{Document: task.doc.ID().String(), Status: StatusWorking})
			recs, err := Document(gctx, task.project, task.doc)
			if err != nil {
				emit(opts.Progress, Event{Document: task.doc.ID().String(), Status: StatusError, Err: err})
				return err
			}
			results[i] = recs
			emit(opts.Progress, Event{Document: task.doc.ID().String(), Status: StatusDone, Found: len(recs)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiags)
	for _, recs := range results {
		for _, r := range recs {
			bag.Add(r)
		}
	}
	bag.Sort()
	bag.Dedup()
	return bag, nil
}

// Document scans a single document, honouring the project's scan config,
// in-source pragmas, and the project suppression list.
func Document(ctx context.Context, p *workspace.Project, doc *workspace.Document) ([]diag.Record, error) {
	text, err := doc.Text(ctx)
	if err != nil {
		return nil, err
	}

	raw := checkDocument(doc.ID(), text, doc.Language(), p.Config().Scan.MaxLineLength)
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]diag.Record, 0, len(raw))
	for _, r := range raw {
		if suppressedInSource(r, text, doc) {
			continue
		}
		if suppressedInList(r, text, p) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// suppressedInSource reports whether a pragma on the flagged line, or on
// the line directly above it, covers the record's code.
func suppressedInSource(r diag.Record, text *source.Text, doc *workspace.Document) bool {
	line := text.LineOf(r.Span.Start)
	if pragma.Disables(text.Line(line), doc.Language(), r.Code) {
		return true
	}
	return line > 1 && pragma.Disables(text.Line(line-1), doc.Language(), r.Code)
}

func suppressedInList(r diag.Record, text *source.Text, p *workspace.Project) bool {
	entries := p.Suppressions()
	if len(entries) == 0 {
		return false
	}
	line := text.LineOf(r.Span.Start)
	hash := workspace.LineHash(text.Line(line))
	for _, e := range entries {
		if e.Matches(r.Document.Path, r.Code.ID(), hash) {
			return true
		}
	}
	return false
}
