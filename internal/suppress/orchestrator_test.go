package suppress

import (
	"context"
	"errors"
	"testing"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/ui"
	"hush/internal/workspace"
)

// sliceSource serves a fixed record slice and remembers the selection it
// was asked for.
type sliceSource struct {
	records []diag.Record
	lastSel Selection
	asked   bool
}

func (s *sliceSource) Items(ctx context.Context, sel Selection) ([]diag.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.lastSel = sel
	s.asked = true
	return s.records, nil
}

// recordingExecutor captures every request and commits a marker snapshot
// change per group, the way the real executor replaces the snapshot.
// declineAt (1-based) makes that request commit nothing, simulating a
// declined preview.
type recordingExecutor struct {
	requests  []Request
	declineAt int
}

func (e *recordingExecutor) ComputeAndApply(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.requests = append(e.requests, req)
	if len(e.requests) == e.declineAt {
		return nil
	}
	old := req.Workspace.Current()
	for doc := range req.Mapping {
		next := old.WithSuppressions(map[workspace.ProjectID][]workspace.SuppressionEntry{
			doc.ID().Project: {{Path: doc.ID().Path, Code: "HS0000"}},
		})
		req.Workspace.Commit(old, next)
		break
	}
	return nil
}

type orchestratorFixture struct {
	ws     *workspace.Workspace
	snap   *workspace.Snapshot
	goDoc  *workspace.Document
	pyDoc  *workspace.Document
	tsDoc  *workspace.Document
	source *sliceSource
}

func newOrchestratorFixture() *orchestratorFixture {
	goDoc := newDoc("svc", "main.go", lang.LangGo, "fmt.Println(a)\n")
	pyDoc := newDoc("py", "app.py", lang.LangPython, "breakpoint()\n")
	tsDoc := newDoc("web", "app.ts", lang.LangTypeScript, "console.log(a);\n")
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", goDoc),
		newProject("py", lang.LangPython, "/ws/py", pyDoc),
		newProject("web", lang.LangTypeScript, "/ws/web", tsDoc),
	})
	return &orchestratorFixture{
		ws:    workspace.New(snap),
		snap:  snap,
		goDoc: goDoc,
		pyDoc: pyDoc,
		tsDoc: tsDoc,
		source: &sliceSource{records: []diag.Record{
			recordAt(goDoc, diag.DebugPrintCall, 0, 11),
			recordAt(pyDoc, diag.DebugPrintCall, 0, 12),
			recordAt(tsDoc, diag.DebugPrintCall, 0, 11),
		}},
	}
}

func TestApplySuppressionsNilSourceIsANoop(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, nil, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 0 {
		t.Fatalf("expected no executor calls, got %d", len(exec.requests))
	}
	if f.ws.Current() != f.snap {
		t.Fatalf("expected workspace untouched")
	}
}

func TestApplySuppressionsEmptySelectionIsANoop(t *testing.T) {
	f := newOrchestratorFixture()
	f.source.records = nil
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 0 {
		t.Fatalf("expected no executor calls for empty selection, got %d", len(exec.requests))
	}
	if f.ws.Current() != f.snap {
		t.Fatalf("expected workspace untouched")
	}
}

func TestApplySuppressionsForwardsSelection(t *testing.T) {
	f := newOrchestratorFixture()
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), &recordingExecutor{}, nil)

	if err := orch.ApplySuppressions(ApplyOptions{SelectedOnly: true, InSource: false}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if !f.source.asked {
		t.Fatalf("expected the selection source to be queried")
	}
	sel := f.source.lastSel
	if !sel.SelectedOnly || !sel.IsAdd || sel.InSource {
		t.Fatalf("unexpected selection %+v", sel)
	}
}

func TestApplySuppressionsPartitionsByLanguage(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 3 {
		t.Fatalf("expected one request per language, got %d", len(exec.requests))
	}

	// Группы идут в стабильном порядке имён языков.
	expected := []lang.Language{lang.LangGo, lang.LangPython, lang.LangTypeScript}
	for i, language := range expected {
		req := exec.requests[i]
		if req.Strategy.Language() != language {
			t.Fatalf("request %d: expected language %s, got %s", i, language, req.Strategy.Language())
		}
		if req.EquivalenceKey != KeyInSource {
			t.Fatalf("request %d: expected key %q, got %q", i, KeyInSource, req.EquivalenceKey)
		}
		for doc := range req.Mapping {
			if doc.Language() != language {
				t.Fatalf("request %d: document %s does not belong to the %s group", i, doc.ID(), language)
			}
		}
	}
}

func TestApplySuppressionsUsesListKey(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: false}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	for i, req := range exec.requests {
		if req.EquivalenceKey != KeyInList {
			t.Fatalf("request %d: expected key %q, got %q", i, KeyInList, req.EquivalenceKey)
		}
	}
}

func TestApplySuppressionsLabelsMultiLanguageGroups(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if got := exec.requests[0].Title; got != "Add suppressions for Go" {
		t.Fatalf("expected per-language title, got %q", got)
	}
	if got := exec.requests[2].Title; got != "Add suppressions for TypeScript" {
		t.Fatalf("expected per-language title, got %q", got)
	}
}

func TestApplySuppressionsSingleLanguageKeepsPlainLabel(t *testing.T) {
	f := newOrchestratorFixture()
	f.source.records = f.source.records[:1] // go only
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(exec.requests))
	}
	if exec.requests[0].Title != "Add suppressions" {
		t.Fatalf("expected plain title for single-language run, got %q", exec.requests[0].Title)
	}
}

func TestApplySuppressionsScopeRestrictsProjects(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true, Scope: "/ws/py"}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 1 {
		t.Fatalf("expected only the scoped project's group, got %d requests", len(exec.requests))
	}
	if exec.requests[0].Strategy.Language() != lang.LangPython {
		t.Fatalf("expected python group, got %s", exec.requests[0].Strategy.Language())
	}
}

func TestApplySuppressionsUnknownScopeMatchesNothing(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true, Scope: "/nowhere"}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 0 {
		t.Fatalf("expected no requests for unknown scope, got %d", len(exec.requests))
	}
	if f.ws.Current() != f.snap {
		t.Fatalf("expected workspace untouched")
	}
}

func TestApplySuppressionsSkipsLanguagesWithoutStrategy(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	registry := NewRegistry()
	registry.Register(NewStrategy(lang.LangPython))
	orch := NewOrchestrator(f.ws, f.source, registry, exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	// Go sorts before python; its missing strategy must not stop the run.
	if len(exec.requests) != 1 {
		t.Fatalf("expected exactly the python group, got %d requests", len(exec.requests))
	}
	if exec.requests[0].Strategy.Language() != lang.LangPython {
		t.Fatalf("expected python group, got %s", exec.requests[0].Strategy.Language())
	}
}

func TestApplySuppressionsDeclineStopsRemainingGroups(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{declineAt: 2}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("declined preview must not be an error, got %v", err)
	}
	if len(exec.requests) != 2 {
		t.Fatalf("expected processing to stop after the declined group, got %d requests", len(exec.requests))
	}
	// Первая группа уже закоммичена и должна остаться.
	if f.ws.Current() == f.snap {
		t.Fatalf("expected the first group's commit to stay")
	}
	if got := f.ws.Current().Project("svc").Suppressions(); len(got) != 1 {
		t.Fatalf("expected committed marker entry to survive, got %d", len(got))
	}
}

// remapExecutor rewrites the python document while committing the go
// group, so the python group must be rebound against the new snapshot.
type remapExecutor struct {
	recordingExecutor
	pyID workspace.DocumentID
}

func (e *remapExecutor) ComputeAndApply(ctx context.Context, req Request) error {
	e.requests = append(e.requests, req)
	old := req.Workspace.Current()
	var next *workspace.Snapshot
	if len(e.requests) == 1 {
		next = old.WithDocumentContents(map[workspace.DocumentID][]byte{
			e.pyID: []byte("breakpoint()  \n"),
		})
	} else {
		for doc := range req.Mapping {
			next = old.WithSuppressions(map[workspace.ProjectID][]workspace.SuppressionEntry{
				doc.ID().Project: {{Path: doc.ID().Path, Code: "HS0000"}},
			})
			break
		}
	}
	req.Workspace.Commit(old, next)
	return nil
}

func TestApplySuppressionsRemapsAgainstCommittedSnapshot(t *testing.T) {
	f := newOrchestratorFixture()
	f.source.records = f.source.records[:2] // go + python
	exec := &remapExecutor{pyID: f.pyDoc.ID()}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, nil)

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("ApplySuppressions returned error: %v", err)
	}
	if len(exec.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(exec.requests))
	}

	second := exec.requests[1].Mapping
	if len(second) != 1 {
		t.Fatalf("expected 1 document in the second group, got %d", len(second))
	}
	for doc, diags := range second {
		if doc == f.pyDoc {
			t.Fatalf("expected the python group rebound to the committed snapshot's document")
		}
		text, err := doc.Text(context.Background())
		if err != nil {
			t.Fatalf("Text returned error: %v", err)
		}
		if string(text.Content) != "breakpoint()  \n" {
			t.Fatalf("expected rebinding against the rewritten content, got %q", text.Content)
		}
		for _, d := range diags {
			if d.Doc != doc {
				t.Fatalf("expected diagnostics bound to the fresh document")
			}
		}
	}
}

// canceledRunner hands the operation an already canceled context, the way
// a user interrupt would.
type canceledRunner struct{}

func (canceledRunner) Run(title, message string, cancellable bool, fn func(ctx context.Context) error) (ui.Outcome, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fn(ctx)
	if errors.Is(err, context.Canceled) {
		return ui.OutcomeCanceled, nil
	}
	return ui.OutcomeCompleted, err
}

func TestApplySuppressionsCancellationLeavesSnapshot(t *testing.T) {
	f := newOrchestratorFixture()
	exec := &recordingExecutor{}
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), exec, canceledRunner{})

	if err := orch.ApplySuppressions(ApplyOptions{InSource: true}); err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if len(exec.requests) != 0 {
		t.Fatalf("expected no executor calls under cancellation, got %d", len(exec.requests))
	}
	if f.ws.Current() != f.snap {
		t.Fatalf("cancellation must leave the current snapshot identical")
	}
}

func TestRemoveSuppressionsIsSilentNoop(t *testing.T) {
	f := newOrchestratorFixture()
	orch := NewOrchestrator(f.ws, f.source, DefaultRegistry(), &recordingExecutor{}, nil)

	if err := orch.RemoveSuppressions(RemoveOptions{}); err != nil {
		t.Fatalf("RemoveSuppressions returned error: %v", err)
	}
	if f.ws.Current() != f.snap {
		t.Fatalf("expected workspace untouched")
	}
}
