package suppress

import (
	"context"
	"testing"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/workspace"
)

func bind(t *testing.T, doc *workspace.Document, r diag.Record) diag.Diagnostic {
	t.Helper()
	d, err := r.Bind(context.Background(), doc)
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	return d
}

func TestCanSuppress(t *testing.T) {
	goDoc := newDoc("svc", "main.go", lang.LangGo, "fmt.Println(a)\n")
	pyDoc := newDoc("py", "app.py", lang.LangPython, "breakpoint()\n")
	goDiag := bind(t, goDoc, recordAt(goDoc, diag.DebugPrintCall, 0, 11))
	pyDiag := bind(t, pyDoc, recordAt(pyDoc, diag.DebugPrintCall, 0, 12))

	s := NewStrategy(lang.LangGo)
	if !s.CanSuppress([]diag.Diagnostic{goDiag}) {
		t.Fatalf("expected go strategy to accept a go diagnostic set")
	}
	if s.CanSuppress(nil) {
		t.Fatalf("expected empty set to be declined")
	}
	if s.CanSuppress([]diag.Diagnostic{goDiag, pyDiag}) {
		t.Fatalf("expected mixed-language set to be declined")
	}
}

func TestPragmaEditsInsertAboveFlaggedLine(t *testing.T) {
	content := "x := 1\nfmt.Println(x)\n"
	doc := newDoc("svc", "main.go", lang.LangGo, content)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", doc),
	})
	mapping := DocDiagnostics{
		doc: {bind(t, doc, recordAt(doc, diag.DebugPrintCall, 7, 18))},
	}

	set, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, mapping, KeyInSource)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	edits := set.Edits[doc.ID()]
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	e := edits[0]
	if e.Span.Start != 7 || e.Span.End != 7 {
		t.Fatalf("expected zero-width insert at line start 7, got %s", e.Span)
	}
	if e.NewText != "//hush:disable HS3001\n" {
		t.Fatalf("unexpected pragma text %q", e.NewText)
	}
	if set.EntryCount() != 0 {
		t.Fatalf("in-source fix must not add list entries, got %d", set.EntryCount())
	}
}

func TestPragmaEditsGroupCodesPerLine(t *testing.T) {
	// One line with both a debug call and a TODO marker.
	content := "fmt.Println(x) // TODO drop\n"
	doc := newDoc("svc", "main.go", lang.LangGo, content)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", doc),
	})
	mapping := DocDiagnostics{
		doc: {
			bind(t, doc, recordAt(doc, diag.DebugPrintCall, 0, 11)),
			bind(t, doc, recordAt(doc, diag.NoteTodoMarker, 18, 22)),
		},
	}

	set, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, mapping, KeyInSource)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	edits := set.Edits[doc.ID()]
	if len(edits) != 1 {
		t.Fatalf("expected both codes folded into one pragma, got %d edits", len(edits))
	}
	if edits[0].NewText != "//hush:disable HS2001,HS3001\n" {
		t.Fatalf("unexpected pragma text %q", edits[0].NewText)
	}
}

func TestPragmaEditsKeepIndentation(t *testing.T) {
	content := "def f():\n    breakpoint()\n"
	doc := newDoc("py", "app.py", lang.LangPython, content)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("py", lang.LangPython, "/ws/py", doc),
	})
	mapping := DocDiagnostics{
		doc: {bind(t, doc, recordAt(doc, diag.DebugPrintCall, 13, 25))},
	}

	set, err := NewStrategy(lang.LangPython).Provider().ComputeFix(context.Background(), snap, mapping, KeyInSource)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	edits := set.Edits[doc.ID()]
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].NewText != "    #hush:disable HS3001\n" {
		t.Fatalf("expected pragma to keep the flagged line's indentation, got %q", edits[0].NewText)
	}
}

func TestPragmaEditsSkipAlreadyCoveredLines(t *testing.T) {
	content := "//hush:disable HS3001\nfmt.Println(x)\n"
	doc := newDoc("svc", "main.go", lang.LangGo, content)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", doc),
	})
	mapping := DocDiagnostics{
		doc: {bind(t, doc, recordAt(doc, diag.DebugPrintCall, 22, 33))},
	}

	set, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, mapping, KeyInSource)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	if !set.Empty() {
		t.Fatalf("expected no edits for an already suppressed finding, got %d", set.EditCount())
	}
}

func TestListEntriesHashFlaggedLine(t *testing.T) {
	content := "fmt.Println(x)\n"
	doc := newDoc("svc", "main.go", lang.LangGo, content)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", doc),
	})
	mapping := DocDiagnostics{
		doc: {bind(t, doc, recordAt(doc, diag.DebugPrintCall, 0, 11))},
	}

	set, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, mapping, KeyInList)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	if set.EditCount() != 0 {
		t.Fatalf("list fix must not edit source text, got %d edits", set.EditCount())
	}
	entries := set.ListEntries["svc"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 list entry, got %d", len(entries))
	}
	expected := workspace.SuppressionEntry{
		Path: "main.go",
		Code: "HS3001",
		Hash: workspace.LineHash("fmt.Println(x)"),
	}
	if entries[0] != expected {
		t.Fatalf("expected entry %+v, got %+v", expected, entries[0])
	}
}

func TestListEntriesSkipExistingEntries(t *testing.T) {
	content := "fmt.Println(x)\n"
	existing := []workspace.SuppressionEntry{
		{Path: "main.go", Code: "HS3001", Hash: workspace.LineHash("fmt.Println(x)")},
	}
	doc := newDoc("svc", "main.go", lang.LangGo, content)
	p := workspace.NewProject("svc", "svc", lang.LangGo, "/ws/svc", []*workspace.Document{doc}, existing)
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{p})
	mapping := DocDiagnostics{
		doc: {bind(t, doc, recordAt(doc, diag.DebugPrintCall, 0, 11))},
	}

	set, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, mapping, KeyInList)
	if err != nil {
		t.Fatalf("ComputeFix returned error: %v", err)
	}
	if !set.Empty() {
		t.Fatalf("expected no additions for an already listed finding")
	}
}

func TestComputeFixRejectsUnknownKey(t *testing.T) {
	doc := newDoc("svc", "main.go", lang.LangGo, "fmt.Println(x)\n")
	snap := workspace.NewSnapshot("/ws", []*workspace.Project{
		newProject("svc", lang.LangGo, "/ws/svc", doc),
	})

	if _, err := NewStrategy(lang.LangGo).Provider().ComputeFix(context.Background(), snap, DocDiagnostics{}, "something-else"); err == nil {
		t.Fatalf("expected error for unknown equivalence key")
	}
}

func TestRegistrySuppressionFixer(t *testing.T) {
	registry := DefaultRegistry()
	goDoc := newDoc("svc", "main.go", lang.LangGo, "fmt.Println(a)\n")
	goDiag := bind(t, goDoc, recordAt(goDoc, diag.DebugPrintCall, 0, 11))

	if registry.SuppressionFixer(lang.LangGo, []diag.Diagnostic{goDiag}) == nil {
		t.Fatalf("expected a strategy for go")
	}
	if registry.SuppressionFixer(lang.LangMarkdown, []diag.Diagnostic{goDiag}) != nil {
		t.Fatalf("expected no strategy for markdown")
	}
	if registry.SuppressionFixer(lang.LangGo, nil) != nil {
		t.Fatalf("expected empty set to resolve no strategy")
	}
}
