package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hush/internal/lang"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDiscoverSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"svc\"\nlanguage = \"go\"\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "nested", "util.go"), "package nested\n")
	writeFile(t, filepath.Join(root, "README.txt"), "not a source file\n")

	snap, err := Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	projects := snap.Projects()
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	p := projects[0]
	if p.ID() != "." {
		t.Fatalf("expected root project ID %q, got %q", ".", p.ID())
	}
	if p.Name() != "svc" {
		t.Fatalf("expected project name svc, got %q", p.Name())
	}
	if p.Language() != lang.LangGo {
		t.Fatalf("expected language go, got %s", p.Language())
	}

	docs := p.Documents()
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID().Path != "main.go" || docs[1].ID().Path != "nested/util.go" {
		t.Fatalf("unexpected document paths: %s, %s", docs[0].ID().Path, docs[1].ID().Path)
	}
}

func TestDiscoverNestedProjectsOwnTheirFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"top\"\nlanguage = \"go\"\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "web", "hush.toml"), "[project]\nname = \"web\"\nlanguage = \"typescript\"\n")
	writeFile(t, filepath.Join(root, "web", "app.ts"), "const a = 1;\n")

	snap, err := Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	projects := snap.Projects()
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}

	top := snap.Project(".")
	if top == nil {
		t.Fatalf("expected root project")
	}
	for _, doc := range top.Documents() {
		if filepath.Dir(doc.ID().Path) == "web" {
			t.Fatalf("root project must not own nested project files: %s", doc.ID().Path)
		}
	}

	web := snap.Project("web")
	if web == nil {
		t.Fatalf("expected nested project")
	}
	if web.Language() != lang.LangTypeScript {
		t.Fatalf("expected typescript, got %s", web.Language())
	}
	if len(web.Documents()) != 1 || web.Documents()[0].ID().Path != "app.ts" {
		t.Fatalf("unexpected nested project documents: %v", web.Documents())
	}
}

func TestDiscoverHonorsExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"svc\"\nlanguage = \"go\"\n\n[scan]\nexclude = [\"*_gen.go\"]\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "types_gen.go"), "package main\n")

	snap, err := Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	docs := snap.Project(".").Documents()
	if len(docs) != 1 || docs[0].ID().Path != "main.go" {
		t.Fatalf("expected only main.go, got %v", docs)
	}
}

func TestDiscoverSkipsToolDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"svc\"\nlanguage = \"go\"\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "vendor", "dep.go"), "package dep\n")
	writeFile(t, filepath.Join(root, ".git", "hook.go"), "package hook\n")

	snap, err := Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	docs := snap.Project(".").Documents()
	if len(docs) != 1 || docs[0].ID().Path != "main.go" {
		t.Fatalf("expected vendor and dot directories to be skipped, got %v", docs)
	}
}

func TestDiscoverLoadsSuppressionList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"svc\"\nlanguage = \"go\"\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, SuppressionsFileName), "[[suppression]]\npath = \"main.go\"\ncode = \"HS3001\"\n")

	snap, err := Discover(context.Background(), root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	entries := snap.Project(".").Suppressions()
	if len(entries) != 1 {
		t.Fatalf("expected 1 suppression entry, got %d", len(entries))
	}
	if entries[0].Path != "main.go" || entries[0].Code != "HS3001" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestDiscoverWithoutManifestFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	if _, err := Discover(context.Background(), root); err == nil {
		t.Fatalf("expected error for workspace without manifest")
	}
}

func TestFindRootWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hush.toml"), "[project]\nname = \"svc\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	found, ok, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	resolved, err := filepath.EvalSymlinks(found)
	if err != nil {
		t.Fatalf("failed to resolve found root: %v", err)
	}
	expected, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("failed to resolve temp root: %v", err)
	}
	if resolved != expected {
		t.Fatalf("expected root %q, got %q", expected, resolved)
	}
}
