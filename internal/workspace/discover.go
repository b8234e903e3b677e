package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"

	"hush/internal/lang"
	"hush/internal/source"
)

// Discover builds the initial snapshot for the workspace rooted at root.
// Every directory carrying a hush.toml (including root itself) becomes a
// project; files are assigned to the nearest enclosing project and
// filtered to the project's language extensions and exclude globs.
// Projects load in parallel; the documents of one project load
// sequentially in path order.
func Discover(ctx context.Context, root string) (*Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve root: %w", err)
	}

	dirs, err := manifestDirs(absRoot)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("workspace: no %s found under %s", ManifestFileName, absRoot)
	}

	isProjectDir := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		isProjectDir[d] = true
	}

	projects := make([]*Project, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, dir := range dirs {
		g.Go(func() error {
			p, err := loadProject(gctx, absRoot, dir, isProjectDir)
			if err != nil {
				return err
			}
			projects[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewSnapshot(absRoot, projects), nil
}

// manifestDirs returns every directory under root containing a manifest,
// sorted for deterministic project order.
func manifestDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippableDir(d.Name()) {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, ManifestFileName)); err == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func loadProject(ctx context.Context, root, dir string, isProjectDir map[string]bool) (*Project, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	var m Manifest
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		return nil, fmt.Errorf("workspace: decode %s: %w", manifestPath, err)
	}

	id := projectID(root, dir)
	name := m.Project.Name
	if name == "" {
		name = filepath.Base(dir)
	}
	language := lang.FromName(m.Project.Language)

	paths, err := projectFiles(dir, language, m.Scan.Exclude, isProjectDir)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// #nosec G304 -- paths come from the workspace walk above
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("workspace: read %s: %w", rel, err)
		}
		docID := DocumentID{Project: id, Path: rel}
		docs = append(docs, NewDocument(docID, language, content))
	}

	suppressions, err := LoadSuppressions(dir)
	if err != nil {
		return nil, err
	}

	p := NewProject(id, name, language, dir, docs, suppressions)
	p.manifest = m
	return p, nil
}

// projectFiles returns project-relative slash paths of the project's
// source files, sorted.
func projectFiles(dir string, language lang.Language, exclude []string, isProjectDir map[string]bool) ([]string, error) {
	exts := make(map[string]bool)
	for _, e := range language.Extensions() {
		exts["."+e] = true
	}
	if len(exts) == 0 {
		return nil, nil
	}

	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if skippableDir(d.Name()) || isProjectDir[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = source.NormalizePath(rel)
		if excluded(rel, exclude) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

func excluded(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

func skippableDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "__pycache__", "dist", "target":
		return true
	}
	return false
}

func projectID(root, dir string) ProjectID {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return ProjectID(source.NormalizePath(dir))
	}
	return ProjectID(source.NormalizePath(rel))
}
