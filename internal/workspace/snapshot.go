package workspace

import (
	"sort"

	"hush/internal/lang"
)

// Project is one buildable unit inside a snapshot: a language tag, a set
// of documents, an optional hierarchy handle (the absolute project root,
// used to scope suppression runs to a subtree), and the project's external
// suppression entries.
type Project struct {
	id           ProjectID
	name         string
	language     lang.Language
	handle       string
	docs         map[string]*Document
	order        []string
	suppressions []SuppressionEntry
	manifest     Manifest
}

// NewProject builds a project from its documents. Document order is made
// deterministic by path.
func NewProject(id ProjectID, name string, language lang.Language, handle string, docs []*Document, suppressions []SuppressionEntry) *Project {
	p := &Project{
		id:           id,
		name:         name,
		language:     language,
		handle:       handle,
		docs:         make(map[string]*Document, len(docs)),
		order:        make([]string, 0, len(docs)),
		suppressions: suppressions,
	}
	for _, d := range docs {
		if _, ok := p.docs[d.id.Path]; ok {
			continue
		}
		p.docs[d.id.Path] = d
		p.order = append(p.order, d.id.Path)
	}
	sort.Strings(p.order)
	return p
}

func (p *Project) ID() ProjectID           { return p.id }
func (p *Project) Name() string            { return p.name }
func (p *Project) Language() lang.Language { return p.language }

// Handle returns the project's hierarchy handle (its absolute root path),
// or "" when the project has none.
func (p *Project) Handle() string { return p.handle }

// Config returns the decoded project manifest.
func (p *Project) Config() Manifest { return p.manifest }

// Document returns the document with the given project-relative path.
func (p *Project) Document(path string) *Document {
	return p.docs[path]
}

// Documents returns all documents in deterministic path order.
func (p *Project) Documents() []*Document {
	out := make([]*Document, 0, len(p.order))
	for _, path := range p.order {
		out = append(out, p.docs[path])
	}
	return out
}

// Suppressions returns the project's external suppression entries.
// Не модифицируйте возвращаемый срез.
func (p *Project) Suppressions() []SuppressionEntry {
	return p.suppressions
}

// clone returns a shallow copy sharing documents with the receiver.
func (p *Project) clone() *Project {
	docs := make(map[string]*Document, len(p.docs))
	for k, v := range p.docs {
		docs[k] = v
	}
	order := append([]string(nil), p.order...)
	supp := append([]SuppressionEntry(nil), p.suppressions...)
	return &Project{
		id:           p.id,
		name:         p.name,
		language:     p.language,
		handle:       p.handle,
		docs:         docs,
		order:        order,
		suppressions: supp,
		manifest:     p.manifest,
	}
}

// Snapshot is the immutable whole-workspace state at one point in time.
// Snapshots are compared by pointer identity: two snapshots are "the same
// state" only when they are the same value. Any mutation goes through the
// With* builders, which return a new Snapshot and leave the receiver
// intact; unchanged projects and documents are shared between versions.
type Snapshot struct {
	root     string
	projects map[ProjectID]*Project
	order    []ProjectID
}

// NewSnapshot builds a snapshot from projects. Project order is made
// deterministic by ID.
func NewSnapshot(root string, projects []*Project) *Snapshot {
	s := &Snapshot{
		root:     root,
		projects: make(map[ProjectID]*Project, len(projects)),
		order:    make([]ProjectID, 0, len(projects)),
	}
	for _, p := range projects {
		if _, ok := s.projects[p.id]; ok {
			continue
		}
		s.projects[p.id] = p
		s.order = append(s.order, p.id)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
	return s
}

// Root returns the absolute workspace root directory.
func (s *Snapshot) Root() string { return s.root }

// Project returns the project with the given ID, or nil.
func (s *Snapshot) Project(id ProjectID) *Project {
	return s.projects[id]
}

// Projects returns all projects in deterministic ID order.
func (s *Snapshot) Projects() []*Project {
	out := make([]*Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.projects[id])
	}
	return out
}

// Document resolves a DocumentID against this snapshot, or returns nil
// when either the project or the document is gone.
func (s *Snapshot) Document(id DocumentID) *Document {
	p := s.projects[id.Project]
	if p == nil {
		return nil
	}
	return p.docs[id.Path]
}

// WithDocumentContents returns a new snapshot where the given documents
// carry new content. Documents that do not resolve are ignored. Projects
// without changed documents are shared with the receiver.
func (s *Snapshot) WithDocumentContents(changes map[DocumentID][]byte) *Snapshot {
	if len(changes) == 0 {
		return s
	}
	next := s.shallowClone()
	touched := make(map[ProjectID]*Project)
	for id, content := range changes {
		p := next.projects[id.Project]
		if p == nil {
			continue
		}
		doc := p.docs[id.Path]
		if doc == nil {
			continue
		}
		if touched[id.Project] == nil {
			p = p.clone()
			touched[id.Project] = p
			next.projects[id.Project] = p
		} else {
			p = touched[id.Project]
		}
		p.docs[id.Path] = doc.withContent(content)
	}
	return next
}

// WithSuppressions returns a new snapshot where the given projects carry
// additional external suppression entries. Unknown projects are ignored.
func (s *Snapshot) WithSuppressions(additions map[ProjectID][]SuppressionEntry) *Snapshot {
	if len(additions) == 0 {
		return s
	}
	next := s.shallowClone()
	for pid, entries := range additions {
		p := next.projects[pid]
		if p == nil || len(entries) == 0 {
			continue
		}
		p = p.clone()
		p.suppressions = append(p.suppressions, entries...)
		next.projects[pid] = p
	}
	return next
}

func (s *Snapshot) shallowClone() *Snapshot {
	projects := make(map[ProjectID]*Project, len(s.projects))
	for k, v := range s.projects {
		projects[k] = v
	}
	return &Snapshot{
		root:     s.root,
		projects: projects,
		order:    append([]ProjectID(nil), s.order...),
	}
}
