package suppress

import (
	"hush/internal/source"
	"hush/internal/workspace"
)

// TextEdit replaces a span of one document with new text. OldText, when
// non-empty, guards the edit: it must match the current content of the
// span or the edit is rejected.
type TextEdit struct {
	Doc     workspace.DocumentID
	Span    source.Span
	NewText string
	OldText string
}

// EditSet is one aggregated multi-document change: text edits grouped by
// document plus suppression-list additions grouped by project. A single
// EditSet is applied and committed as one snapshot replacement.
type EditSet struct {
	Edits       map[workspace.DocumentID][]TextEdit
	ListEntries map[workspace.ProjectID][]workspace.SuppressionEntry
}

func NewEditSet() *EditSet {
	return &EditSet{
		Edits:       make(map[workspace.DocumentID][]TextEdit),
		ListEntries: make(map[workspace.ProjectID][]workspace.SuppressionEntry),
	}
}

// Add appends a text edit for its document.
func (e *EditSet) Add(edit TextEdit) {
	e.Edits[edit.Doc] = append(e.Edits[edit.Doc], edit)
}

// AddListEntry appends a suppression-list entry for a project.
func (e *EditSet) AddListEntry(pid workspace.ProjectID, entry workspace.SuppressionEntry) {
	e.ListEntries[pid] = append(e.ListEntries[pid], entry)
}

// Empty reports whether the set changes nothing.
func (e *EditSet) Empty() bool {
	if e == nil {
		return true
	}
	return len(e.Edits) == 0 && len(e.ListEntries) == 0
}

// EditCount returns the total number of text edits.
func (e *EditSet) EditCount() int {
	n := 0
	for _, edits := range e.Edits {
		n += len(edits)
	}
	return n
}

// EntryCount returns the total number of suppression-list additions.
func (e *EditSet) EntryCount() int {
	n := 0
	for _, entries := range e.ListEntries {
		n += len(entries)
	}
	return n
}
