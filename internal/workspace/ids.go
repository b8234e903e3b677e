package workspace

import (
	"fmt"
)

type (
	// ProjectID uniquely identifies a project across snapshots. It is the
	// project root path relative to the workspace root ("." for the root
	// project), so the same logical project keeps its ID from snapshot to
	// snapshot.
	ProjectID string
)

// DocumentID identifies the same logical document across snapshots: the
// owning project plus the document path relative to the project root.
type DocumentID struct {
	Project ProjectID
	Path    string
}

func (id DocumentID) String() string {
	return fmt.Sprintf("%s:%s", id.Project, id.Path)
}
