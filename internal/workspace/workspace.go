package workspace

import (
	"sync/atomic"
)

// Workspace owns the single mutable reference of the whole model: the
// current snapshot. Reads and replacements are atomic pointer operations;
// the snapshot itself is never mutated in place.
type Workspace struct {
	current atomic.Pointer[Snapshot]
}

// New creates a workspace holding the given snapshot as current.
func New(snap *Snapshot) *Workspace {
	w := &Workspace{}
	w.current.Store(snap)
	return w
}

// Current returns the current snapshot.
func (w *Workspace) Current() *Snapshot {
	return w.current.Load()
}

// Commit replaces old with next and reports whether the swap happened.
// The swap fails when the current snapshot is no longer old, i.e. someone
// committed in between; callers must then re-read Current and recompute.
func (w *Workspace) Commit(old, next *Snapshot) bool {
	if old == next {
		return false
	}
	return w.current.CompareAndSwap(old, next)
}
