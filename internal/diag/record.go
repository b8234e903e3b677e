package diag

import (
	"context"
	"errors"

	"hush/internal/source"
	"hush/internal/workspace"
)

// ErrSpanOutOfRange is returned by Bind when a cached record no longer
// fits the document it points at.
var ErrSpanOutOfRange = errors.New("diag: span out of range")

// Record is a raw, snapshot-independent finding. It references the owning
// project and document by their stable identifiers only, so it survives
// snapshot replacement and can be cached between runs.
type Record struct {
	Document workspace.DocumentID
	Severity Severity
	Code     Code
	Message  string
	Span     source.Span
}

// Diagnostic is a Record bound to one document of one snapshot. It is
// derived freshly each suppression round and discarded after use.
type Diagnostic struct {
	Record
	Doc *workspace.Document
}

// Bind resolves the record against a concrete document, validating the
// span against the document's current text. Binding needs the parsed text
// and is therefore cancellable. A record whose span no longer fits the
// document fails to bind.
func (r Record) Bind(ctx context.Context, doc *workspace.Document) (Diagnostic, error) {
	text, err := doc.Text(ctx)
	if err != nil {
		return Diagnostic{}, err
	}
	if r.Span.Start > r.Span.End || r.Span.End > text.Len() {
		return Diagnostic{}, ErrSpanOutOfRange
	}
	return Diagnostic{Record: r, Doc: doc}, nil
}
