package workspace

import (
	"context"
	"sync"

	"hush/internal/lang"
	"hush/internal/source"
)

// Document is one file inside a project, bound to exactly one snapshot.
// The value is immutable; a content change produces a new Document (with
// the same DocumentID) in a new snapshot. The parsed text representation
// is built lazily on first access.
type Document struct {
	id       DocumentID
	language lang.Language
	raw      []byte

	once sync.Once
	text *source.Text
}

// NewDocument creates a document from raw (unnormalized) content.
func NewDocument(id DocumentID, language lang.Language, content []byte) *Document {
	return &Document{
		id:       id,
		language: language,
		raw:      content,
	}
}

// ID returns the snapshot-stable document identifier.
func (d *Document) ID() DocumentID {
	return d.id
}

// Language returns the owning project's language tag.
func (d *Document) Language() lang.Language {
	return d.language
}

// Text returns the parsed text representation of the document. Parsing is
// lazy and cached; the context allows callers to bail out before the work
// starts.
func (d *Document) Text(ctx context.Context) (*source.Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.once.Do(func() {
		d.text = source.New(d.raw)
	})
	return d.text, nil
}

// withContent returns a fresh Document carrying the same identity but new
// content. Used when building the successor snapshot after an edit.
func (d *Document) withContent(content []byte) *Document {
	return NewDocument(d.id, d.language, content)
}
