package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// TextFlags encodes metadata about a document's text.
type TextFlags uint8

const (
	// TextVirtual indicates the text was added from memory (test, stdin, etc.).
	TextVirtual TextFlags = 1 << iota
	TextHadBOM
	TextNormalizedCRLF
)

// Text is an immutable parsed representation of one document's content:
// normalized bytes, a newline index for offset/position resolution, and a
// content hash. A Text is never mutated after construction; edits produce
// a new Text.
type Text struct {
	Content []byte
	LineIdx []uint32 // byte offset of every '\n'
	Hash    [32]byte
	Flags   TextFlags
}

// New normalizes content (BOM removal, CRLF folding), builds the line
// index, and computes the content hash.
func New(content []byte) *Text {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := TextFlags(0)
	if hadBOM {
		flags |= TextHadBOM
	}
	if hadCRLF {
		flags |= TextNormalizedCRLF
	}
	return NewWithFlags(content, flags)
}

// NewVirtual builds a Text from in-memory content with the TextVirtual flag.
func NewVirtual(content []byte) *Text {
	t := New(content)
	t.Flags |= TextVirtual
	return t
}

// NewWithFlags builds a Text from already-normalized content.
func NewWithFlags(content []byte, flags TextFlags) *Text {
	return &Text{
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Len returns the content length in bytes.
func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// LineCount returns the number of lines; empty content counts as one line.
func (t *Text) LineCount() uint32 {
	lenIdx, err := safecast.Conv[uint32](len(t.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	if len(t.Content) > 0 && t.Content[len(t.Content)-1] != '\n' {
		return lenIdx + 1
	}
	if lenIdx == 0 {
		return 1
	}
	return lenIdx
}

// LineCol converts a byte offset into a 1-based line/column position.
func (t *Text) LineCol(off uint32) LineCol {
	return toLineCol(t.LineIdx, off)
}

// Resolve converts a span into line/column positions.
func (t *Text) Resolve(span Span) (start, end LineCol) {
	return toLineCol(t.LineIdx, span.Start), toLineCol(t.LineIdx, span.End)
}

// LineStart returns the byte offset of the first character of lineNum
// (1-based). Offsets past the last line clamp to the content length.
func (t *Text) LineStart(lineNum uint32) uint32 {
	if lineNum <= 1 {
		return 0
	}
	lenIdx := uint32(len(t.LineIdx))
	if lineNum-2 < lenIdx {
		return t.LineIdx[lineNum-2] + 1
	}
	return t.Len()
}

// LineOf returns the 1-based line number containing the byte offset.
func (t *Text) LineOf(off uint32) uint32 {
	return toLineCol(t.LineIdx, off).Line
}

// Line returns the content of lineNum (1-based) without the trailing
// newline. Missing lines yield the empty string.
func (t *Text) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end uint32
	lenIdx := uint32(len(t.LineIdx))
	lenContent := t.Len()

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenIdx:
		start = t.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenIdx {
		end = t.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(t.Content[start:end])
}

// Indentation returns the leading whitespace of lineNum (1-based).
func (t *Text) Indentation(lineNum uint32) string {
	line := t.Line(lineNum)
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// Slice returns the bytes covered by span, or "" when out of range.
func (t *Text) Slice(span Span) string {
	if span.Start > span.End || span.End > t.Len() {
		return ""
	}
	return string(t.Content[span.Start:span.End])
}
