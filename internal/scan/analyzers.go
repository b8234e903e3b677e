package scan

import (
	"fmt"
	"strings"

	"hush/internal/diag"
	"hush/internal/lang"
	"hush/internal/source"
	"hush/internal/workspace"
)

// defaultMaxLineLength applies when the project manifest does not set one.
const defaultMaxLineLength = 120

// debugCalls maps each language to the debug-print token the scanner
// flags. Tokens are chosen to be unambiguous in ordinary code.
var debugCalls = map[lang.Language]string{
	lang.LangGo:         "fmt.Println(",
	lang.LangTypeScript: "console.log(",
	lang.LangPython:     "breakpoint()",
}

type lineCheck struct {
	id    workspace.DocumentID
	text  *source.Text
	lang  lang.Language
	out   []diag.Record
	limit int
}

func (c *lineCheck) add(sev diag.Severity, code diag.Code, span source.Span, msg string) {
	c.out = append(c.out, diag.Record{
		Document: c.id,
		Severity: sev,
		Code:     code,
		Message:  msg,
		Span:     span,
	})
}

// checkDocument runs every analyzer over one document's text and returns
// the raw findings, before any suppression filtering.
func checkDocument(id workspace.DocumentID, text *source.Text, language lang.Language, maxLine int) []diag.Record {
	if maxLine <= 0 {
		maxLine = defaultMaxLineLength
	}
	c := &lineCheck{id: id, text: text, lang: language, limit: maxLine}

	lineCount := text.LineCount()
	for n := uint32(1); n <= lineCount; n++ {
		line := text.Line(n)
		start := text.LineStart(n)
		c.checkLine(n, line, start)
	}
	c.checkFinalNewline()
	return c.out
}

func (c *lineCheck) checkLine(n uint32, line string, start uint32) {
	lineLen := uint32(len(line))

	// Trailing whitespace.
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < len(line) {
		span := source.Span{Start: start + uint32(len(trimmed)), End: start + lineLen}
		c.add(diag.SevWarning, diag.StyleTrailingSpace, span, "trailing whitespace")
	}

	// Tab indentation. Gofmt mandates tabs, поэтому для Go не проверяем.
	if c.lang != lang.LangGo && strings.HasPrefix(line, "\t") {
		end := uint32(0)
		for end < lineLen && line[end] == '\t' {
			end++
		}
		span := source.Span{Start: start, End: start + end}
		c.add(diag.SevWarning, diag.StyleTabIndent, span, "tab used for indentation")
	}

	// Line length.
	if len(line) > c.limit {
		span := source.Span{Start: start + uint32(c.limit), End: start + lineLen}
		msg := fmt.Sprintf("line is %d characters, limit is %d", len(line), c.limit)
		c.add(diag.SevInfo, diag.StyleLongLine, span, msg)
	}

	// Work markers.
	if idx := strings.Index(line, "TODO"); idx >= 0 {
		span := source.Span{Start: start + uint32(idx), End: start + uint32(idx) + 4}
		c.add(diag.SevInfo, diag.NoteTodoMarker, span, "TODO marker")
	}
	if idx := strings.Index(line, "FIXME"); idx >= 0 {
		span := source.Span{Start: start + uint32(idx), End: start + uint32(idx) + 5}
		c.add(diag.SevWarning, diag.NoteFixmeMarker, span, "FIXME marker")
	}

	// Debug prints.
	if call, ok := debugCalls[c.lang]; ok {
		if idx := strings.Index(line, call); idx >= 0 {
			name := strings.TrimSuffix(call, "(")
			span := source.Span{Start: start + uint32(idx), End: start + uint32(idx+len(name))}
			c.add(diag.SevWarning, diag.DebugPrintCall, span, fmt.Sprintf("%s call left in code", name))
		}
	}
}

func (c *lineCheck) checkFinalNewline() {
	content := c.text.Content
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return
	}
	end := c.text.Len()
	span := source.Span{Start: end, End: end}
	c.add(diag.SevInfo, diag.StyleMissingEOFNL, span, "no newline at end of file")
}
