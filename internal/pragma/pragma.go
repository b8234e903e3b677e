// Package pragma defines the in-source suppression marker shared by the
// scanner (which honours it) and the suppression engine (which inserts it).
package pragma

import (
	"strings"

	"hush/internal/diag"
	"hush/internal/lang"
)

// Marker introduces an in-source suppression. A pragma suppresses the
// listed codes on the line it annotates: either the same line (trailing
// comment) or the line directly below a standalone pragma comment.
const Marker = "hush:disable"

// Format renders a standalone pragma comment for the language, without
// indentation or trailing newline. Returns "" when the language has no
// line comments.
func Format(language lang.Language, codes []string) string {
	prefix := language.LineCommentPrefix()
	if prefix == "" || len(codes) == 0 {
		return ""
	}
	return prefix + Marker + " " + strings.Join(codes, ",")
}

// Codes returns the diagnostic code IDs listed in the line's pragma, or
// nil when the line carries none. A pragma must appear inside a line
// comment of the given language.
func Codes(line string, language lang.Language) []string {
	prefix := language.LineCommentPrefix()
	if prefix == "" {
		return nil
	}
	idx := strings.Index(line, Marker)
	if idx < 0 {
		return nil
	}
	if !strings.Contains(line[:idx], prefix) {
		return nil
	}

	rest := line[idx+len(Marker):]
	rest = strings.TrimLeft(rest, "= \t")
	if end := strings.IndexAny(rest, " \t"); end >= 0 {
		rest = rest[:end]
	}

	var out []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, strings.ToUpper(part))
	}
	return out
}

// Disables reports whether the line's pragma (if any) covers the code.
// An empty code list ("hush:disable" alone) covers everything.
func Disables(line string, language lang.Language, code diag.Code) bool {
	idx := strings.Index(line, Marker)
	if idx < 0 {
		return false
	}
	codes := Codes(line, language)
	if codes == nil {
		// Marker present but not in a comment, or list unparsable.
		prefix := language.LineCommentPrefix()
		if prefix == "" || !strings.Contains(line[:idx], prefix) {
			return false
		}
		return true
	}
	if len(codes) == 0 {
		return true
	}
	for _, c := range codes {
		if c == code.ID() {
			return true
		}
	}
	return false
}
