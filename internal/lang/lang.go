package lang

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language tags a project with its source language.
type Language uint8

const (
	// LangUnknown marks projects whose language could not be determined.
	LangUnknown Language = iota
	LangGo
	LangPython
	LangTypeScript
	LangMarkdown
)

var titleCaser = cases.Title(language.English)

func (l Language) String() string {
	switch l {
	case LangGo:
		return "go"
	case LangPython:
		return "python"
	case LangTypeScript:
		return "typescript"
	case LangMarkdown:
		return "markdown"
	}
	return "unknown"
}

// DisplayName returns the human-readable language name used in labels.
func (l Language) DisplayName() string {
	switch l {
	case LangGo:
		return "Go"
	case LangTypeScript:
		return "TypeScript"
	default:
		return titleCaser.String(l.String())
	}
}

// Fixable reports whether bulk suppression fixes are supported for the
// language. Non-fixable languages can still be scanned, but their
// diagnostics are excluded from any scoped suppression run.
func (l Language) Fixable() bool {
	switch l {
	case LangGo, LangPython, LangTypeScript:
		return true
	}
	return false
}

// LineCommentPrefix returns the token that starts a line comment, or ""
// when the language has no line comments.
func (l Language) LineCommentPrefix() string {
	switch l {
	case LangGo, LangTypeScript:
		return "//"
	case LangPython:
		return "#"
	}
	return ""
}

// FromName maps a manifest language name to a Language tag.
func FromName(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "go", "golang":
		return LangGo
	case "python", "py":
		return LangPython
	case "typescript", "ts":
		return LangTypeScript
	case "markdown", "md":
		return LangMarkdown
	}
	return LangUnknown
}

// FromExtension maps a file extension (with or without the leading dot)
// to a Language tag.
func FromExtension(ext string) Language {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "go":
		return LangGo
	case "py":
		return LangPython
	case "ts", "tsx":
		return LangTypeScript
	case "md":
		return LangMarkdown
	}
	return LangUnknown
}

// Extensions returns the file extensions (without dot) owned by the language.
func (l Language) Extensions() []string {
	switch l {
	case LangGo:
		return []string{"go"}
	case LangPython:
		return []string{"py"}
	case LangTypeScript:
		return []string{"ts", "tsx"}
	case LangMarkdown:
		return []string{"md"}
	}
	return nil
}

// All returns every known language in declaration order.
func All() []Language {
	return []Language{LangGo, LangPython, LangTypeScript, LangMarkdown}
}
