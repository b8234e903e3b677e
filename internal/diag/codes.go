package diag

import (
	"fmt"
	"strconv"
	"strings"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Whitespace and layout
	StyleTrailingSpace Code = 1001
	StyleTabIndent     Code = 1002
	StyleLongLine      Code = 1003
	StyleMissingEOFNL  Code = 1004

	// Leftover work markers
	NoteTodoMarker  Code = 2001
	NoteFixmeMarker Code = 2002

	// Debug leftovers
	DebugPrintCall Code = 3001
)

var codeNames = map[Code]string{
	UnknownCode:        "unknown",
	StyleTrailingSpace: "trailing-whitespace",
	StyleTabIndent:     "tab-indentation",
	StyleLongLine:      "line-too-long",
	StyleMissingEOFNL:  "missing-final-newline",
	NoteTodoMarker:     "todo-marker",
	NoteFixmeMarker:    "fixme-marker",
	DebugPrintCall:     "debug-print",
}

// ID returns the stable identifier used in pragmas and suppression lists,
// e.g. "HS1001".
func (c Code) ID() string {
	return fmt.Sprintf("HS%04d", uint16(c))
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code-%d", uint16(c))
}

// ParseCode accepts either the "HS1001" form or a bare number and returns
// the matching Code.
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "HS")
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return UnknownCode, false
	}
	c := Code(n)
	if _, ok := codeNames[c]; !ok {
		return UnknownCode, false
	}
	return c, true
}
