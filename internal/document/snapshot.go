// Package document provides line access and position arithmetic over script
// documents as they are held by the language server.
package document

import "strings"

// Lines is the read-only line accessor consumed by the context engine.
// Line returns the raw text of a line (comments included) and LineCount the
// number of lines. Implementations must return stable text for the lifetime
// of one resolution call.
type Lines interface {
	Line(i int) string
	LineCount() int
}

// Snapshot is an immutable line view of a document's text.
type Snapshot struct {
	lines []string
}

// NewSnapshot splits text into lines. A trailing carriage return is dropped
// from every line so CRLF documents scan like LF documents.
func NewSnapshot(text string) *Snapshot {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return &Snapshot{lines: lines}
}

// Line returns line i, or "" when i is out of range.
func (s *Snapshot) Line(i int) string {
	if s == nil || i < 0 || i >= len(s.lines) {
		return ""
	}

	return s.lines[i]
}

// LineCount returns the number of lines. An empty text has one empty line.
func (s *Snapshot) LineCount() int {
	if s == nil {
		return 0
	}

	return len(s.lines)
}
