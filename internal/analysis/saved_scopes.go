package analysis

import (
	"regexp"
	"sort"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

var saveScopePattern = regexp.MustCompile(`\b(save_scope_as|save_temporary_scope_as)\s*=\s*([\w]+)`)

// SavedScope is a save_scope_as (or save_temporary_scope_as) statement.
type SavedScope struct {
	Name      string
	Temporary bool

	// Line and Char locate the saved name (byte offset).
	Line int
	Char int
}

// SavedScopes lists the scopes saved in the document, in document order.
func SavedScopes(lines document.Lines) []SavedScope {
	var saved []SavedScope

	for i := 0; i < lines.LineCount(); i++ {
		text := cleanLine(lines.Line(i))

		for _, m := range saveScopePattern.FindAllStringSubmatchIndex(text, -1) {
			saved = append(saved, SavedScope{
				Name:      text[m[4]:m[5]],
				Temporary: text[m[2]:m[3]] == "save_temporary_scope_as",
				Line:      i,
				Char:      m[4],
			})
		}
	}

	return saved
}

// SavedScopeNames returns the distinct saved scope names, sorted.
func SavedScopeNames(lines document.Lines) []string {
	seen := make(map[string]bool)
	for _, s := range SavedScopes(lines) {
		seen[s.Name] = true
	}

	return sortedKeys(seen)
}

// FindSavedScope returns where name was saved, preferring a save inside the
// document-level block that contains line and, within it, the last save
// before line.
func FindSavedScope(lines document.Lines, name string, line int) (SavedScope, bool) {
	var candidates []SavedScope
	for _, s := range SavedScopes(lines) {
		if s.Name == name {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		return SavedScope{}, false
	}

	if block, ok := BlockAt(DocumentBlocks(lines), line); ok {
		var inBlock []SavedScope
		for _, s := range candidates {
			if block.Contains(s.Line) {
				inBlock = append(inBlock, s)
			}
		}

		if len(inBlock) > 0 {
			candidates = inBlock
		}
	}

	// Last save at or before the cursor line, else the first one after it.
	idx := sort.Search(len(candidates), func(i int) bool {
		return candidates[i].Line > line
	})
	if idx > 0 {
		return candidates[idx-1], true
	}

	return candidates[0], true
}
