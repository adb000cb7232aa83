package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

var (
	// chainKeyPattern finds chains used as block keys: liege.primary_title = {
	// Matches are kept only at a key boundary, see keyBoundary.
	chainKeyPattern = regexp.MustCompile(`([A-Za-z_][\w:]*(?:\.[\w:]+)+)\s*\??=\s*\{`)

	// chainValuePattern finds chains used as values: target = scope:actor.liege
	chainValuePattern = regexp.MustCompile(`\b(\w+)\s*=\s*([A-Za-z_][\w:]*(?:\.[\w:]+)+)`)
)

// targetParams are the keys whose values are scope chains. Other dotted values
// (event ids, localization keys) are left alone.
var targetParams = map[string]bool{
	"target":    true,
	"who":       true,
	"actor":     true,
	"recipient": true,
	"character": true,
	"title":     true,
	"province":  true,
	"county":    true,
	"holder":    true,
	"owner":     true,
	"faith":     true,
	"culture":   true,
}

// ChainProblem is a scope chain with an unresolvable segment.
type ChainProblem struct {
	Chain      string
	Segment    string
	Suggestion string

	// Line, StartChar and EndChar locate the invalid segment (byte offsets).
	Line      int
	StartChar int
	EndChar   int
}

// Message renders the problem for display.
func (p ChainProblem) Message() string {
	msg := fmt.Sprintf("unknown scope link %q in %q", p.Segment, p.Chain)
	if p.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", p.Suggestion)
	}

	return msg
}

type chainRef struct {
	start int
	text  string
}

// ChainDiagnostics validates every scope chain inside the document's blocks,
// starting each from the object type in scope where it appears.
func ChainDiagnostics(lines document.Lines, reg *registry.Registry, opts ResolveOptions) []ChainProblem {
	var problems []ChainProblem

	s := newBlockScanner(opts.RootMode)

	for i := 0; i < lines.LineCount(); i++ {
		text := cleanLine(lines.Line(i))
		s.beginLine(i, text)

		for _, c := range findChains(text) {
			s.advance(c.start)
			if s.depth < 1 {
				continue
			}

			start := TrackScope(s.blockPath(), opts.rootType(), reg)

			res := ValidatePath(reg, c.text, start, opts.rootType())
			if res.Valid {
				continue
			}

			offset := c.start + segmentOffset(c.text, res.InvalidSegment)
			problems = append(problems, ChainProblem{
				Chain:      c.text,
				Segment:    res.InvalidSegment,
				Suggestion: SuggestSegment(reg, res.InvalidSegment),
				Line:       i,
				StartChar:  offset,
				EndChar:    offset + len(res.InvalidSegment),
			})
		}

		s.advance(len(text))
	}

	return problems
}

// findChains returns the chains on a cleaned line, ordered by position.
func findChains(text string) []chainRef {
	var chains []chainRef

	for _, m := range chainKeyPattern.FindAllStringSubmatchIndex(text, -1) {
		if !keyBoundary(text, m[2]) {
			continue
		}

		chains = append(chains, chainRef{start: m[2], text: text[m[2]:m[3]]})
	}

	for _, m := range chainValuePattern.FindAllStringSubmatchIndex(text, -1) {
		if !targetParams[text[m[2]:m[3]]] {
			continue
		}

		chains = append(chains, chainRef{start: m[4], text: text[m[4]:m[5]]})
	}

	sort.Slice(chains, func(i, j int) bool {
		return chains[i].start < chains[j].start
	})

	return chains
}

// keyBoundary reports whether a block key may start at offset: at the line
// start or after whitespace or an opening brace.
func keyBoundary(text string, offset int) bool {
	if offset == 0 {
		return true
	}

	switch text[offset-1] {
	case ' ', '\t', '{':
		return true
	}

	return false
}

// segmentOffset returns the byte offset of the first occurrence of seg as a
// whole segment of chain.
func segmentOffset(chain, seg string) int {
	offset := 0

	for _, part := range strings.Split(chain, ".") {
		if part == seg {
			return offset
		}

		offset += len(part) + 1
	}

	return 0
}
