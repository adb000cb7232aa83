package analysis

import (
	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// EnclosingBlockName returns the name of the innermost named block around
// (line, char), char being a byte offset. Unlike Scan it also reports the
// document-level block. It returns "" outside every named block.
func EnclosingBlockName(lines document.Lines, line, char int) string {
	total := lines.LineCount()
	if total == 0 || line < 0 {
		return ""
	}

	if line >= total {
		line = total - 1
		char = len(lines.Line(line))
	}

	type named struct {
		name  string
		depth int
	}

	var stack []named
	depth := 0

	for i := 0; i <= line; i++ {
		raw := lines.Line(i)
		if i == line {
			raw = cutLine(raw, char)
		}

		text := cleanLine(raw)
		openings := findOpenings(text)

		for pos := 0; pos < len(text); pos++ {
			switch text[pos] {
			case '{':
				depth++
				if o, ok := openings[pos]; ok {
					stack = append(stack, named{name: o.name, depth: depth})
				}
			case '}':
				if depth == 0 {
					continue
				}

				if n := len(stack); n > 0 && stack[n-1].depth == depth {
					stack = stack[:n-1]
				}

				depth--
			}
		}
	}

	if len(stack) == 0 {
		return ""
	}

	return stack[len(stack)-1].name
}

// BlockSpan locates a document-level block.
type BlockSpan struct {
	Name      string
	StartLine int
	StartChar int

	// EndLine is the line of the closing brace, or the last line when the
	// block is never closed.
	EndLine int
}

// Contains reports whether line falls within the block.
func (b BlockSpan) Contains(line int) bool {
	return line >= b.StartLine && line <= b.EndLine
}

// DocumentBlocks lists the named document-level blocks in order.
func DocumentBlocks(lines document.Lines) []BlockSpan {
	var spans []BlockSpan

	depth := 0
	open := -1

	for i := 0; i < lines.LineCount(); i++ {
		text := cleanLine(lines.Line(i))
		openings := findOpenings(text)

		for pos := 0; pos < len(text); pos++ {
			switch text[pos] {
			case '{':
				depth++
				if depth != 1 {
					continue
				}

				if o, ok := openings[pos]; ok {
					spans = append(spans, BlockSpan{Name: o.name, StartLine: i, StartChar: o.start})
					open = len(spans) - 1
				}
			case '}':
				if depth == 0 {
					continue
				}

				depth--
				if depth == 0 && open >= 0 {
					spans[open].EndLine = i
					open = -1
				}
			}
		}
	}

	if open >= 0 {
		spans[open].EndLine = lines.LineCount() - 1
	}

	return spans
}

// BlockAt returns the document-level block containing line.
func BlockAt(spans []BlockSpan, line int) (BlockSpan, bool) {
	for _, s := range spans {
		if s.Contains(line) {
			return s, true
		}
	}

	return BlockSpan{}, false
}
