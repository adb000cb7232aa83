package analysis

import (
	"regexp"
	"sort"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// blockOpeningPattern matches `name op {`. Names may contain dots, colons and
// $-delimited placeholders, so scope:actor, faith.religious_head and
// $CHARACTER$ are single names.
var blockOpeningPattern = regexp.MustCompile(`([\w.:$]+)\s*(\?=|>=|<=|=|>|<)\s*\{`)

// Frame is one open named block above the document level.
type Frame struct {
	Name       string
	Operator   Operator
	Mode       Mode
	ParentMode Mode

	// Depth is the brace depth of the block body.
	Depth int

	// Line and Char locate the opening brace (byte offset).
	Line int
	Char int
}

// ScanResult is the structural state at the scan target.
type ScanResult struct {
	// Depth counts unclosed braces before the target, including the
	// document-level block. It is never negative.
	Depth int

	// BlockPath names the open frames, outermost first.
	BlockPath []string

	Frames []Frame
}

// Innermost returns the innermost open frame.
func (r ScanResult) Innermost() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}

	return r.Frames[len(r.Frames)-1], true
}

type opening struct {
	name  string
	op    Operator
	start int
}

// blockScanner tracks brace depth and open frames across lines. It lives for
// a single call; nothing is kept between calls.
type blockScanner struct {
	rootMode Mode
	depth    int
	frames   []Frame

	line     int
	text     string
	openings map[int]opening
	pos      int
}

func newBlockScanner(rootMode Mode) *blockScanner {
	return &blockScanner{rootMode: rootMode}
}

// beginLine prepares an already cleaned line for scanning.
func (s *blockScanner) beginLine(line int, text string) {
	s.line = line
	s.text = text
	s.pos = 0
	s.openings = findOpenings(text)
}

// advance consumes the current line up to byte offset end.
func (s *blockScanner) advance(end int) {
	if end > len(s.text) {
		end = len(s.text)
	}

	for ; s.pos < end; s.pos++ {
		switch s.text[s.pos] {
		case '{':
			s.depth++
			if s.depth < 2 {
				continue
			}

			o, ok := s.openings[s.pos]
			if !ok {
				continue
			}

			parent := s.currentMode()
			s.frames = append(s.frames, Frame{
				Name:       o.name,
				Operator:   o.op,
				Mode:       Classify(o.name, o.op, parent),
				ParentMode: parent,
				Depth:      s.depth,
				Line:       s.line,
				Char:       s.pos,
			})
		case '}':
			// An excess closing brace is ignored.
			if s.depth == 0 {
				continue
			}

			if n := len(s.frames); n > 0 && s.frames[n-1].Depth == s.depth {
				s.frames = s.frames[:n-1]
			}

			s.depth--
		}
	}
}

// currentMode is the mode of the innermost open frame, the root mode inside
// the document-level block, and unknown outside every block.
func (s *blockScanner) currentMode() Mode {
	if n := len(s.frames); n > 0 {
		return s.frames[n-1].Mode
	}

	if s.depth >= 1 {
		return s.rootMode
	}

	return ModeUnknown
}

func (s *blockScanner) blockPath() []string {
	path := make([]string, len(s.frames))
	for i, f := range s.frames {
		path[i] = f.Name
	}

	return path
}

func (s *blockScanner) result() ScanResult {
	return ScanResult{
		Depth:     s.depth,
		BlockPath: s.blockPath(),
		Frames:    append([]Frame(nil), s.frames...),
	}
}

// Scan walks lines up to (targetLine, targetChar) and reports the enclosing
// blocks. targetChar is a byte offset into the target line. A target line past
// the end of the document clamps to the end of the last line. rootMode is the
// mode of the document-level block, which is itself never part of the path.
func Scan(lines document.Lines, targetLine, targetChar int, rootMode Mode) ScanResult {
	s := newBlockScanner(rootMode)

	total := lines.LineCount()
	if total == 0 || targetLine < 0 {
		return s.result()
	}

	if targetLine >= total {
		targetLine = total - 1
		targetChar = len(lines.Line(targetLine))
	}

	for i := 0; i <= targetLine; i++ {
		raw := lines.Line(i)
		if i == targetLine {
			raw = cutLine(raw, targetChar)
		}

		s.beginLine(i, cleanLine(raw))
		s.advance(len(s.text))
	}

	return s.result()
}

func cutLine(text string, at int) string {
	if at < 0 {
		return ""
	}

	if at > len(text) {
		return text
	}

	return text[:at]
}

// cleanLine drops a # comment and blanks out the contents of quoted strings,
// keeping byte offsets intact.
func cleanLine(text string) string {
	buf := []byte(text)
	inString := false

	for i, c := range buf {
		switch {
		case c == '"':
			inString = !inString
		case inString:
			buf[i] = ' '
		case c == '#':
			return string(buf[:i])
		}
	}

	return string(buf)
}

// findOpenings maps the offset of every block-opening brace on a cleaned line
// to the name and operator in front of it.
func findOpenings(text string) map[int]opening {
	matches := blockOpeningPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	openings := make(map[int]opening, len(matches))
	for _, m := range matches {
		brace := m[1] - 1
		openings[brace] = opening{
			name:  text[m[2]:m[3]],
			op:    Operator(text[m[4]:m[5]]),
			start: m[2],
		}
	}

	return openings
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
