package analysis

import (
	"strings"

	"github.com/CWBudde/go-pdx-lsp/internal/document"
)

// CompletionKind is what the cursor is about to complete.
type CompletionKind int

const (
	// CompletionNone suppresses completion (inside a comment or string).
	CompletionNone CompletionKind = iota

	// CompletionKey completes a statement key such as a trigger or effect.
	CompletionKey

	// CompletionValue completes the right-hand side of key = value.
	CompletionValue

	// CompletionChain completes the segment after a dot in a scope chain.
	CompletionChain
)

func (k CompletionKind) String() string {
	switch k {
	case CompletionKey:
		return "key"
	case CompletionValue:
		return "value"
	case CompletionChain:
		return "chain"
	default:
		return "none"
	}
}

// CompletionContext describes the text around a completion request.
type CompletionContext struct {
	Kind CompletionKind

	// Prefix is the partial name typed so far.
	Prefix string

	// Chain holds the segments before the last dot for CompletionChain,
	// e.g. "scope:actor.liege" when completing "scope:actor.liege.pri".
	Chain string

	// Key is the statement key for CompletionValue.
	Key string
}

// DetermineContext inspects the cursor line up to char (a byte offset).
func DetermineContext(lines document.Lines, line, char int) *CompletionContext {
	before := cutLine(lines.Line(line), char)

	if isInsideComment(before) || isInsideString(before) {
		return &CompletionContext{Kind: CompletionNone}
	}

	start, _ := ChainAt(before, len(before))
	token := before[start:]

	if dot := strings.LastIndexByte(token, '.'); dot >= 0 {
		return &CompletionContext{
			Kind:   CompletionChain,
			Chain:  token[:dot],
			Prefix: token[dot+1:],
		}
	}

	ctx := &CompletionContext{Kind: CompletionKey, Prefix: token}

	if key, ok := keyBeforeOperator(before[:start]); ok {
		ctx.Kind = CompletionValue
		ctx.Key = key
	}

	return ctx
}

// isInsideComment reports whether the text before the cursor contains a #
// outside a string.
func isInsideComment(before string) bool {
	return len(cleanLine(before)) < len(before)
}

// isInsideString reports whether the cursor sits inside a quoted string.
func isInsideString(before string) bool {
	return strings.Count(before, `"`)%2 == 1
}

// keyBeforeOperator extracts "key" from text ending in "key =" (or any other
// operator), which means the cursor is on a value.
func keyBeforeOperator(text string) (string, bool) {
	text = strings.TrimRight(text, " \t")

	trimmed := strings.TrimRight(text, "=<>?!")
	if len(trimmed) == len(text) {
		return "", false
	}

	trimmed = strings.TrimRight(trimmed, " \t")

	start, _ := ChainAt(trimmed, len(trimmed))
	if start == len(trimmed) {
		return "", false
	}

	return trimmed[start:], true
}
