package document

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ApplyContentChange applies one didChange content change to text. A change
// without a range replaces the whole document.
func ApplyContentChange(text string, change protocol.TextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil {
		return change.Text, nil
	}

	start, err := offsetOf(text, change.Range.Start)
	if err != nil {
		return "", fmt.Errorf("invalid start position: %w", err)
	}

	end, err := offsetOf(text, change.Range.End)
	if err != nil {
		return "", fmt.Errorf("invalid end position: %w", err)
	}

	if start > end {
		return "", fmt.Errorf("start offset %d after end offset %d", start, end)
	}

	return text[:start] + change.Text + text[end:], nil
}

// offsetOf returns the byte offset of an LSP position in text.
func offsetOf(text string, pos protocol.Position) (int, error) {
	line := int(pos.Line)
	offset := 0

	for i := 0; i < line; i++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d out of range (0-%d)", line, i)
		}

		offset += nl + 1
	}

	lineText := text[offset:]
	if nl := strings.IndexByte(lineText, '\n'); nl >= 0 {
		lineText = lineText[:nl]
	}

	col, err := strictByteColumn(lineText, int(pos.Character))
	if err != nil {
		return 0, err
	}

	return offset + col, nil
}
