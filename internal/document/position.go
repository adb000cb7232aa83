package document

import (
	"fmt"
	"unicode/utf8"
)

// UTF16ToByteColumn converts an LSP character offset (UTF-16 code units) on
// line to a byte offset. Offsets past the end clamp to len(line).
func UTF16ToByteColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}

	units := 0

	for i, r := range line {
		if units >= col {
			return i
		}

		units += utf16Len(r)
	}

	return len(line)
}

// ByteToUTF16Column converts a byte offset on line to an LSP character offset.
// Offsets past the end clamp to the line's UTF-16 length.
func ByteToUTF16Column(line string, col int) int {
	if col > len(line) {
		col = len(line)
	}

	units := 0

	for i, r := range line {
		if i >= col {
			break
		}

		units += utf16Len(r)
	}

	return units
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}

	return 1
}

// strictByteColumn is UTF16ToByteColumn for edits, where an offset past the
// end of the line is an error rather than something to clamp.
func strictByteColumn(line string, col int) (int, error) {
	if col < 0 {
		return 0, fmt.Errorf("negative character offset %d", col)
	}

	if col > ByteToUTF16Column(line, len(line)) {
		return 0, fmt.Errorf("UTF-16 offset %d exceeds line length %d", col, ByteToUTF16Column(line, len(line)))
	}

	return UTF16ToByteColumn(line, col), nil
}
