package analysis

// isNameByte reports whether c may appear in a keyword or reference name.
func isNameByte(c byte) bool {
	return c == '_' || c == ':' || c == '$' || c == '@' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isChainByte(c byte) bool {
	return c == '.' || isNameByte(c)
}

// WordAt returns the byte range of the name touching col on text: the name the
// cursor is in, or the one that ends right at the cursor. Dots end a name, so
// in liege.primary_title each segment is its own word.
func WordAt(text string, col int) (start, end int) {
	return spanAt(text, col, isNameByte)
}

// ChainAt is WordAt with dots included, returning the whole scope chain.
func ChainAt(text string, col int) (start, end int) {
	return spanAt(text, col, isChainByte)
}

func spanAt(text string, col int, in func(byte) bool) (start, end int) {
	if col < 0 {
		col = 0
	}

	if col > len(text) {
		col = len(text)
	}

	start = col
	for start > 0 && in(text[start-1]) {
		start--
	}

	end = col
	for end < len(text) && in(text[end]) {
		end++
	}

	return start, end
}
