package tokenizer

// Byte classes are ASCII-only. Bytes >= 0x80 are never identifier characters,
// so renaming and substitution can never split a multi-byte UTF-8 sequence.

// CharLen returns the byte length of the UTF-8 sequence introduced by lead byte b.
// Stray continuation bytes count as one byte.
func CharLen(b byte) int {
	switch {
	case b < 0xC0:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// IsIdentStart reports whether b can start an identifier
func IsIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

// IsIdentPart reports whether b can continue an identifier
func IsIdentPart(b byte) bool {
	return IsIdentStart(b) || isDigit(b)
}

// IsSpace reports whether b is ASCII whitespace, newline included
func IsSpace(b byte) bool {
	return b == '\n' || isSpace(b)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
