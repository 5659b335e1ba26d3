package macro

import (
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

// Scanning helpers over raw byte offsets. Word boundaries are ASCII-only;
// bytes >= 0x80 are stepped over as whole UTF-8 sequences.

func skipSpaces(s string, i int) int {
	for i < len(s) && tokenizer.IsSpace(s[i]) {
		i++
	}

	return i
}

// skipInlineSpaces skips whitespace but stops at a newline
func skipInlineSpaces(s string, i int) int {
	for i < len(s) && s[i] != '\n' && tokenizer.IsSpace(s[i]) {
		i++
	}

	return i
}

func scanWord(s string, i int) int {
	for i < len(s) && tokenizer.IsIdentPart(s[i]) {
		i++
	}

	return i
}

func lineEnd(s string, i int) int {
	if end := strings.IndexByte(s[i:], '\n'); end >= 0 {
		return i + end
	}

	return len(s)
}

// skipQuoted returns the offset just past the string or char literal starting at i
func skipQuoted(s string, i int) int {
	quote := s[i]
	i++
	for i < len(s) && s[i] != quote {
		if s[i] == '\\' {
			i++
		}
		i++
	}

	if i < len(s) {
		i++
	}

	return min(i, len(s))
}

// inLineComment reports whether prefix, the start of a line, opens a // comment
// outside string and char literals
func inLineComment(prefix string) bool {
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '"', '\'':
			i = skipQuoted(prefix, i) - 1
		case '/':
			if i+1 < len(prefix) && prefix[i+1] == '/' {
				return true
			}
		}
	}

	return false
}

// skipBlockComment returns the offset just past the block comment starting at i
func skipBlockComment(s string, i int) int {
	if end := strings.Index(s[i+2:], "*/"); end >= 0 {
		return i + 2 + end + 2
	}

	return len(s)
}

// matchBrace returns the offset just past the '}' closing the '{' at open.
// When skipComments is set, a // suspends depth counting until end of line.
func matchBrace(s string, open int, skipComments bool) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case '/':
			if skipComments && i+1 < len(s) && s[i+1] == '/' {
				i = lineEnd(s, i) - 1
			}
		}
	}

	return len(s), false
}

// parseArgs parses the comma-separated arguments of a call whose '(' is at open.
// Commas nested in parentheses or string literals do not split arguments.
// It returns the trimmed arguments and the offset just past the closing ')'.
func parseArgs(s string, open int) ([]string, int, bool) {
	var args []string
	depth := 0
	start := open + 1

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				last := strings.TrimSpace(s[start:i])
				if last != "" || len(args) > 0 {
					args = append(args, last)
				}

				return args, i + 1, true
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		case '"', '\'':
			i = skipQuoted(s, i) - 1
		}
	}

	return nil, len(s), false
}

// ReplaceWords replaces every whole-word occurrence of a key of replacements
// in a single left-to-right pass. Replacement text is never rescanned.
func ReplaceWords(source string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return source
	}

	var out strings.Builder
	out.Grow(len(source))

	i := 0
	for i < len(source) {
		b := source[i]
		if tokenizer.IsIdentPart(b) {
			end := scanWord(source, i)
			word := source[i:end]
			if replacement, ok := replacements[word]; ok {
				out.WriteString(replacement)
			} else {
				out.WriteString(word)
			}
			i = end

			continue
		}

		n := min(tokenizer.CharLen(b), len(source)-i)
		out.WriteString(source[i : i+n])
		i += n
	}

	return out.String()
}
