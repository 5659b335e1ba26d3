package obfuscator

import (
	"fmt"
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

const maxWrappedExpression = 40

// obfuscateControlFlow wraps if and while conditions in opaque predicates
// and rewrites short assignments as `lhs = ((rhs)) + 0;`. Lines are rewritten
// independently; anything else passes through unchanged.
func obfuscateControlFlow(source string) string {
	var out strings.Builder
	out.Grow(len(source) * 2)

	for _, line := range sourceLines(source) {
		out.WriteString(rewriteLine(line))
		out.WriteByte('\n')
	}

	output := out.String()
	if !strings.HasSuffix(source, "\n") {
		output = strings.TrimSuffix(output, "\n")
	}

	return output
}

func rewriteLine(line string) string {
	indent := leadingIndent(line)
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "if (") || strings.HasPrefix(trimmed, "if(") {
		if cond, rest, ok := splitCondition(trimmed); ok {
			return fmt.Sprintf("%sif (((%s)) && (TRUE || (0 == 1))) %s", indent, cond, rest)
		}
	}

	if lhs, rhs, ok := splitAssignment(trimmed); ok {
		return fmt.Sprintf("%s%s = ((%s)) + 0;", indent, lhs, rhs)
	}

	if strings.HasPrefix(trimmed, "while (") || strings.HasPrefix(trimmed, "while(") {
		if cond, rest, ok := splitCondition(trimmed); ok {
			return fmt.Sprintf("%swhile (((%s)) && TRUE) %s", indent, cond, rest)
		}
	}

	return line
}

// splitCondition returns the text inside the first balanced parentheses of
// line and the trimmed remainder after them. Parentheses inside string and
// char literals are not counted.
func splitCondition(line string) (string, string, bool) {
	start := strings.IndexByte(line, '(')
	if start < 0 {
		return "", "", false
	}

	depth := 0
	for i := start; i < len(line); i++ {
		switch line[i] {
		case '"', '\'':
			quote := line[i]
			for i++; i < len(line) && line[i] != quote; i++ {
				if line[i] == '\\' {
					i++
				}
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return line[start+1 : i], strings.TrimSpace(line[i+1:]), true
			}
		}
	}

	return "", "", false
}

// splitAssignment matches a single plain `lhs = rhs;` statement whose right
// side is short and holds no brace, string literal or second statement.
func splitAssignment(trimmed string) (string, string, bool) {
	if !strings.HasSuffix(trimmed, ";") || strings.HasPrefix(trimmed, "//") {
		return "", "", false
	}

	for _, keyword := range []string{"if", "for", "while"} {
		if startsWithWord(trimmed, keyword) {
			return "", "", false
		}
	}

	for _, comparison := range []string{"==", "!=", "<=", ">="} {
		if strings.Contains(trimmed, comparison) {
			return "", "", false
		}
	}

	lhs, rhs, found := strings.Cut(trimmed, " = ")
	if !found {
		return "", "", false
	}

	rhs = strings.TrimSpace(strings.TrimSuffix(rhs, ";"))
	if rhs == "" || len(rhs) >= maxWrappedExpression || strings.ContainsAny(rhs, `{";`) {
		return "", "", false
	}

	return lhs, rhs, true
}

func startsWithWord(s, word string) bool {
	return strings.HasPrefix(s, word) && (len(s) == len(word) || !tokenizer.IsIdentPart(s[len(word)]))
}
