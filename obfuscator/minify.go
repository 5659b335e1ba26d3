package obfuscator

import (
	"github.com/shibukawa/gpcforge/tokenizer"
)

var singleSpace = tokenizer.Token{Type: tokenizer.WHITESPACE, Value: " "}

var lineBreak = tokenizer.Token{Type: tokenizer.NEWLINE, Value: "\n"}

// stripAndMinify drops comments and collapses whitespace.
// A comment turns into a space so the tokens around it never fuse.
// Whitespace runs become one space, blank lines disappear and a space
// directly before a newline is dropped.
func stripAndMinify(tokens []tokenizer.Token) []tokenizer.Token {
	result := make([]tokenizer.Token, 0, len(tokens))

	lastIs := func(tokenType tokenizer.TokenType) bool {
		return len(result) > 0 && result[len(result)-1].Type == tokenType
	}

	for _, token := range tokens {
		switch {
		case token.Type.IsComment(), token.Type == tokenizer.WHITESPACE:
			if len(result) == 0 || lastIs(tokenizer.WHITESPACE) || lastIs(tokenizer.NEWLINE) {
				continue
			}
			result = append(result, singleSpace)
		case token.Type == tokenizer.NEWLINE:
			switch {
			case len(result) == 0 || lastIs(tokenizer.NEWLINE):
			case lastIs(tokenizer.WHITESPACE):
				result[len(result)-1] = lineBreak
			default:
				result = append(result, lineBreak)
			}
		default:
			result = append(result, token)
		}
	}

	for len(result) > 0 && result[len(result)-1].Type.IsSpace() {
		result = result[:len(result)-1]
	}

	return result
}
