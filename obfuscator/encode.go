package obfuscator

import (
	"strconv"
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

const minEncodedContent = 3

// encodeStrings rewrites string literals that open an array initializer,
//
//	const string label[] = {"Hello"};
//
// into their code points, and retypes the declaration from string to int:
//
//	const int label[] = {72, 101, 108, 108, 111};
//
// Literals with fewer than three content bytes are left alone.
func encodeStrings(tokens []tokenizer.Token) int {
	count := 0

	for i, token := range tokens {
		if token.Type != tokenizer.STRING || !inArrayInitializer(tokens, i) {
			continue
		}

		content, ok := literalContent(token.Value)
		if !ok || len(content) < minEncodedContent {
			continue
		}

		codes := make([]string, 0, len(content))
		for _, r := range content {
			codes = append(codes, strconv.Itoa(int(r)))
		}

		tokens[i].Type = tokenizer.NUMBER
		tokens[i].Value = strings.Join(codes, ", ")
		retypeDeclaration(tokens, i)
		count++
	}

	return count
}

// literalContent strips the quotes of a terminated string literal
func literalContent(literal string) (string, bool) {
	for i := 1; i < len(literal); i++ {
		switch literal[i] {
		case '\\':
			i++
		case '"':
			return literal[1:i], i == len(literal)-1
		}
	}

	return "", false
}

// inArrayInitializer reports whether only whitespace, then '{', then '='
// precede the token at index.
func inArrayInitializer(tokens []tokenizer.Token, index int) bool {
	foundBrace := false

	for i := index - 1; i >= 0; i-- {
		token := tokens[i]
		switch {
		case token.Type.IsSpace():
			continue
		case token.Is(tokenizer.PUNCTUATION, "{"):
			foundBrace = true
		case token.Is(tokenizer.OPERATOR, "="):
			return foundBrace
		default:
			return false
		}
	}

	return false
}

// retypeDeclaration turns the nearest `string` type on the same line into `int`
func retypeDeclaration(tokens []tokenizer.Token, index int) {
	for i := index - 1; i >= 0; i-- {
		switch {
		case tokens[i].Is(tokenizer.IDENTIFIER, "string"):
			tokens[i].Value = "int"
			return
		case tokens[i].Type == tokenizer.NEWLINE:
			return
		}
	}
}
