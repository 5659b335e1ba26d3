package tokenizer

import (
	"iter"
	"strings"
)

// TokenIterator uses Go 1.23 iterator pattern
type TokenIterator iter.Seq[Token]

// GpcTokenizer is a tokenizer for device scripts that returns an iterator.
// It never fails: every byte of the input ends up in exactly one token.
type GpcTokenizer struct {
	input string
}

// NewGpcTokenizer creates a new GpcTokenizer
func NewGpcTokenizer(input string) *GpcTokenizer {
	return &GpcTokenizer{input: input}
}

// Tokenize converts source into its ordered token sequence.
// Join(Tokenize(source)) == source always holds.
func Tokenize(source string) []Token {
	return NewGpcTokenizer(source).AllTokens()
}

// Join concatenates token values back into source text
func Join(tokens []Token) string {
	size := 0
	for _, token := range tokens {
		size += len(token.Value)
	}

	var builder strings.Builder
	builder.Grow(size)

	for _, token := range tokens {
		builder.WriteString(token.Value)
	}

	return builder.String()
}

// Tokens returns an iterator of tokens
func (t *GpcTokenizer) Tokens() TokenIterator {
	return func(yield func(Token) bool) {
		tokenizer := &tokenizer{
			input: t.input,
			line:  1,
		}

		for tokenizer.position < len(tokenizer.input) {
			if !yield(tokenizer.nextToken()) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *GpcTokenizer) AllTokens() []Token {
	tokens := make([]Token, 0, len(t.input)/3+1)
	for token := range t.Tokens() {
		tokens = append(tokens, token)
	}

	return tokens
}

// Internal tokenizer implementation
type tokenizer struct {
	input     string
	position  int
	line      int
	lineStart int
}

var twoCharOperators = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"==": true, "!=": true, "<=": true, ">=": true,
	"&&": true, "||": true, "<<": true, ">>": true,
	"++": true, "--": true,
}

// nextToken reads the token starting at the current position
func (t *tokenizer) nextToken() Token {
	start := t.position
	b := t.input[start]

	switch {
	case b == '/' && t.peek(1) == '/':
		t.skipUntil('\n')
		return t.emit(LINE_COMMENT, start)
	case b == '/' && t.peek(1) == '*':
		return t.readBlockComment(start)
	case b == '"':
		return t.readQuoted(STRING, start)
	case b == '\'':
		return t.readQuoted(CHAR, start)
	case b == '#' && t.atLineStart(start):
		t.skipUntil('\n')
		return t.emit(PREPROCESSOR, start)
	case b == '\n':
		t.position++
		token := t.emit(NEWLINE, start)
		t.line++
		t.lineStart = t.position

		return token
	case isSpace(b):
		for t.position < len(t.input) && isSpace(t.input[t.position]) {
			t.position++
		}

		return t.emit(WHITESPACE, start)
	case isDigit(b):
		return t.readNumber(start)
	case IsIdentStart(b):
		for t.position < len(t.input) && IsIdentPart(t.input[t.position]) {
			t.position++
		}

		return t.emit(IDENTIFIER, start)
	}

	if start+2 <= len(t.input) && twoCharOperators[t.input[start:start+2]] {
		t.position += 2
		return t.emit(OPERATOR, start)
	}

	if strings.IndexByte("+-*/%&|^~!<>=", b) >= 0 {
		t.position++
		return t.emit(OPERATOR, start)
	}

	// Anything else is punctuation. Multi-byte UTF-8 sequences stay whole.
	t.position += CharLen(b)
	if t.position > len(t.input) {
		t.position = len(t.input)
	}

	return t.emit(PUNCTUATION, start)
}

func (t *tokenizer) readBlockComment(start int) Token {
	t.position += 2
	if end := strings.Index(t.input[t.position:], "*/"); end >= 0 {
		t.position += end + 2
	} else {
		t.position = len(t.input)
	}

	token := t.emit(BLOCK_COMMENT, start)
	t.countLines(token.Value)

	return token
}

// readQuoted reads string and char literals. An unterminated literal runs to the end of input.
func (t *tokenizer) readQuoted(tokenType TokenType, start int) Token {
	quote := t.input[start]
	t.position++

	for t.position < len(t.input) && t.input[t.position] != quote {
		if t.input[t.position] == '\\' && t.position+1 < len(t.input) {
			t.position++
		}
		t.position++
	}

	if t.position < len(t.input) {
		t.position++
	}

	token := t.emit(tokenType, start)
	t.countLines(token.Value)

	return token
}

func (t *tokenizer) readNumber(start int) Token {
	if t.input[start] == '0' && (t.peek(1) == 'x' || t.peek(1) == 'X') {
		t.position += 2
		for t.position < len(t.input) && isHexDigit(t.input[t.position]) {
			t.position++
		}

		return t.emit(NUMBER, start)
	}

	for t.position < len(t.input) && isDigit(t.input[t.position]) {
		t.position++
	}

	return t.emit(NUMBER, start)
}

// atLineStart reports whether only whitespace precedes offset on its line
func (t *tokenizer) atLineStart(offset int) bool {
	lineStart := strings.LastIndexByte(t.input[:offset], '\n') + 1
	return strings.TrimSpace(t.input[lineStart:offset]) == ""
}

func (t *tokenizer) skipUntil(b byte) {
	if end := strings.IndexByte(t.input[t.position:], b); end >= 0 {
		t.position += end
	} else {
		t.position = len(t.input)
	}
}

func (t *tokenizer) peek(n int) byte {
	if t.position+n >= len(t.input) {
		return 0
	}

	return t.input[t.position+n]
}

// countLines advances line tracking across newlines embedded in a multi-line token
func (t *tokenizer) countLines(value string) {
	if n := strings.Count(value, "\n"); n > 0 {
		t.line += n
		t.lineStart = t.position - (len(value) - strings.LastIndexByte(value, '\n') - 1)
	}
}

func (t *tokenizer) emit(tokenType TokenType, start int) Token {
	return Token{
		Type:  tokenType,
		Value: t.input[start:t.position],
		Position: Position{
			Line:   t.line,
			Column: start - t.lineStart + 1,
			Offset: start,
		},
	}
}
