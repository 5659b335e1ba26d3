package tokenizer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}

	return types
}

func TestTokenIterator(t *testing.T) {
	src := "int x = 5;"

	var actualTypes []TokenType
	for token := range NewGpcTokenizer(src).Tokens() {
		actualTypes = append(actualTypes, token.Type)
	}

	expectedTypes := []TokenType{
		IDENTIFIER, WHITESPACE, IDENTIFIER, WHITESPACE, OPERATOR, WHITESPACE, NUMBER, PUNCTUATION,
	}
	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	count := 0
	for range NewGpcTokenizer("set_val(PS5_R2, 100);").Tokens() {
		count++
		if count >= 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "line comment stops before newline",
			input:    "int x; // comment\nint y;",
			expected: []TokenType{IDENTIFIER, WHITESPACE, IDENTIFIER, PUNCTUATION, WHITESPACE, LINE_COMMENT, NEWLINE, IDENTIFIER, WHITESPACE, IDENTIFIER, PUNCTUATION},
		},
		{
			name:     "block comment spans lines",
			input:    "/* block\ncomment */x",
			expected: []TokenType{BLOCK_COMMENT, IDENTIFIER},
		},
		{
			name:     "string with escaped quote",
			input:    `"a\"b"`,
			expected: []TokenType{STRING},
		},
		{
			name:     "char literal",
			input:    `'a'`,
			expected: []TokenType{CHAR},
		},
		{
			name:     "hex number",
			input:    "0xFF",
			expected: []TokenType{NUMBER},
		},
		{
			name:     "preprocessor line at line start",
			input:    "  #include \"a.gpc\"\nx",
			expected: []TokenType{WHITESPACE, PREPROCESSOR, NEWLINE, IDENTIFIER},
		},
		{
			name:     "hash in the middle of a line is punctuation",
			input:    "x #y",
			expected: []TokenType{IDENTIFIER, WHITESPACE, PUNCTUATION, IDENTIFIER},
		},
		{
			name:     "two char operators",
			input:    "a+=b&&c",
			expected: []TokenType{IDENTIFIER, OPERATOR, IDENTIFIER, OPERATOR, IDENTIFIER},
		},
		{
			name:     "punctuation",
			input:    "{[(;,.)]}",
			expected: []TokenType{PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION, PUNCTUATION},
		},
		{
			name:     "multi-byte character is one punctuation token",
			input:    "aé1",
			expected: []TokenType{IDENTIFIER, PUNCTUATION, NUMBER},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			assert.Equal(t, tt.expected, tokenTypes(tokens))
		})
	}
}

func TestTokenValues(t *testing.T) {
	tokens := Tokenize(`const string s[] = {"hello world"};`)

	var strs []string
	for _, token := range tokens {
		if token.Type == STRING {
			strs = append(strs, token.Value)
		}
	}

	assert.Equal(t, []string{`"hello world"`}, strs)
	assert.Equal(t, "const", tokens[0].Value)
}

func TestTokenPositions(t *testing.T) {
	tokens := Tokenize("int a;\n  b = 1;")

	var b Token
	for _, token := range tokens {
		if token.Value == "b" {
			b = token
		}
	}

	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 9}, b.Position)
}

func TestTokenizeIsLossless(t *testing.T) {
	inputs := []string{
		"",
		"int x = 5;",
		"function myFunc(){ int myVar=5; set_val(0,myVar); }",
		"// only a comment",
		"/* unterminated block",
		`"unterminated string`,
		"'",
		"x = \"tab\\\"\";\r\n\r\n",
		"#define A 1\n#include \"x\"",
		"define! trace(val) { set_val(TRACE_1, val); }\ntrace(0x49)!",
		"const string s[] = {\"日本語\", \"émoji 🎮\"}; // ünïcödé",
		"x\xff\xfe y",
		"a é b",
		"\t\f\v\x00",
	}

	for _, input := range inputs {
		assert.Equal(t, input, Join(Tokenize(input)), "input %q", input)
	}
}

func TestLookupName(t *testing.T) {
	tests := []struct {
		name     string
		expected NameKind
	}{
		{"if", Keyword},
		{"string", TypeKeyword},
		{"set_val", Builtin},
		{"TRUE", BooleanConstant},
		{"PS5_R2", DeviceConstant},
		{"TRACE_1", DeviceConstant},
		{"myVar", NotReserved},
		{"PS5", NotReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LookupName(tt.name))
			assert.Equal(t, tt.expected != NotReserved, IsReserved(tt.name))
		})
	}
}
