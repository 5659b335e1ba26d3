package tokenizer

// TokenType represents the type of a token
type TokenType int

const (
	LINE_COMMENT  TokenType = iota // // line comment
	BLOCK_COMMENT                  // /* block comment */
	STRING                         // "text"
	CHAR                           // 'c'
	IDENTIFIER                     // identifiers, keywords, builtins
	NUMBER                         // decimal or 0x hex literal
	PREPROCESSOR                   // #include "file" and other # lines
	OPERATOR                       // + - == && ...
	PUNCTUATION                    // ( ) { } [ ] ; , . and anything else
	WHITESPACE                     // spaces, tabs, carriage returns
	NEWLINE                        // \n
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case STRING:
		return "STRING"
	case CHAR:
		return "CHAR"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case PREPROCESSOR:
		return "PREPROCESSOR"
	case OPERATOR:
		return "OPERATOR"
	case PUNCTUATION:
		return "PUNCTUATION"
	case WHITESPACE:
		return "WHITESPACE"
	case NEWLINE:
		return "NEWLINE"
	default:
		return "UNKNOWN"
	}
}

// IsComment reports whether the token type is a line or block comment
func (t TokenType) IsComment() bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT
}

// IsSpace reports whether the token type is intraline whitespace or a newline
func (t TokenType) IsSpace() bool {
	return t == WHITESPACE || t == NEWLINE
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token.
// Value is the exact source slice; rewrite passes may replace it.
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// Is reports whether the token has the given type and value
func (t Token) Is(tokenType TokenType, value string) bool {
	return t.Type == tokenType && t.Value == value
}
