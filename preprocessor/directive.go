package preprocessor

import (
	"path/filepath"
	"slices"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/gpcforge/tokenizer"
)

const (
	scriptExt      = ".gpc"
	includeKeyword = "#include"
)

// Directive is a parsed include/import line.
type Directive struct {
	Path   string
	Legacy bool // #include "path"
}

var (
	space     = tokenType(tokenizer.WHITESPACE)
	comment   = tokenType(tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT)
	quoted    = tokenType(tokenizer.STRING)
	semicolon = tokenValue(tokenizer.PUNCTUATION, ";")
	importKw  = tokenValue(tokenizer.IDENTIFIER, "import")
	includeKw = includeLine()
	pathPart  = pathToken()

	sp  = pc.Drop(pc.ZeroOrMore("space", space))
	eos = pc.EOS[tokenizer.Token]()

	// import "path";  or  import path/to/file;
	importDirective = pc.Seq(
		sp,
		importKw,
		pc.Or(
			label("quoted", sp, quoted),
			label("path", pc.Drop(space), sp, pathPart, pc.ZeroOrMore("path", pathPart)),
		),
		sp,
		semicolon,
		pc.Drop(pc.ZeroOrMore("space or comment", pc.Or(space, comment))),
		eos,
	)

	// #include "path"
	includeDirective = pc.Seq(sp, label("include", includeKw), eos)

	importHead = pc.Seq(sp, importKw, pc.Or(space, quoted))
)

// ParseDirective parses an import directive and returns the referenced file.
//
// Supports:
//
//	import common/helper;          -> common/helper.gpc
//	import "common/helper.gpc";    -> common/helper.gpc
//	import "common/helper";        -> common/helper.gpc
//	#include "common/helper.gpc"   -> common/helper.gpc  (legacy)
//
// Commented lines never match.
func ParseDirective(line string) (Directive, bool) {
	tokens := toParserTokens(tokenizer.Tokenize(line))
	pctx := pc.NewParseContext[tokenizer.Token]()

	if _, match, err := importDirective(pctx, tokens); err == nil {
		var path string
		for _, token := range match {
			switch token.Type {
			case "quoted":
				unquoted, ok := unquote(token.Val.Value)
				if !ok {
					return Directive{}, false
				}
				path = unquoted
			case "path":
				path += token.Val.Value
			}
		}

		if !strings.HasSuffix(path, scriptExt) {
			path += scriptExt
		}

		return Directive{Path: path}, true
	}

	if _, match, err := includeDirective(pctx, tokens); err == nil {
		for _, token := range match {
			if token.Type != "include" {
				continue
			}
			rest := strings.TrimPrefix(token.Val.Value, includeKeyword)
			if path, ok := unquote(strings.TrimSpace(rest)); ok {
				return Directive{Path: path, Legacy: true}, true
			}
		}
	}

	return Directive{}, false
}

// looksLikeImport reports whether a line starts with the import keyword,
// used to warn about directives that failed to parse
func looksLikeImport(line string) bool {
	_, _, err := importHead(pc.NewParseContext[tokenizer.Token](), toParserTokens(tokenizer.Tokenize(line)))
	return err == nil
}

func tokenType(types ...tokenizer.TokenType) pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []pc.Token[tokenizer.Token]) (int, []pc.Token[tokenizer.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func tokenValue(tokenType tokenizer.TokenType, value string) pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []pc.Token[tokenizer.Token]) (int, []pc.Token[tokenizer.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Is(tokenType, value) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// includeLine matches a preprocessor line starting with #include
func includeLine() pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []pc.Token[tokenizer.Token]) (int, []pc.Token[tokenizer.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Type == tokenizer.PREPROCESSOR && strings.HasPrefix(tokens[0].Val.Value, includeKeyword) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// pathToken matches one piece of an unquoted import path
func pathToken() pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []pc.Token[tokenizer.Token]) (int, []pc.Token[tokenizer.Token], error) {
		if len(tokens) == 0 {
			return 0, nil, pc.ErrNotMatch
		}

		token := tokens[0].Val
		if token.Type.IsSpace() || token.Type.IsComment() || token.Type == tokenizer.STRING || token.Is(tokenizer.PUNCTUATION, ";") {
			return 0, nil, pc.ErrNotMatch
		}

		return 1, tokens[:1], nil
	}
}

// label sets the type of every token matched by the sequence p
func label(name string, p ...pc.Parser[tokenizer.Token]) pc.Parser[tokenizer.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tokenizer.Token], src []pc.Token[tokenizer.Token]) ([]pc.Token[tokenizer.Token], error) {
		for i := range src {
			src[i].Type = name
		}

		return src, nil
	})
}

func toParserTokens(tokens []tokenizer.Token) []pc.Token[tokenizer.Token] {
	results := make([]pc.Token[tokenizer.Token], len(tokens))
	for i, token := range tokens {
		results[i] = pc.Token[tokenizer.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		}
	}

	return results
}

// unquote returns the content of a non-empty "..." string
func unquote(s string) (string, bool) {
	if len(s) > 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}

	return "", false
}

// resolvePath resolves target relative to the directory of the including file,
// collapsing . and .. components without touching the file system
func resolvePath(includingFile, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}

	return filepath.Clean(filepath.Join(filepath.Dir(includingFile), filepath.FromSlash(target)))
}
