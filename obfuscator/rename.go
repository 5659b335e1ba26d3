package obfuscator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shibukawa/gpcforge/tokenizer"
)

// declKind is the namespace a user identifier is renamed into
type declKind int

const (
	declVariable declKind = iota
	declFunction
	declCombo
)

var renamePrefixes = map[declKind]string{
	declVariable: "_v",
	declFunction: "_f",
	declCombo:    "_c",
}

// renameIdentifiers gives every non-reserved identifier a short generated name.
// The kind of a name is fixed by its first occurrence; names are numbered per
// kind in sorted order so output is deterministic. It returns the number of
// distinct names renamed.
func renameIdentifiers(tokens []tokenizer.Token) int {
	kinds := make(map[string]declKind)
	for i, token := range tokens {
		if token.Type != tokenizer.IDENTIFIER || tokenizer.IsReserved(token.Value) {
			continue
		}
		if _, seen := kinds[token.Value]; !seen {
			kinds[token.Value] = declContext(tokens, i)
		}
	}

	if len(kinds) == 0 {
		return 0
	}

	counters := make(map[declKind]int, len(renamePrefixes))
	renames := make(map[string]string, len(kinds))
	for _, name := range slices.Sorted(maps.Keys(kinds)) {
		kind := kinds[name]
		renames[name] = fmt.Sprintf("%s%d", renamePrefixes[kind], counters[kind])
		counters[kind]++
	}

	for i := range tokens {
		if tokens[i].Type != tokenizer.IDENTIFIER {
			continue
		}
		if renamed, ok := renames[tokens[i].Value]; ok {
			tokens[i].Value = renamed
		}
	}

	return len(renames)
}

// declContext classifies the identifier at index by the nearest preceding
// token, skipping whitespace, newlines and commas.
func declContext(tokens []tokenizer.Token, index int) declKind {
	for i := index - 1; i >= 0; i-- {
		token := tokens[i]
		switch {
		case token.Type.IsSpace(), token.Is(tokenizer.PUNCTUATION, ","):
			continue
		case token.Is(tokenizer.IDENTIFIER, "function"):
			return declFunction
		case token.Is(tokenizer.IDENTIFIER, "combo"):
			return declCombo
		default:
			return declVariable
		}
	}

	return declVariable
}
