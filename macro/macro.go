// Package macro implements the define!/call! macro language of device scripts.
//
// A definition
//
//	define! name(int a, b) { body }
//
// is removed from the source, and every call
//
//	name(x, y)!
//	name(x, y)! { caller body }
//
// is replaced by body with parameters substituted and the %0 placeholder
// replaced by the caller body. Expansion repeats until a pass makes no
// substitution, bounded by MaxPasses so mutually recursive macros terminate.
package macro

import (
	"fmt"
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

const (
	defineKeyword = "define!"

	// Placeholder is replaced by the caller-supplied body block.
	Placeholder = "%0"

	// MaxPasses bounds fixed-point expansion. Unbounded macro recursion is not supported.
	MaxPasses = 16
)

// Definition is a parsed `define! name(params) { body }` block.
type Definition struct {
	Name           string
	Params         []string
	Body           string
	HasPlaceholder bool
	// Start and End delimit the whole define! block in the scanned source.
	Start int
	End   int
}

// Expand extracts macro definitions from fully preprocessed source, strips them
// and expands every call. Errors are reported per call and never stop expansion.
func Expand(source string) (string, []string) {
	defs := Extract(source)
	return ExpandCalls(Strip(source, defs), defs)
}

// Extract finds all define! blocks in a single left-to-right scan.
// Occurrences inside // comments and malformed definitions are skipped.
func Extract(source string) []Definition {
	var defs []Definition

	i := 0
	for i < len(source) {
		b := source[i]
		if b > 0x7F {
			i += tokenizer.CharLen(b)
			continue
		}

		if !strings.HasPrefix(source[i:], defineKeyword) || (i > 0 && tokenizer.IsIdentPart(source[i-1])) {
			i++
			continue
		}

		lineStart := strings.LastIndexByte(source[:i], '\n') + 1
		if inLineComment(source[lineStart:i]) {
			i += len(defineKeyword)
			continue
		}

		def, end, ok := parseDefinition(source, i)
		if !ok {
			i += len(defineKeyword)
			continue
		}

		defs = append(defs, def)
		i = end
	}

	return defs
}

// parseDefinition parses the define! block starting at start
func parseDefinition(source string, start int) (Definition, int, bool) {
	i := skipSpaces(source, start+len(defineKeyword))

	nameStart := i
	if i >= len(source) || !tokenizer.IsIdentStart(source[i]) {
		return Definition{}, 0, false
	}
	i = scanWord(source, i)
	name := source[nameStart:i]

	i = skipSpaces(source, i)
	if i >= len(source) || source[i] != '(' {
		return Definition{}, 0, false
	}

	params, i, ok := parseParams(source, i+1)
	if !ok {
		return Definition{}, 0, false
	}

	i = skipSpaces(source, i)
	if i >= len(source) || source[i] != '{' {
		return Definition{}, 0, false
	}

	end, ok := matchBrace(source, i, true)
	if !ok {
		return Definition{}, 0, false
	}

	body := source[i+1 : end-1]

	return Definition{
		Name:           name,
		Params:         params,
		Body:           body,
		HasPlaceholder: strings.Contains(body, Placeholder),
		Start:          start,
		End:            end,
	}, end, true
}

// parseParams parses a parameter list up to and including ')'.
// Each parameter may be preceded by type words; only the last identifier is kept.
func parseParams(source string, i int) ([]string, int, bool) {
	var params []string
	var last string

	for {
		i = skipSpaces(source, i)
		if i >= len(source) {
			return nil, 0, false
		}

		switch b := source[i]; {
		case b == ')':
			if last != "" {
				params = append(params, last)
			}

			return params, i + 1, true
		case b == ',':
			if last != "" {
				params = append(params, last)
			}
			last = ""
			i++
		case tokenizer.IsIdentStart(b):
			end := scanWord(source, i)
			last = source[i:end]
			i = end
		default:
			return nil, 0, false
		}
	}
}

// Strip removes every definition block and one trailing newline
func Strip(source string, defs []Definition) string {
	if len(defs) == 0 {
		return source
	}

	var out strings.Builder
	out.Grow(len(source))

	pos := 0
	for _, def := range defs {
		if def.Start < pos {
			continue
		}
		out.WriteString(source[pos:def.Start])
		pos = def.End
		if pos < len(source) && source[pos] == '\n' {
			pos++
		}
	}
	out.WriteString(source[pos:])

	return out.String()
}

// ExpandCalls expands `name(args)!` and `name(args)! { body }` calls of defs
// until a fixed point or MaxPasses is reached.
func ExpandCalls(source string, defs []Definition) (string, []string) {
	if len(defs) == 0 {
		return source, nil
	}

	table := make(map[string]*Definition, len(defs))
	for i := range defs {
		if _, exists := table[defs[i].Name]; !exists {
			table[defs[i].Name] = &defs[i]
		}
	}

	e := &expander{macros: table}
	result := source
	for range MaxPasses {
		var expanded bool
		result, expanded = e.pass(result)
		if !expanded {
			break
		}
	}

	return result, e.errors
}

type expander struct {
	macros map[string]*Definition
	errors []string
}

func (e *expander) errorf(format string, args ...any) {
	e.errors = append(e.errors, fmt.Sprintf(format, args...))
}

// pass performs one left-to-right expansion pass
func (e *expander) pass(source string) (string, bool) {
	var out strings.Builder
	out.Grow(len(source))

	expanded := false
	i := 0
	for i < len(source) {
		b := source[i]

		switch {
		case b > 0x7F:
			n := min(tokenizer.CharLen(b), len(source)-i)
			out.WriteString(source[i : i+n])
			i += n

			continue
		case b == '/' && i+1 < len(source) && source[i+1] == '/':
			end := lineEnd(source, i)
			out.WriteString(source[i:end])
			i = end

			continue
		case b == '/' && i+1 < len(source) && source[i+1] == '*':
			end := skipBlockComment(source, i)
			out.WriteString(source[i:end])
			i = end

			continue
		case b == '"' || b == '\'':
			end := skipQuoted(source, i)
			out.WriteString(source[i:end])
			i = end

			continue
		case tokenizer.IsIdentPart(b):
		default:
			out.WriteByte(b)
			i++

			continue
		}

		identEnd := scanWord(source, i)
		ident := source[i:identEnd]
		def, ok := e.macros[ident]
		if !ok || !tokenizer.IsIdentStart(b) {
			out.WriteString(ident)
			i = identEnd

			continue
		}

		replacement, end, ok := e.expandCall(source, def, identEnd)
		if !ok {
			// Not a macro call: keep the identifier and scan the rest normally
			out.WriteString(ident)
			i = identEnd

			continue
		}

		out.WriteString(replacement)
		i = end
		expanded = true
	}

	return out.String(), expanded
}

// expandCall expands the call of def whose name ends at nameEnd.
// It returns false when the text is not a `name(args)!` call.
func (e *expander) expandCall(source string, def *Definition, nameEnd int) (string, int, bool) {
	i := skipInlineSpaces(source, nameEnd)
	if i >= len(source) || source[i] != '(' {
		return "", 0, false
	}

	args, i, ok := parseArgs(source, i)
	if !ok {
		return "", 0, false
	}

	i = skipInlineSpaces(source, i)
	if i >= len(source) || source[i] != '!' {
		return "", 0, false
	}
	i++

	callerBody := ""
	if open := skipSpaces(source, i); open < len(source) && source[open] == '{' {
		if end, ok := matchBrace(source, open, false); ok {
			callerBody = strings.TrimSpace(source[open+1 : end-1])
			i = end
		}
	}

	if def.HasPlaceholder && callerBody == "" {
		e.errorf("Macro '%s' requires a body block because it contains a %s placeholder", def.Name, Placeholder)
		return fmt.Sprintf("/* Error: macro '%s' requires body */", def.Name), i, true
	}

	if len(args) != len(def.Params) {
		e.errorf("Macro '%s' expects %d arguments but got %d", def.Name, len(def.Params), len(args))
	}

	replacements := make(map[string]string, len(def.Params))
	for idx, param := range def.Params {
		if idx < len(args) {
			replacements[param] = args[idx]
		}
	}

	body := ReplaceWords(def.Body, replacements)
	if def.HasPlaceholder {
		body = strings.ReplaceAll(body, Placeholder, callerBody)
	}

	return strings.TrimSpace(body), i, true
}
