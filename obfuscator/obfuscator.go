// Package obfuscator degrades the readability of device scripts in five cumulative levels.
//
// Levels 1-3 rewrite the token stream produced by the tokenizer package; the
// stream is then joined back into text for the line-based levels 4 and 5.
// No pass ever fails: constructs a pass cannot make sense of are left as they are.
package obfuscator

import (
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

// Level selects how much obfuscation is applied. Each level includes the previous ones.
type Level int

const (
	LevelMinify        Level = iota + 1 // strip comments, collapse whitespace
	LevelRename                         // rename user identifiers
	LevelEncodeStrings                  // encode string array initializers as code points
	LevelDeadCode                       // inject unreachable code
	LevelControlFlow                    // wrap conditions in opaque predicates

	MinLevel = LevelMinify
	MaxLevel = LevelControlFlow
)

// ClampLevel limits level to [MinLevel, MaxLevel]
func ClampLevel(level int) Level {
	return Level(min(max(level, int(MinLevel)), int(MaxLevel)))
}

// Stats reports what a single Obfuscate call changed
type Stats struct {
	IdentifiersRenamed int `yaml:"identifiers_renamed" json:"identifiers_renamed"`
	CommentsRemoved    int `yaml:"comments_removed" json:"comments_removed"`
	StringsEncoded     int `yaml:"strings_encoded" json:"strings_encoded"`
	DeadCodeBlocks     int `yaml:"dead_code_blocks" json:"dead_code_blocks"`
	LinesBefore        int `yaml:"lines_before" json:"lines_before"`
	LinesAfter         int `yaml:"lines_after" json:"lines_after"`
}

// Result is the obfuscated source with its statistics
type Result struct {
	Output string
	Stats  Stats
}

// Obfuscate applies all transforms up to level, which is clamped to [1, 5]
func Obfuscate(source string, level int) Result {
	lvl := ClampLevel(level)
	stats := Stats{LinesBefore: countLines(source)}

	tokens := tokenizer.Tokenize(source)

	for _, token := range tokens {
		if token.Type.IsComment() {
			stats.CommentsRemoved++
		}
	}
	tokens = stripAndMinify(tokens)

	if lvl >= LevelRename {
		stats.IdentifiersRenamed = renameIdentifiers(tokens)
	}

	if lvl >= LevelEncodeStrings {
		stats.StringsEncoded = encodeStrings(tokens)
	}

	output := tokenizer.Join(tokens)

	if lvl >= LevelDeadCode {
		output, stats.DeadCodeBlocks = injectDeadCode(output)
	}

	if lvl >= LevelControlFlow {
		output = obfuscateControlFlow(output)
	}

	stats.LinesAfter = countLines(output)

	return Result{Output: output, Stats: stats}
}

func countLines(s string) int {
	count := 0
	for range strings.Lines(s) {
		count++
	}

	return count
}

// sourceLines splits s into lines without their \n or \r\n terminators
func sourceLines(s string) []string {
	var lines []string
	for line := range strings.Lines(s) {
		line = strings.TrimSuffix(line, "\n")
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}

	return lines
}

// leadingIndent returns the whitespace prefix of line
func leadingIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
