package obfuscator

import (
	"fmt"
	"strings"

	"github.com/shibukawa/gpcforge/tokenizer"
)

const (
	maxDeadFunctions = 8
	maxDeadVariables = 12
	maxDeadBlocks    = 30

	deadFunctionEvery = 3
	deadBranchEvery   = 5
)

// injectDeadCode inserts unreachable declarations and branches.
// Two dead globals open the output. After a top-level block closes, a dead
// function is added for every third block and a dead global after each one.
// Inside blocks, a dead branch follows every statement on a line whose index
// is a multiple of five. It returns the new source and the number of injected blocks.
func injectDeadCode(source string) (string, int) {
	var out strings.Builder
	out.Grow(len(source) * 2)

	count := 0
	deadVars := 0
	deadFuncs := 0
	depth := 0

	addVariable := func(value int) {
		fmt.Fprintf(&out, "int _d%d = %d;\n", deadVars, value)
		deadVars++
		count++
	}

	addVariable(0)
	addVariable(1)

	for lineIdx, line := range sourceLines(source) {
		trimmed := strings.TrimSpace(line)
		depth += braceDelta(trimmed)

		out.WriteString(line)
		out.WriteByte('\n')

		if depth == 0 && strings.HasSuffix(trimmed, "}") && deadFuncs < maxDeadFunctions {
			if deadFuncs%deadFunctionEvery == 0 {
				fmt.Fprintf(&out, "function _df%d() {\n    int _dt = %d;\n    if (FALSE) { set_val(0, _dt); }\n}\n",
					deadFuncs, deadFuncs*17+3)
				count++
			}
			deadFuncs++

			if deadVars < maxDeadVariables {
				addVariable(deadVars*31 + 7)
			}
		}

		if depth > 0 && strings.HasSuffix(trimmed, ";") && !strings.HasPrefix(trimmed, "//") &&
			count < maxDeadBlocks && lineIdx%deadBranchEvery == 0 {
			fmt.Fprintf(&out, "%sif (FALSE) { int _dd = %d; }\n", leadingIndent(line), lineIdx*13+1)
			count++
		}
	}

	return out.String(), count
}

// braceDelta returns the change in block depth caused by line.
// Braces inside string and char literals do not count.
func braceDelta(line string) int {
	delta := 0
	for _, token := range tokenizer.Tokenize(line) {
		switch {
		case token.Is(tokenizer.PUNCTUATION, "{"):
			delta++
		case token.Is(tokenizer.PUNCTUATION, "}"):
			delta--
		}
	}

	return delta
}
