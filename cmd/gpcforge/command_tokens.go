package main

import (
	"fmt"

	"github.com/shibukawa/gpcforge/tokenizer"
)

// TokensCmd represents the tokens command
type TokensCmd struct {
	Input string `arg:"" optional:"" help:"Input file (default: stdin)"`
	All   bool   `short:"a" help:"Include whitespace and newline tokens"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	source, _, err := readInput(ctx, cmd.Input)
	if err != nil {
		return err
	}

	for token := range tokenizer.NewGpcTokenizer(source).Tokens() {
		if token.Type.IsSpace() && !cmd.All {
			continue
		}

		if _, err := fmt.Fprintf(ctx.Stdout, "%d:%d\t%-13s %q\n", token.Position.Line, token.Position.Column, token.Type, token.Value); err != nil {
			return err
		}
	}

	return nil
}
