package main

import (
	"fmt"

	"github.com/shibukawa/gpcforge/macro"
	"github.com/shibukawa/gpcforge/preprocessor"
)

// PreprocessCmd represents the preprocess command
type PreprocessCmd struct {
	Input  string `arg:"" help:"Entry script; imports are resolved relative to it" type:"existingfile"`
	Output string `short:"o" help:"Output file (default: stdout)"`
	Expand bool   `short:"e" help:"Expand define! macros after flattening"`
}

// Run executes the preprocess command
func (cmd *PreprocessCmd) Run(ctx *Context) error {
	ctx.infof("Preprocessing %s", cmd.Input)

	result := preprocessor.Preprocess(cmd.Input, ctx.Verbose)
	printLogs(ctx, result.Logs)

	text := result.Text
	errorCount := len(result.Messages(preprocessor.LevelError))

	if cmd.Expand {
		var macroErrors []string

		text, macroErrors = macro.Expand(text)
		for _, message := range macroErrors {
			ctx.errorf("%s", message)
		}

		errorCount += len(macroErrors)
	}

	if err := writeOutput(ctx, cmd.Output, text); err != nil {
		return err
	}

	if !result.Success || errorCount > 0 {
		return fmt.Errorf("%w: %d error(s) in %s", ErrPreprocessFailed, errorCount, cmd.Input)
	}

	return nil
}

// ExpandCmd represents the expand command
type ExpandCmd struct {
	Input  string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout)"`
}

// Run executes the expand command
func (cmd *ExpandCmd) Run(ctx *Context) error {
	source, name, err := readInput(ctx, cmd.Input)
	if err != nil {
		return err
	}

	defs := macro.Extract(source)
	for _, def := range defs {
		ctx.infof("Macro %s(%d)", def.Name, len(def.Params))
	}

	expanded, errs := macro.ExpandCalls(macro.Strip(source, defs), defs)
	for _, message := range errs {
		ctx.errorf("%s", message)
	}

	if err := writeOutput(ctx, cmd.Output, expanded); err != nil {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %d error(s) in %s", ErrMacroErrors, len(errs), name)
	}

	return nil
}
