package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/gpcforge/obfuscator"
)

// ObfuscateCmd represents the obfuscate command
type ObfuscateCmd struct {
	Input  string `arg:"" optional:"" help:"Flattened script (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout)"`
	Level  int    `short:"l" help:"Obfuscation level (1-5)" default:"3"`
	Stats  bool   `help:"Print obfuscation statistics as YAML to stderr"`
}

// Run executes the obfuscate command
func (cmd *ObfuscateCmd) Run(ctx *Context) error {
	if err := validateLevel(cmd.Level); err != nil {
		return err
	}

	source, name, err := readInput(ctx, cmd.Input)
	if err != nil {
		return err
	}

	ctx.infof("Obfuscating %s at level %d", name, cmd.Level)

	result := obfuscator.Obfuscate(source, cmd.Level)

	if cmd.Stats {
		data, err := yaml.Marshal(result.Stats)
		if err != nil {
			return fmt.Errorf("failed to encode statistics: %w", err)
		}

		if _, err := ctx.Stderr.Write(data); err != nil {
			return err
		}
	}

	output := result.Output
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	return writeOutput(ctx, cmd.Output, output)
}
