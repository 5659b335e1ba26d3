package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shibukawa/gpcforge/obfuscator"
	"github.com/shibukawa/gpcforge/preprocessor"
)

const stdinName = "<stdin>"

// readInput reads path, or standard input when path is empty or "-"
func readInput(ctx *Context, path string) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input: %w", err)
		}

		return string(data), stdinName, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
		}

		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), path, nil
}

// writeOutput writes content to path, or standard output when path is empty or "-"
func writeOutput(ctx *Context, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(ctx.Stdout, content)
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ctx.successf("Wrote: %s", path)

	return nil
}

// printLogs renders preprocessor log entries by level
func printLogs(ctx *Context, logs []preprocessor.LogEntry) {
	for _, entry := range logs {
		switch entry.Level {
		case preprocessor.LevelError:
			ctx.errorf("%s", entry.Message)
		case preprocessor.LevelWarn:
			ctx.warnf("%s", entry.Message)
		default:
			ctx.infof("%s", entry.Message)
		}
	}
}

func validateLevel(level int) error {
	if level < int(obfuscator.MinLevel) || level > int(obfuscator.MaxLevel) {
		return fmt.Errorf("%w, got %d", ErrInvalidLevel, level)
	}

	return nil
}
