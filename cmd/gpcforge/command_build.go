package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/gpcforge"
	"github.com/shibukawa/gpcforge/builder"
	"github.com/shibukawa/gpcforge/preprocessor"
)

// BuildCmd represents the build command
type BuildCmd struct {
	Game        string `arg:"" help:"Game directory, relative to the workspace"`
	Dist        string `help:"Base directory of dist/ (default: dist_dir from config)"`
	Level       int    `short:"l" help:"Obfuscate at this level (1-5), overriding the configuration"`
	NoObfuscate bool   `help:"Disable obfuscation even if enabled in the configuration"`
	Timeout     string `help:"Build timeout duration" default:"1m"`
	Report      bool   `help:"Print the build result as YAML"`
}

// Run executes the build command
func (cmd *BuildCmd) Run(ctx *Context) error {
	config, err := gpcforge.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gameDir := config.GameDir(cmd.Game)
	if info, err := os.Stat(gameDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrGameDirNotFound, gameDir)
	}

	level := config.ObfuscationLevel()
	if cmd.Level != 0 {
		if err := validateLevel(cmd.Level); err != nil {
			return err
		}

		level = cmd.Level
	}

	if cmd.NoObfuscate {
		level = 0
	}

	distBase := cmd.Dist
	if distBase == "" {
		distBase = config.DistDir
	}

	timeout, err := time.ParseDuration(cmd.Timeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimeout, err)
	}

	verbose := ctx.Verbose || config.Verbose
	if verbose {
		ctx.infof("Building %s", gameDir)
		ctx.infof("Output base: %s", distBase)

		if level > 0 {
			ctx.infof("Obfuscation level: %d", level)
		}
	}

	b, err := builder.New(config.Cache.Size)
	if err != nil {
		return err
	}

	buildCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	buildCtx, cancel := context.WithTimeout(buildCtx, timeout)
	defer cancel()

	result, err := b.Build(buildCtx, builder.Options{
		GameDir:          gameDir,
		DistBase:         distBase,
		Verbose:          verbose,
		Plugins:          config.Plugins,
		ObfuscationLevel: level,
	})
	if err != nil {
		return fmt.Errorf("build of %s failed: %w", gameDir, err)
	}

	cmd.printResult(ctx, result)

	if cmd.Report {
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode build report: %w", err)
		}

		if _, err := ctx.Stdout.Write(data); err != nil {
			return err
		}
	}

	if !result.Success {
		return fmt.Errorf("%w: %d error(s), output written to %s", ErrBuildFailed, len(result.Errors), result.OutputPath)
	}

	return nil
}

func (cmd *BuildCmd) printResult(ctx *Context, result *builder.Result) {
	for _, entry := range result.Logs {
		if entry.Level == preprocessor.LevelInfo {
			ctx.infof("%s", entry.Message)
		}
	}

	for _, warning := range result.Warnings {
		ctx.warnf("Warning: %s", warning)
	}

	for _, message := range result.Errors {
		ctx.errorf("Error: %s", message)
	}

	if stats := result.Stats; stats != nil {
		ctx.infof("Obfuscation: %d identifiers renamed, %d comments removed, %d strings encoded, %d dead code blocks",
			stats.IdentifiersRenamed, stats.CommentsRemoved, stats.StringsEncoded, stats.DeadCodeBlocks)
		ctx.infof("Lines: %d -> %d", stats.LinesBefore, stats.LinesAfter)
	}

	if result.Success {
		ctx.successf("Built: %s", result.OutputPath)
	}
}
