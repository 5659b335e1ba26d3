// Package builder turns a game directory into a single distributable script.
//
// A build reads main.gpc, prepends plugin code, flattens imports, expands
// macros, optionally obfuscates the result and writes it to
// <dist base>/dist/<name from game.json or config.toml>.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shibukawa/gpcforge"
	"github.com/shibukawa/gpcforge/macro"
	"github.com/shibukawa/gpcforge/obfuscator"
	"github.com/shibukawa/gpcforge/preprocessor"
)

const (
	mainFile      = "main.gpc"
	buildFile     = ".main_build.gpc"
	distDir       = "dist"
	generatedNote = "// GENERATED FILE - DO NOT EDIT"
)

// Options configures one build
type Options struct {
	GameDir  string
	DistBase string // dist/ is created below this directory
	Verbose  bool
	Plugins  gpcforge.PluginConfig
	// ObfuscationLevel enables obfuscation at the given level when greater than zero
	ObfuscationLevel int
}

// Result describes a finished build. Diagnostics of the script itself are
// reported here; Build only returns an error when no output could be produced.
type Result struct {
	ID         string                  `yaml:"id" json:"id"`
	OutputPath string                  `yaml:"output_path" json:"output_path"`
	Success    bool                    `yaml:"success" json:"success"`
	Errors     []string                `yaml:"errors" json:"errors"`
	Warnings   []string                `yaml:"warnings" json:"warnings"`
	Logs       []preprocessor.LogEntry `yaml:"logs" json:"logs"`
	Stats      *obfuscator.Stats       `yaml:"stats,omitempty" json:"stats,omitempty"`
}

// Builder runs builds that share a source file cache
type Builder struct {
	source preprocessor.FileSource
}

// New creates a Builder whose file cache holds up to cacheSize file versions
func New(cacheSize int) (*Builder, error) {
	source, err := NewCachedSource(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}

	return &Builder{source: source}, nil
}

// Build builds a game directory with a fresh Builder
func Build(ctx context.Context, opts Options) (*Result, error) {
	b, err := New(DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	return b.Build(ctx, opts)
}

// OutputPath returns the path Build writes for gameDir without building
func OutputPath(gameDir, distBase string) (string, error) {
	meta, err := LoadMetadata(gameDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(distBase, distDir, meta.OutputFilename()), nil
}

// Build builds opts.GameDir. The context is checked between build phases.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	outputPath, err := OutputPath(opts.GameDir, opts.DistBase)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", gpcforge.ErrOutputDirectory, err)
	}

	mainPath := filepath.Join(opts.GameDir, mainFile)
	mainSource, err := os.ReadFile(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", gpcforge.ErrMainNotFound, mainPath)
		}

		return nil, fmt.Errorf("failed to read %s: %w", mainPath, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The augmented entry file only exists in memory, next to main.gpc so
	// relative imports resolve against the game directory.
	source := withPlugins(string(mainSource), opts.Plugins)
	overlay, err := newOverlaySource(b.source, filepath.Join(opts.GameDir, buildFile), []byte(source))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.GameDir, err)
	}

	pp := &preprocessor.Preprocessor{Source: overlay, Verbose: opts.Verbose}
	processed := pp.Process(overlay.path)

	result := &Result{
		ID:         uuid.NewString(),
		OutputPath: outputPath,
		Logs:       processed.Logs,
		Errors:     processed.Messages(preprocessor.LevelError),
		Warnings:   processed.Messages(preprocessor.LevelWarn),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expanded, macroErrors := macro.Expand(processed.Text)
	result.Errors = append(result.Errors, macroErrors...)

	if post := opts.Plugins.PostBuild; post != "" {
		expanded += "\n" + post + "\n"
	}

	if opts.ObfuscationLevel > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obfuscated := obfuscator.Obfuscate(expanded, opts.ObfuscationLevel)
		expanded = obfuscated.Output
		result.Stats = &obfuscated.Stats
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output := header(mainPath, result.ID) + expanded
	if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", gpcforge.ErrWriteOutput, outputPath, err)
	}

	result.Success = processed.Success && len(result.Errors) == 0

	return result, nil
}

func header(mainPath, buildID string) string {
	return fmt.Sprintf("%s\n// Source: %s\n// Build: %s\n\n", generatedNote, mainPath, buildID)
}

// withPlugins prepends plugin defines, variables, imports and pre-build code to source
func withPlugins(source string, plugins gpcforge.PluginConfig) string {
	var prefix strings.Builder

	for _, define := range plugins.Defines {
		fmt.Fprintf(&prefix, "define %s = %s;\n", define.Name, define.Value)
	}

	for _, variable := range plugins.Vars {
		fmt.Fprintf(&prefix, "%s %s;\n", variable.Type, variable.Name)
	}

	for _, include := range plugins.Includes {
		fmt.Fprintf(&prefix, "import %s;\n", include)
	}

	if plugins.PreBuild != "" {
		prefix.WriteString(plugins.PreBuild)
		prefix.WriteByte('\n')
	}

	if prefix.Len() == 0 {
		return source
	}

	return prefix.String() + "\n" + source
}
