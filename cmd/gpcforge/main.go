package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/gpcforge"
)

const version = "0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// infof prints progress information in verbose mode
func (c *Context) infof(format string, args ...any) {
	if c.Quiet || !c.Verbose {
		return
	}

	color.New(color.FgBlue).Fprintf(c.Stderr, format+"\n", args...)
}

// successf prints a completion message unless quiet
func (c *Context) successf(format string, args ...any) {
	if c.Quiet {
		return
	}

	color.New(color.FgGreen).Fprintf(c.Stderr, format+"\n", args...)
}

func (c *Context) warnf(format string, args ...any) {
	if c.Quiet {
		return
	}

	color.New(color.FgYellow).Fprintf(c.Stderr, format+"\n", args...)
}

// errorf prints a diagnostic. Errors are shown even in quiet mode.
func (c *Context) errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(c.Stderr, format+"\n", args...)
}

// CLI is the gpcforge command line
type CLI struct {
	Config     string        `help:"Configuration file path" default:"${config_file}"`
	Verbose    bool          `help:"Enable verbose output" short:"v"`
	Quiet      bool          `help:"Suppress output" short:"q"`
	Build      BuildCmd      `cmd:"" help:"Build a game directory into a single script in dist/"`
	Preprocess PreprocessCmd `cmd:"" help:"Flatten the imports of a script"`
	Expand     ExpandCmd     `cmd:"" help:"Expand define! macros"`
	Obfuscate  ObfuscateCmd  `cmd:"" help:"Obfuscate a flattened script"`
	Tokens     TokensCmd     `cmd:"" help:"Print the tokens of a script"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
}

// VersionCmd prints the version
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "gpcforge v%s\n", version)
	return nil
}

// newParser builds the kong parser for cli
func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("gpcforge"),
		kong.Description("Build tool for GPC game scripts"),
		kong.UsageOnError(),
		kong.Vars{"config_file": gpcforge.DefaultConfigFile},
	}, options...)

	return kong.New(cli, options...)
}

func main() {
	var cli CLI

	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	appCtx := &Context{
		Config:  cli.Config,
		Verbose: cli.Verbose,
		Quiet:   cli.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  color.Error,
	}

	err = kctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
