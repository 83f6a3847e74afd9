/*
pegx is a console utility working with PEG grammar definitions.

Usage is

	pegx [flags] <command> [args]

Commands are:

	gen      render grammar files to Go parsers (or ebnf, yaml)
	check    report unreachable and left-recursive rules
	parse    parse input with a grammar and print resulting value as YAML
	version  print version

Settings are read from pegx.yaml in current directory (or the file given with --config)
and may be overridden with PEGX_* environment variables, see package internal/config.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/ava12/pegx/diag"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/internal/config"
	"github.com/ava12/pegx/internal/logutil"
	"github.com/ava12/pegx/langdef"
	"github.com/ava12/pegx/source"
)

var version = "dev"

// errReported means that diagnostics were already written.
var errReported = errors.New("failed")

// Globals are flags shared by all commands.
type Globals struct {
	Config   string `help:"Configuration file, default is ${config_file} in current directory." short:"c" type:"path"`
	LogLevel string `help:"Log level: trace, debug, info, warn, error." name:"log-level"`
	NoColor  bool   `help:"Disable colored diagnostics." name:"no-color"`
}

// CLI represents the command-line interface
type CLI struct {
	Globals

	Gen     GenCmd     `cmd:"" help:"Render grammar files."`
	Check   CheckCmd   `cmd:"" help:"Check grammar files."`
	Parse   ParseCmd   `cmd:"" help:"Parse input and print the result."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context is passed to command Run methods.
type Context struct {
	context.Context
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	noColor bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	k, e := kong.New(&cli,
		kong.Name("pegx"),
		kong.Description("PEG grammar compiler."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.Vars{"config_file": config.DefaultFile},
	)
	if e != nil {
		fmt.Fprintln(stderr, e.Error())
		return 2
	}

	kctx, e := k.Parse(args)
	if e != nil {
		fmt.Fprintln(stderr, "pegx: "+e.Error())
		return 2
	}

	appCtx, e := newContext(ctx, &cli.Globals, stdin, stdout, stderr)
	if e != nil {
		diag.New().Report(stderr, e)
		return 2
	}

	e = kctx.Run(appCtx)
	if e == nil {
		return 0
	}
	if !errors.Is(e, errReported) {
		appCtx.Reporter("").Report(stderr, e)
	}
	return 1
}

func newContext(ctx context.Context, g *Globals, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	cfg, e := config.Load(g.Config, config.Environ())
	if e != nil {
		return nil, e
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
		if e = cfg.Validate(); e != nil {
			return nil, e
		}
	}

	res := &Context{
		Context: ctx,
		Config:  cfg,
		Logger:  logutil.NewLogger(stderr, cfg.Level()),
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		noColor: g.NoColor || cfg.Color == config.ColorNever,
	}
	if cfg.Color == config.ColorAlways && !res.noColor {
		color.NoColor = false
	}
	return res, nil
}

// Reporter returns diagnostics reporter loading sources relative to dir.
func (c *Context) Reporter(dir string, sources ...*source.Source) *diag.Reporter {
	r := diag.New(sources...)
	if c.noColor {
		r.DisableColor()
	}
	r.Load = func(name string) (*source.Source, error) {
		content, e := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if e != nil {
			return nil, e
		}
		return source.New(name, content), nil
	}
	return r
}

// LoadGrammar parses grammar file, includes are resolved relative to its directory.
func (c *Context) LoadGrammar(path string) (*grammar.Grammar, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	loader := langdef.FSLoader{FS: os.DirFS(dir)}
	c.Logger.Debug("loading grammar", "file", path)
	return langdef.ParseFile(loader, name, langdef.WithContext(c), langdef.WithLogger(c.Logger))
}

// ReportGrammarError writes diagnostics for an error returned by LoadGrammar.
func (c *Context) ReportGrammarError(path string, e error) {
	c.Reporter(filepath.Dir(path)).Report(c.Stderr, e)
}

// VersionCmd represents the version command
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	_, e := fmt.Fprintln(ctx.Stdout, "pegx "+version)
	return e
}
