package main

import (
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/source"
	"github.com/ava12/pegx/tree"
)

// ParseCmd parses input with a grammar interpreted by the engine.
type ParseCmd struct {
	Grammar string `arg:"" help:"Grammar file (.ebnf or .md)."`
	Input   string `arg:"" optional:"" default:"-" help:"Input file, default is standard input."`
	Start   string `help:"Start rule, default is the first rule." short:"s"`
	Format  string `help:"Output format: yaml, dump." enum:"yaml,dump" default:"yaml" short:"f"`
	Full    bool   `help:"Require input to be consumed entirely."`
}

func (cmd *ParseCmd) Run(ctx *Context) error {
	g, e := ctx.LoadGrammar(cmd.Grammar)
	if e != nil {
		ctx.ReportGrammarError(cmd.Grammar, e)
		return errReported
	}

	opts := append(ctx.Config.ParserOptions(), parser.WithLogger(ctx.Logger))
	p, e := parser.New(g, opts...)
	if e != nil {
		return e
	}

	src, e := cmd.readInput(ctx.Stdin)
	if e != nil {
		return e
	}

	res, e := p.Parse(ctx, src, cmd.Start, nil)
	if e != nil {
		ctx.Reporter("", src).Report(ctx.Stderr, e)
		return errReported
	}
	ctx.Logger.Debug("parsed", "input", src.Name(), "end", res.End, "steps", res.Steps)
	if res.End < src.Len() {
		if cmd.Full {
			e = pegx.FormatErrorPos(src.At(res.End), parser.EOFError, "expected end of input")
			ctx.Reporter("", src).Report(ctx.Stderr, e)
			return errReported
		}
		line, col := src.LineCol(res.End)
		ctx.Logger.Warn("input not consumed entirely", "line", line, "col", col)
	}

	var out []byte
	if cmd.Format == "dump" {
		out = []byte(tree.Dump(res.Value) + "\n")
	} else if out, e = yaml.Marshal(res.Value); e != nil {
		return e
	}
	_, e = ctx.Stdout.Write(out)
	return e
}

func (cmd *ParseCmd) readInput(stdin io.Reader) (*source.Source, error) {
	if cmd.Input == "-" {
		content, e := io.ReadAll(stdin)
		if e != nil {
			return nil, e
		}
		return source.New("<stdin>", content), nil
	}

	content, e := os.ReadFile(cmd.Input)
	if e != nil {
		return nil, e
	}
	return source.New(cmd.Input, content), nil
}
