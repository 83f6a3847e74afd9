package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava12/pegx/grammar"
)

var errNoFiles = errors.New("no grammar files given")

// CheckCmd loads grammars and reports unreachable and left-recursive rules.
// Left recursion fails the check since the engine rejects it at run time.
type CheckCmd struct {
	Files []string `arg:"" optional:"" help:"Grammar files (.ebnf or .md), default is grammars listed in config."`
}

func (cmd *CheckCmd) Run(ctx *Context) error {
	files := cmd.Files
	if len(files) == 0 {
		files = ctx.Config.Grammars
	}
	if len(files) == 0 {
		return errNoFiles
	}

	failed := false
	for _, file := range files {
		g, e := ctx.LoadGrammar(file)
		if e != nil {
			failed = true
			ctx.ReportGrammarError(file, e)
			continue
		}

		problems := checkGrammar(g)
		if len(problems) == 0 {
			fmt.Fprintf(ctx.Stdout, "%s: ok\n", file)
			continue
		}
		for _, p := range problems {
			fmt.Fprintf(ctx.Stdout, "%s: %s\n", file, p.text)
			failed = failed || p.fatal
		}
	}

	if failed {
		return errReported
	}
	return nil
}

type problem struct {
	text  string
	fatal bool
}

func checkGrammar(g *grammar.Grammar) []problem {
	var res []problem
	if names := grammar.Unreachable(g); len(names) > 0 {
		res = append(res, problem{"warning: unreachable rules: " + strings.Join(names, ", "), false})
	}
	if names := grammar.LeftRecursive(g); len(names) > 0 {
		res = append(res, problem{"error: left-recursive rules: " + strings.Join(names, ", "), true})
	}
	return res
}
