package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ava12/pegx/pegxgen"
)

var targetExtensions = map[string]string{
	"go":   ".go",
	"ebnf": ".gen.ebnf",
	"yaml": ".yaml",
}

// GenCmd renders grammar files concurrently.
type GenCmd struct {
	Files      []string `arg:"" optional:"" help:"Grammar files (.ebnf or .md), default is grammars listed in config."`
	Target     string   `help:"Output target: go, ebnf, yaml." short:"t"`
	Output     string   `help:"Output directory, default is the directory of each grammar file." short:"o" type:"path"`
	Package    string   `help:"Go package name." short:"p"`
	Type       string   `help:"Go parser type name."`
	ImportPath string   `help:"Import path of pegx module used by generated code." name:"import-path"`
	Stdout     bool     `help:"Write result to standard output instead of files."`
}

func (cmd *GenCmd) Run(ctx *Context) error {
	files := cmd.Files
	if len(files) == 0 {
		files = ctx.Config.Grammars
	}
	if len(files) == 0 {
		return errNoFiles
	}

	target := firstNonEmpty(cmd.Target, ctx.Config.Target)
	if _, e := pegxgen.Lookup(target); e != nil {
		return e
	}

	opts := ctx.Config.RenderOptions()
	opts.Package = firstNonEmpty(cmd.Package, opts.Package)
	opts.TypeName = firstNonEmpty(cmd.Type, opts.TypeName)
	opts.ImportPath = firstNonEmpty(cmd.ImportPath, opts.ImportPath)
	outDir := firstNonEmpty(cmd.Output, ctx.Config.Output)

	results := make([][]byte, len(files))
	errs := make([]error, len(files))
	eg, egCtx := errgroup.WithContext(ctx.Context)
	eg.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		eg.Go(func() error {
			if e := egCtx.Err(); e != nil {
				return e
			}
			results[i], errs[i] = cmd.render(ctx, file, target, opts, outDir)
			return nil
		})
	}
	if e := eg.Wait(); e != nil {
		return e
	}

	failed := false
	for i, e := range errs {
		if e != nil {
			failed = true
			ctx.ReportGrammarError(files[i], e)
			continue
		}
		if cmd.Stdout {
			if _, e = ctx.Stdout.Write(results[i]); e != nil {
				return e
			}
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func (cmd *GenCmd) render(ctx *Context, file, target string, opts pegxgen.Options, outDir string) ([]byte, error) {
	g, e := ctx.LoadGrammar(file)
	if e != nil {
		return nil, e
	}

	content, e := pegxgen.Render(g, target, opts)
	if e != nil || cmd.Stdout {
		return content, e
	}

	name := outputName(file, target, outDir)
	if e = os.WriteFile(name, content, 0o666); e != nil {
		return nil, e
	}
	ctx.Logger.Info("generated", "grammar", file, "target", target, "output", name)
	return nil, nil
}

func outputName(file, target, outDir string) string {
	ext, found := targetExtensions[target]
	if !found {
		ext = "." + target
	}

	dir, base := filepath.Split(file)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, base)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
