// Package parser defines backtracking PEG engine.
//
// Parser interprets grammar model directly; generated parsers call the same
// ParseContext primitives, so both behave identically.
package parser

import (
	"context"

	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/source"
)

// Parser interprets a grammar. Parser is immutable and may be used concurrently.
type Parser struct {
	grammar *grammar.Grammar
	options Options
}

// New creates parser for g, options are derived from grammar directives and then modified by opts.
func New(g *grammar.Grammar, opts ...Option) (*Parser, error) {
	o, e := DecodeOptions(g.DirectiveMap())
	if e != nil {
		return nil, e
	}

	for _, opt := range opts {
		opt(&o)
	}
	if _, e = o.skipPatterns(); e != nil {
		return nil, e
	}

	return &Parser{grammar: g, options: o}, nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Options() Options {
	return p.options
}

// Parse parses src starting with rule named start (the first grammar rule if start is empty).
// Input need not be consumed entirely, use EOF expression in grammar to require it.
func (p *Parser) Parse(ctx context.Context, src *source.Source, start string, hooks *Hooks) (*Outcome, error) {
	rule := p.grammar.Start()
	if start != "" {
		rule = p.grammar.Rule(start)
	}
	if rule == nil {
		return nil, UnknownRule(start)
	}

	return Run(ctx, src, p.options, hooks, func(pc *ParseContext) Result {
		in := &interpreter{grammar: p.grammar, pc: pc}
		return in.call(rule)
	})
}

// ParseString is a shortcut for Parse with source created from a string.
func (p *Parser) ParseString(ctx context.Context, name, content, start string, hooks *Hooks) (*Outcome, error) {
	return p.Parse(ctx, source.FromString(name, content), start, hooks)
}

type interpreter struct {
	grammar *grammar.Grammar
	pc      *ParseContext
}

func (in *interpreter) call(r *grammar.Rule) Result {
	return in.pc.Call(r.Name, in.thunk(r.Expression()))
}

func (in *interpreter) thunk(n grammar.Node) func() Result {
	return func() Result {
		return in.eval(n)
	}
}

func (in *interpreter) thunks(nodes []grammar.Node) []func() Result {
	res := make([]func() Result, len(nodes))
	for i, n := range nodes {
		res[i] = in.thunk(n)
	}
	return res
}

func (in *interpreter) eval(n grammar.Node) Result {
	pc := in.pc
	switch n := n.(type) {
	case *grammar.Token:
		return pc.Token(n.Literal)
	case *grammar.Pattern:
		return pc.Pattern(n.Re, n.Source)
	case *grammar.Sequence:
		return pc.Sequence(in.thunks(n.Items)...)
	case *grammar.Choice:
		return pc.Choice(in.thunks(n.Options)...)
	case *grammar.Repetition:
		return pc.Repeat(n.Min, n.Max, in.thunk(n.Item))
	case *grammar.Optional:
		return pc.Optional(in.thunk(n.Item))
	case *grammar.Cut:
		return pc.Cut()
	case *grammar.Lookahead:
		return pc.Lookahead(n.Negate, grammar.Describe(n), in.thunk(n.Item))
	case *grammar.RuleRef:
		r := in.grammar.Rule(n.Name)
		if r == nil {
			return Failed(pc.fatal(FailedRef, pc.Pos(), "undeclared rule %q", n.Name))
		}
		return in.call(r)
	case *grammar.RuleInclude:
		r := in.grammar.Rule(n.Name)
		if r == nil {
			return Failed(pc.fatal(FailedRef, pc.Pos(), "undeclared rule %q", n.Name))
		}
		return in.eval(r.Expression())
	case *grammar.Override:
		return pc.Override(n.List, in.thunk(n.Item))
	case *grammar.Named:
		return pc.Named(n.Name, n.List, in.thunk(n.Item))
	case *grammar.EOF:
		return pc.EOF()
	case *grammar.Void:
		return pc.Void()
	}
	return Failed(pc.fatal(FailedRef, pc.Pos(), "unsupported expression %T", n))
}
