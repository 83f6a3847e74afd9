package langdef

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/source"
)

var errNoLoader = errors.New("no loader")

// Option modifies grammar description parsing.
type Option func(*config)

type config struct {
	loader Loader
	ctx    context.Context
	logger *slog.Logger
}

// WithLoader sets loader of included files; includes fail without a loader.
func WithLoader(l Loader) Option {
	return func(c *config) { c.loader = l }
}

func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithLogger sets logger receiving engine traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// ParseString parses grammar description and returns a grammar on success.
// Returns nil and *pegx.Error on error.
func ParseString(name, content string, opts ...Option) (*grammar.Grammar, error) {
	return Parse(source.FromString(name, content), opts...)
}

// ParseBytes parses grammar description and returns a grammar on success.
// Returns nil and *pegx.Error on error.
func ParseBytes(name string, content []byte, opts ...Option) (*grammar.Grammar, error) {
	return Parse(source.New(name, content), opts...)
}

// ParseFile loads grammar description using loader and parses it.
// The same loader is used for included files unless WithLoader option is given.
func ParseFile(loader Loader, name string, opts ...Option) (*grammar.Grammar, error) {
	src, e := loader.Load(name)
	if e != nil {
		return nil, includeError(nil, name, e)
	}
	return Parse(src, append([]Option{WithLoader(loader)}, opts...)...)
}

// Parse parses grammar description and returns a grammar on success.
// Returns nil and *pegx.Error on error.
func Parse(src *source.Source, opts ...Option) (*grammar.Grammar, error) {
	cfg := &config{ctx: context.Background()}
	for _, opt := range opts {
		opt(cfg)
	}

	p := defaultParser()
	if cfg.logger != nil {
		var e error
		p, e = parser.New(Bootstrap(), parser.WithLogger(cfg.logger))
		if e != nil {
			return nil, e
		}
	}

	b := grammar.NewBuilder()
	c := &compiler{
		config:  cfg,
		parser:  p,
		builder: b,
		hooks:   newHooks(b),
	}
	if e := c.compile(src); e != nil {
		return nil, e
	}
	return b.Finalize()
}

type compiler struct {
	*config
	parser  *parser.Parser
	builder *grammar.Builder
	hooks   *parser.Hooks
	files   []string
}

func (c *compiler) compile(src *source.Source) error {
	c.files = append(c.files, src.Name())
	defer func() {
		c.files = c.files[:len(c.files)-1]
	}()

	out, e := c.parser.Parse(c.ctx, src, "", c.hooks)
	if e != nil {
		return e
	}

	for _, decl := range out.Value.([]any) {
		e = c.declare(src, decl)
		if e != nil {
			return e
		}
	}
	return nil
}

func (c *compiler) declare(src *source.Source, decl any) error {
	switch d := decl.(type) {
	case *directiveDecl:
		return pegx.WithPos(c.builder.SetDirective(d.name, d.value), d.pos)

	case *includeDecl:
		return c.include(src.Name(), d)

	case *ruleDecl:
		for _, name := range d.rule.Decorators {
			if name != "override" {
				return unknownDecoratorError(d.pos, name)
			}
			d.rule.Override = true
		}
		_, e := c.builder.DeclareRule(d.rule)
		return pegx.WithPos(e, d.pos)
	}

	return invalidDeclarationError(decl)
}

func (c *compiler) include(from string, d *includeDecl) error {
	if c.loader == nil {
		return includeError(d.pos, d.file, errNoLoader)
	}

	name := resolveName(from, d.file)
	for i, f := range c.files {
		if f == name {
			chain := append(append([]string(nil), c.files[i:]...), name)
			return includeCycleError(d.pos, chain)
		}
	}

	src, e := c.loader.Load(name)
	if e != nil {
		return includeError(d.pos, name, e)
	}
	return c.compile(src)
}
