package parser

import (
	"log/slog"
	"regexp"

	"github.com/mitchellh/mapstructure"

	"github.com/ava12/pegx/grammar"
)

const (
	DefaultWhitespace = `\s+`
	DefaultMaxDepth   = 1000
)

// Options control the engine. Field tags match grammar directive names.
type Options struct {
	// Whitespace, Comments, and EOLComments are regular expressions skipped before tokens and patterns;
	// empty string disables skipping.
	Whitespace  string `mapstructure:"whitespace"`
	Comments    string `mapstructure:"comments"`
	EOLComments string `mapstructure:"eol_comments"`
	// NameGuard prevents name-like tokens from matching a prefix of a longer name, off by default.
	NameGuard bool `mapstructure:"nameguard"`
	// IgnoreCase makes token matching case-insensitive.
	IgnoreCase bool `mapstructure:"ignorecase"`
	// Memoize caches rule results per position.
	Memoize bool `mapstructure:"memoize"`
	// MaxDepth limits rule nesting, 0 means no limit.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxSteps limits number of engine steps, 0 means no limit.
	MaxSteps uint64 `mapstructure:"max_steps"`

	// Budget, if set, is called periodically with current step count; returned error aborts the parse.
	Budget func(steps uint64) error `mapstructure:"-"`
	// Logger receives rule enter/leave records at TRACE level.
	Logger *slog.Logger `mapstructure:"-"`
}

func DefaultOptions() Options {
	return Options{
		Whitespace: DefaultWhitespace,
		Memoize:    true,
		MaxDepth:   DefaultMaxDepth,
	}
}

// DecodeOptions returns default options overridden by grammar directives.
func DecodeOptions(directives map[string]string) (Options, error) {
	o := DefaultOptions()
	e := o.Apply(directives)
	return o, e
}

// Apply overrides options with grammar directives, unknown directives are ignored.
func (o *Options) Apply(directives map[string]string) error {
	input := make(map[string]any, len(directives))
	for k, v := range directives {
		if grammar.IsRegexpDirective(k) && v == grammar.NoneValue {
			v = ""
		}
		input[k] = v
	}

	d, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           o,
	})
	if e == nil {
		e = d.Decode(input)
	}
	if e != nil {
		return invalidOptionsError(e)
	}
	return nil
}

func (o *Options) skipPatterns() ([]*regexp.Regexp, error) {
	var res []*regexp.Regexp
	for _, src := range []string{o.Whitespace, o.Comments, o.EOLComments} {
		if src == "" {
			continue
		}
		re, e := grammar.CompilePattern(src)
		if e != nil {
			return nil, invalidOptionsError(e)
		}
		res = append(res, re)
	}
	return res, nil
}

// Option modifies parser options.
type Option func(*Options)

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

func WithMaxSteps(steps uint64) Option {
	return func(o *Options) { o.MaxSteps = steps }
}

func WithBudget(budget func(steps uint64) error) Option {
	return func(o *Options) { o.Budget = budget }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithMemoize(memoize bool) Option {
	return func(o *Options) { o.Memoize = memoize }
}

func WithWhitespace(re string) Option {
	return func(o *Options) { o.Whitespace = re }
}
