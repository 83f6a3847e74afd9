// Package grammar defines grammar model: rules and parsing expressions.
//
// Grammar is built by Builder and is immutable afterwards, so a single grammar
// may be used by any number of parsers and renderers concurrently.
package grammar

import (
	"regexp"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Kind identifies parsing expression type.
type Kind int

const (
	TokenKind Kind = iota
	PatternKind
	SequenceKind
	ChoiceKind
	RepetitionKind
	OptionalKind
	CutKind
	LookaheadKind
	RuleRefKind
	RuleIncludeKind
	OverrideKind
	NamedKind
	EOFKind
	VoidKind
)

var kindNames = [...]string{
	TokenKind:       "token",
	PatternKind:     "pattern",
	SequenceKind:    "sequence",
	ChoiceKind:      "choice",
	RepetitionKind:  "repetition",
	OptionalKind:    "optional",
	CutKind:         "cut",
	LookaheadKind:   "lookahead",
	RuleRefKind:     "rule-ref",
	RuleIncludeKind: "rule-include",
	OverrideKind:    "override",
	NamedKind:       "named",
	EOFKind:         "eof",
	VoidKind:        "void",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a parsing expression.
// The set of implementations is closed: all of them are defined in this package.
type Node interface {
	Kind() Kind
}

// Token matches literal text.
type Token struct {
	Literal string
}

// Pattern matches a regular expression (RE2 syntax) anchored at current position.
type Pattern struct {
	Source string
	Re     *regexp.Regexp
}

// Sequence matches all items in order.
type Sequence struct {
	Items []Node
}

// Choice matches the first successful option (PEG ordered choice).
type Choice struct {
	Options []Node
}

// Unbounded is the Max value of unbounded repetition.
const Unbounded = -1

// Repetition matches Item from Min to Max times greedily.
type Repetition struct {
	Item     Node
	Min, Max int
}

// Optional matches Item or nothing.
type Optional struct {
	Item Node
}

// Cut commits the innermost enclosing option.
type Cut struct{}

// Lookahead matches Item (or its absence if Negate is set) without consuming input.
type Lookahead struct {
	Item   Node
	Negate bool
}

// RuleRef invokes a rule.
type RuleRef struct {
	Name string
}

// RuleInclude splices the body of a rule in place, without a rule call.
type RuleInclude struct {
	Name string
}

// Override makes value of Item the value of enclosing rule.
// List collects values of all such overrides into a list.
type Override struct {
	Item Node
	List bool
}

// Named stores value of Item in the AST of enclosing rule.
type Named struct {
	Name string
	Item Node
	List bool
}

// EOF matches the end of input.
type EOF struct{}

// Void matches empty input.
type Void struct{}

func (*Token) Kind() Kind       { return TokenKind }
func (*Pattern) Kind() Kind     { return PatternKind }
func (*Sequence) Kind() Kind    { return SequenceKind }
func (*Choice) Kind() Kind      { return ChoiceKind }
func (*Repetition) Kind() Kind  { return RepetitionKind }
func (*Optional) Kind() Kind    { return OptionalKind }
func (*Cut) Kind() Kind         { return CutKind }
func (*Lookahead) Kind() Kind   { return LookaheadKind }
func (*RuleRef) Kind() Kind     { return RuleRefKind }
func (*RuleInclude) Kind() Kind { return RuleIncludeKind }
func (*Override) Kind() Kind    { return OverrideKind }
func (*Named) Kind() Kind       { return NamedKind }
func (*EOF) Kind() Kind         { return EOFKind }
func (*Void) Kind() Kind        { return VoidKind }

func NewSequence(items ...Node) *Sequence {
	return &Sequence{Items: items}
}

func NewChoice(options ...Node) *Choice {
	return &Choice{Options: options}
}

func NewOptional(item Node) *Optional {
	return &Optional{Item: item}
}

func NewLookahead(item Node, negate bool) *Lookahead {
	return &Lookahead{Item: item, Negate: negate}
}

func NewNamed(name string, item Node, list bool) *Named {
	return &Named{Name: name, Item: item, List: list}
}

func NewOverride(item Node, list bool) *Override {
	return &Override{Item: item, List: list}
}

// KwParam is a keyword rule parameter.
type KwParam struct {
	Key, Value string
}

// Rule is a named parsing expression.
type Rule struct {
	Name       string
	Params     []string
	KwParams   []KwParam
	Decorators []string
	Expr       Node
	// Base contains base rule name or empty string.
	// Effective expression of a based rule is base rule expression followed by Expr.
	Base     string
	Override bool

	base *Rule
	expr Node
}

// Expression returns effective rule expression.
func (r *Rule) Expression() Node {
	if r.expr != nil {
		return r.expr
	}
	return r.Expr
}

// BaseRule returns resolved base rule or nil.
func (r *Rule) BaseRule() *Rule {
	return r.base
}

// IsLexical reports whether whitespace is skipped inside the rule; names of lexical rules start with "_".
func (r *Rule) IsLexical() bool {
	return IsLexicalName(r.Name)
}

// IsLexicalName reports whether a rule with given name is lexical.
func IsLexicalName(name string) bool {
	return name != "" && name[0] == '_'
}

// Directive is a grammar-level setting.
type Directive struct {
	Name, Value string
}

// Known directive names.
const (
	GrammarDirective     = "grammar"
	WhitespaceDirective  = "whitespace"
	CommentsDirective    = "comments"
	EOLCommentsDirective = "eol_comments"
	NameGuardDirective   = "nameguard"
	IgnoreCaseDirective  = "ignorecase"
	MemoizeDirective     = "memoize"
)

// NoneValue disables regexp directives.
const NoneValue = "None"

// Grammar is a finalized set of rules, the first rule is the start rule.
type Grammar struct {
	Name       string
	Rules      []*Rule
	index      map[string]*Rule
	directives *linkedhashmap.Map
}

// Rule returns rule by name or nil.
func (g *Grammar) Rule(name string) *Rule {
	return g.index[name]
}

// Start returns the first declared rule.
func (g *Grammar) Start() *Rule {
	if len(g.Rules) == 0 {
		return nil
	}
	return g.Rules[0]
}

// Directive returns directive value.
func (g *Grammar) Directive(name string) (string, bool) {
	if g.directives == nil {
		return "", false
	}
	v, found := g.directives.Get(name)
	if !found {
		return "", false
	}
	return v.(string), true
}

// Directives returns directives in declaration order.
func (g *Grammar) Directives() []Directive {
	if g.directives == nil {
		return nil
	}

	res := make([]Directive, 0, g.directives.Size())
	it := g.directives.Iterator()
	for it.Next() {
		res = append(res, Directive{it.Key().(string), it.Value().(string)})
	}
	return res
}

// DirectiveMap returns directives as a map.
func (g *Grammar) DirectiveMap() map[string]string {
	res := make(map[string]string)
	for _, d := range g.Directives() {
		res[d.Name] = d.Value
	}
	return res
}
