package grammar

import (
	"regexp"
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Builder collects rules and directives of a single grammar.
// Each grammar build uses its own builder.
type Builder struct {
	rules      []*Rule
	index      map[string]int
	directives *linkedhashmap.Map
}

func NewBuilder() *Builder {
	return &Builder{
		index:      make(map[string]int),
		directives: linkedhashmap.New(),
	}
}

// CompilePattern compiles pattern source so that it matches only at the start of input.
func CompilePattern(src string) (*regexp.Regexp, error) {
	if _, e := regexp.Compile(src); e != nil {
		return nil, e
	}
	return regexp.Compile(`\A(?:` + src + `)`)
}

// MustCompilePattern is like CompilePattern but panics on error. Used by generated parsers.
func MustCompilePattern(src string) *regexp.Regexp {
	re, e := CompilePattern(src)
	if e != nil {
		panic(e)
	}
	return re
}

// Token creates token node, text must not be empty.
func (b *Builder) Token(text string) (Node, error) {
	if text == "" {
		return nil, emptyTokenError()
	}
	return &Token{Literal: text}, nil
}

// Pattern creates pattern node, src must be a valid RE2 regular expression.
func (b *Builder) Pattern(src string) (Node, error) {
	re, e := CompilePattern(src)
	if e != nil {
		return nil, invalidPatternError(src, e)
	}
	return &Pattern{Source: src, Re: re}, nil
}

// Repetition creates repetition node, max is either Unbounded or not less than min.
func (b *Builder) Repetition(item Node, min, max int) (Node, error) {
	if min < 0 || (max != Unbounded && max < min) || max < Unbounded {
		return nil, invalidRepeatError(min, max)
	}
	return &Repetition{Item: item, Min: min, Max: max}, nil
}

// RuleRef creates rule reference, the rule may be declared later.
func (b *Builder) RuleRef(name string) *RuleRef {
	return &RuleRef{Name: name}
}

// RuleInclude creates rule inclusion, the rule may be declared later.
func (b *Builder) RuleInclude(name string) *RuleInclude {
	return &RuleInclude{Name: name}
}

// DeclareRule adds a rule.
// A rule with Override flag replaces previously declared rule with the same name.
// A rule with Base set extends previously declared base rule.
// Empty sequences in rule expression are replaced with Void.
func (b *Builder) DeclareRule(r *Rule) (*Rule, error) {
	r.Expr = voidEmpty(r.Expr)
	i, exists := b.index[r.Name]
	if r.Override {
		if !exists {
			return nil, unknownBaseRuleError(r.Name, r.Name)
		}
	} else if exists {
		return nil, duplicateRuleError(r.Name)
	}

	if r.Base != "" {
		bi, found := b.index[r.Base]
		if !found || r.Base == r.Name {
			return nil, unknownBaseRuleError(r.Name, r.Base)
		}

		base := b.rules[bi]
		r.base = base
		r.expr = NewSequence(base.Expression(), r.Expr)
		if len(r.Params) == 0 && len(r.KwParams) == 0 {
			r.Params = base.Params
			r.KwParams = base.KwParams
		}
	}

	if exists {
		b.rules[i] = r
	} else {
		b.index[r.Name] = len(b.rules)
		b.rules = append(b.rules, r)
	}
	return r, nil
}

func voidEmpty(n Node) Node {
	switch n := n.(type) {
	case *Sequence:
		if len(n.Items) == 0 {
			return &Void{}
		}
		for i, item := range n.Items {
			n.Items[i] = voidEmpty(item)
		}
	case *Choice:
		for i, option := range n.Options {
			n.Options[i] = voidEmpty(option)
		}
	case *Repetition:
		n.Item = voidEmpty(n.Item)
	case *Optional:
		n.Item = voidEmpty(n.Item)
	case *Lookahead:
		n.Item = voidEmpty(n.Item)
	case *Override:
		n.Item = voidEmpty(n.Item)
	case *Named:
		n.Item = voidEmpty(n.Item)
	}
	return n
}

var regexpDirectives = map[string]bool{
	WhitespaceDirective:  true,
	CommentsDirective:    true,
	EOLCommentsDirective: true,
}

var boolDirectives = map[string]bool{
	NameGuardDirective:  true,
	IgnoreCaseDirective: true,
	MemoizeDirective:    true,
}

// IsRegexpDirective reports whether directive value is a regular expression.
func IsRegexpDirective(name string) bool {
	return regexpDirectives[name]
}

// SetDirective validates and stores a directive, each directive may be set once.
func (b *Builder) SetDirective(name, value string) error {
	switch {
	case name == GrammarDirective:
	case regexpDirectives[name]:
		if value != NoneValue {
			if _, e := regexp.Compile(value); e != nil {
				return invalidDirectiveError(name, value, e)
			}
		}
	case boolDirectives[name]:
		if _, e := strconv.ParseBool(value); e != nil {
			return invalidDirectiveError(name, value, e)
		}
	default:
		return unknownDirectiveError(name)
	}

	if _, found := b.directives.Get(name); found {
		return duplicateDirectiveError(name)
	}
	b.directives.Put(name, value)
	return nil
}

// Finalize checks that all referenced rules are declared and returns the grammar.
// Builder must not be used afterwards.
func (b *Builder) Finalize() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, noRulesError()
	}

	unresolved := treeset.NewWith(utils.StringComparator)
	for _, r := range b.rules {
		Walk(r.Expr, func(n Node) bool {
			var name string
			switch n := n.(type) {
			case *RuleRef:
				name = n.Name
			case *RuleInclude:
				name = n.Name
			default:
				return true
			}
			if _, found := b.index[name]; !found {
				unresolved.Add(name)
			}
			return true
		})
	}
	if !unresolved.Empty() {
		names := make([]string, 0, unresolved.Size())
		for _, v := range unresolved.Values() {
			names = append(names, v.(string))
		}
		return nil, unresolvedRuleError(names)
	}

	g := &Grammar{
		Rules:      b.rules,
		index:      make(map[string]*Rule, len(b.rules)),
		directives: b.directives,
	}
	for _, r := range b.rules {
		g.index[r.Name] = r
	}
	g.Name, _ = g.Directive(GrammarDirective)
	return g, nil
}
