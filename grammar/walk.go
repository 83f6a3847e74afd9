package grammar

import (
	"strconv"
)

// Children returns direct subexpressions of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Sequence:
		return n.Items
	case *Choice:
		return n.Options
	case *Repetition:
		return []Node{n.Item}
	case *Optional:
		return []Node{n.Item}
	case *Lookahead:
		return []Node{n.Item}
	case *Override:
		return []Node{n.Item}
	case *Named:
		return []Node{n.Item}
	}
	return nil
}

// Walk visits n and its subexpressions depth-first.
// Subexpressions of a node are skipped if visitor returns false.
func Walk(n Node, visitor func(Node) bool) {
	if n == nil || !visitor(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visitor)
	}
}

// Equal reports whether two expressions have the same structure.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case *Token:
		return a.Literal == b.(*Token).Literal
	case *Pattern:
		return a.Source == b.(*Pattern).Source
	case *Repetition:
		bb := b.(*Repetition)
		if a.Min != bb.Min || a.Max != bb.Max {
			return false
		}
	case *Lookahead:
		if a.Negate != b.(*Lookahead).Negate {
			return false
		}
	case *RuleRef:
		return a.Name == b.(*RuleRef).Name
	case *RuleInclude:
		return a.Name == b.(*RuleInclude).Name
	case *Override:
		if a.List != b.(*Override).List {
			return false
		}
	case *Named:
		bb := b.(*Named)
		if a.Name != bb.Name || a.List != bb.List {
			return false
		}
	}

	ac, bc := Children(a), Children(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// EqualRules reports whether two rules have the same declaration.
func EqualRules(a, b *Rule) bool {
	if a.Name != b.Name || a.Base != b.Base || a.Override != b.Override ||
		!equalStrings(a.Params, b.Params) || !equalStrings(a.Decorators, b.Decorators) ||
		len(a.KwParams) != len(b.KwParams) {
		return false
	}
	for i := range a.KwParams {
		if a.KwParams[i] != b.KwParams[i] {
			return false
		}
	}
	return Equal(a.Expr, b.Expr)
}

// EqualGrammars reports whether two grammars have the same directives and rules.
func EqualGrammars(a, b *Grammar) bool {
	ad, bd := a.Directives(), b.Directives()
	if a.Name != b.Name || len(ad) != len(bd) || len(a.Rules) != len(b.Rules) {
		return false
	}
	for i := range ad {
		if ad[i] != bd[i] {
			return false
		}
	}
	for i := range a.Rules {
		if !EqualRules(a.Rules[i], b.Rules[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Describe returns short description of expression used in error messages.
func Describe(n Node) string {
	switch n := n.(type) {
	case *Token:
		return strconv.Quote(n.Literal)
	case *Pattern:
		return "/" + n.Source + "/"
	case *RuleRef:
		return n.Name
	case *RuleInclude:
		return ">" + n.Name
	case *EOF:
		return "end of input"
	case *Lookahead:
		if n.Negate {
			return "!" + Describe(n.Item)
		}
		return "&" + Describe(n.Item)
	case *Named:
		return Describe(n.Item)
	case *Override:
		return Describe(n.Item)
	case nil:
		return "nothing"
	}
	return n.Kind().String()
}
