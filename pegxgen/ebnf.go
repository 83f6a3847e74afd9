package pegxgen

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/ava12/pegx/grammar"
)

type ebnfTarget struct{}

func (ebnfTarget) Name() string {
	return "ebnf"
}

// Render writes grammar back in grammar description language.
// Override decorators are omitted: the rendered grammar contains only the resulting rules.
func (ebnfTarget) Render(g *grammar.Grammar, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	for _, d := range g.Directives() {
		buf.WriteString("@@" + d.Name + " :: " + directiveValue(d) + "\n")
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}

	for _, r := range g.Rules {
		for _, d := range r.Decorators {
			if d != "override" {
				buf.WriteString("@" + d + "\n")
			}
		}

		buf.WriteString(r.Name)
		if r.Base != "" {
			buf.WriteString(" < " + r.Base)
		}
		if (len(r.Params) > 0 || len(r.KwParams) > 0) && !inheritsParams(r) {
			params := make([]string, 0, len(r.Params)+len(r.KwParams))
			for _, p := range r.Params {
				params = append(params, literal(p))
			}
			for _, kw := range r.KwParams {
				params = append(params, kw.Key+"="+literal(kw.Value))
			}
			buf.WriteString("(" + strings.Join(params, ", ") + ")")
		}

		expr, e := ebnfExpr(r.Expr, precChoice)
		if e != nil {
			return nil, e
		}
		buf.WriteString(" = " + expr + " ;\n")
	}
	return buf.Bytes(), nil
}

// inheritsParams reports whether based rule has the same parameters as its base.
func inheritsParams(r *grammar.Rule) bool {
	base := r.BaseRule()
	if base == nil || len(base.Params) != len(r.Params) || len(base.KwParams) != len(r.KwParams) {
		return false
	}
	for i := range r.Params {
		if r.Params[i] != base.Params[i] {
			return false
		}
	}
	for i := range r.KwParams {
		if r.KwParams[i] != base.KwParams[i] {
			return false
		}
	}
	return true
}

var numberRe = regexp.MustCompile(`^[-+]?[0-9]+(?:\.[0-9]+)?$`)

func directiveValue(d grammar.Directive) string {
	if grammar.IsRegexpDirective(d.Name) && d.Value != grammar.NoneValue {
		return slashed(d.Value)
	}
	if identRe.MatchString(d.Value) {
		return d.Value
	}
	return strconv.Quote(d.Value)
}

func literal(s string) string {
	if identRe.MatchString(s) || numberRe.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

func slashed(src string) string {
	var sb strings.Builder
	sb.WriteByte('/')
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			sb.WriteByte(c)
			i++
			c = src[i]
		case c == '/':
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('/')
	return sb.String()
}

// Binding strength of expression forms.
const (
	precChoice = iota
	precSequence
	precPrefix
	precTerm
)

func precedence(n grammar.Node) int {
	switch n := n.(type) {
	case *grammar.Choice:
		return precChoice
	case *grammar.Sequence:
		if len(n.Items) == 1 {
			return precedence(n.Items[0])
		}
		return precSequence
	case *grammar.Named, *grammar.Override:
		return precPrefix
	}
	return precTerm
}

func ebnfExpr(n grammar.Node, min int) (string, error) {
	res, e := ebnfForm(n)
	if e == nil && precedence(n) < min {
		res = "(" + res + ")"
	}
	return res, e
}

func ebnfList(nodes []grammar.Node, min int, sep string) (string, error) {
	items := make([]string, len(nodes))
	for i, n := range nodes {
		var e error
		items[i], e = ebnfExpr(n, min)
		if e != nil {
			return "", e
		}
	}
	return strings.Join(items, sep), nil
}

func ebnfForm(n grammar.Node) (string, error) {
	switch n := n.(type) {
	case *grammar.Token:
		return strconv.Quote(n.Literal), nil

	case *grammar.Pattern:
		return slashed(n.Source), nil

	case *grammar.Sequence:
		if len(n.Items) == 0 {
			return "()", nil
		}
		return ebnfList(n.Items, precSequence+1, " ")

	case *grammar.Choice:
		return ebnfList(n.Options, precSequence, " | ")

	case *grammar.Repetition:
		item, e := ebnfExpr(n.Item, precChoice)
		if e != nil {
			return "", e
		}
		res := "{ " + item + " }"
		switch {
		case n.Min == 0 && n.Max == grammar.Unbounded:
		case n.Min == 1 && n.Max == grammar.Unbounded:
			res += "+"
		case n.Max == grammar.Unbounded:
			res += "<" + strconv.Itoa(n.Min) + ",>"
		case n.Min == n.Max:
			res += "<" + strconv.Itoa(n.Min) + ">"
		default:
			res += "<" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + ">"
		}
		return res, nil

	case *grammar.Optional:
		item, e := ebnfExpr(n.Item, precChoice)
		return "[ " + item + " ]", e

	case *grammar.Cut:
		return "~", nil

	case *grammar.Lookahead:
		item, e := ebnfExpr(n.Item, precTerm)
		if n.Negate {
			return "!" + item, e
		}
		return "&" + item, e

	case *grammar.RuleRef:
		return n.Name, nil

	case *grammar.RuleInclude:
		return ">" + n.Name, nil

	case *grammar.Override:
		item, e := ebnfExpr(n.Item, precTerm)
		if n.List {
			return "@+:" + item, e
		}
		return "@:" + item, e

	case *grammar.Named:
		item, e := ebnfExpr(n.Item, precTerm)
		if n.List {
			return n.Name + "+:" + item, e
		}
		return n.Name + ":" + item, e

	case *grammar.EOF:
		return "$", nil

	case *grammar.Void:
		return "()", nil
	}

	return "", rendererNotFoundError("ebnf", n)
}
