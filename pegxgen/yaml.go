package pegxgen

import (
	"github.com/goccy/go-yaml"

	"github.com/ava12/pegx/grammar"
)

type yamlTarget struct{}

func (yamlTarget) Name() string {
	return "yaml"
}

type yamlGrammar struct {
	Name       string        `yaml:"name,omitempty"`
	Directives yaml.MapSlice `yaml:"directives,omitempty"`
	Rules      []yamlRule    `yaml:"rules"`
}

type yamlRule struct {
	Name       string        `yaml:"name"`
	Base       string        `yaml:"base,omitempty"`
	Decorators []string      `yaml:"decorators,omitempty"`
	Params     []string      `yaml:"params,omitempty"`
	KwParams   yaml.MapSlice `yaml:"kwparams,omitempty"`
	Expr       any           `yaml:"expr"`
}

// Render dumps grammar model, each expression is a mapping with "kind" key.
func (yamlTarget) Render(g *grammar.Grammar, opts Options) ([]byte, error) {
	doc := yamlGrammar{Name: g.Name}
	for _, d := range g.Directives() {
		doc.Directives = append(doc.Directives, yaml.MapItem{Key: d.Name, Value: d.Value})
	}

	for _, r := range g.Rules {
		expr, e := yamlExpr(r.Expr)
		if e != nil {
			return nil, e
		}

		yr := yamlRule{
			Name:       r.Name,
			Base:       r.Base,
			Decorators: r.Decorators,
			Params:     r.Params,
			Expr:       expr,
		}
		for _, kw := range r.KwParams {
			yr.KwParams = append(yr.KwParams, yaml.MapItem{Key: kw.Key, Value: kw.Value})
		}
		doc.Rules = append(doc.Rules, yr)
	}

	return yaml.Marshal(doc)
}

func yamlExprs(nodes []grammar.Node) ([]any, error) {
	res := make([]any, len(nodes))
	for i, n := range nodes {
		var e error
		res[i], e = yamlExpr(n)
		if e != nil {
			return nil, e
		}
	}
	return res, nil
}

func yamlExpr(n grammar.Node) (yaml.MapSlice, error) {
	res := yaml.MapSlice{{Key: "kind", Value: n.Kind().String()}}
	add := func(key string, value any) {
		res = append(res, yaml.MapItem{Key: key, Value: value})
	}

	var (
		item     grammar.Node
		children []grammar.Node
	)
	switch n := n.(type) {
	case *grammar.Token:
		add("literal", n.Literal)
	case *grammar.Pattern:
		add("pattern", n.Source)
	case *grammar.Sequence:
		children = n.Items
	case *grammar.Choice:
		children = n.Options
	case *grammar.Repetition:
		add("min", n.Min)
		add("max", n.Max)
		item = n.Item
	case *grammar.Optional:
		item = n.Item
	case *grammar.Lookahead:
		add("negate", n.Negate)
		item = n.Item
	case *grammar.RuleRef:
		add("rule", n.Name)
	case *grammar.RuleInclude:
		add("rule", n.Name)
	case *grammar.Override:
		add("list", n.List)
		item = n.Item
	case *grammar.Named:
		add("name", n.Name)
		add("list", n.List)
		item = n.Item
	case *grammar.Cut, *grammar.EOF, *grammar.Void:
	default:
		return nil, rendererNotFoundError("yaml", n)
	}

	if item != nil {
		v, e := yamlExpr(item)
		if e != nil {
			return nil, e
		}
		add("item", v)
	}
	if children != nil {
		v, e := yamlExprs(children)
		if e != nil {
			return nil, e
		}
		add("items", v)
	}
	return res, nil
}
