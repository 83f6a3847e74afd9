package langdef

import (
	"strconv"

	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/source"
	"github.com/ava12/pegx/tree"
)

// Declarations produced by the top level of grammar description.
type (
	directiveDecl struct {
		name, value string
		pos         source.Pos
	}

	includeDecl struct {
		file string
		pos  source.Pos
	}

	ruleDecl struct {
		rule *grammar.Rule
		pos  source.Pos
	}
)

// newHooks returns semantic actions converting parsed description to grammar nodes.
// Hooks only create values, declarations are applied to the builder after the parse.
func newHooks(b *grammar.Builder) *parser.Hooks {
	return &parser.Hooks{Rules: parser.RuleHooks{
		"string": func(m *parser.Match, v any) (any, error) {
			return unquote(m, v.(string))
		},
		"regexp": func(m *parser.Match, v any) (any, error) {
			return unslash(v.(string)), nil
		},
		"number": func(m *parser.Match, v any) (any, error) {
			return m.Text(), nil
		},

		"directive": func(m *parser.Match, v any) (any, error) {
			ast := v.(*tree.AST)
			return &directiveDecl{ast.String("name"), ast.String("value"), m.Pos()}, nil
		},
		"include": func(m *parser.Match, v any) (any, error) {
			return &includeDecl{v.(*tree.AST).String("file"), m.Pos()}, nil
		},
		"rule":    ruleHook,
		"kwparam": kwParamHook,

		"expression": func(m *parser.Match, v any) (any, error) {
			return alt(nodes(v)...), nil
		},
		"sequence": func(m *parser.Match, v any) (any, error) {
			return seq(nodes(v)...), nil
		},
		"named": func(m *parser.Match, v any) (any, error) {
			ast := v.(*tree.AST)
			return grammar.NewNamed(ast.String("name"), ast.Get("exp").(grammar.Node), ast.String("op") == "+:"), nil
		},
		"override": func(m *parser.Match, v any) (any, error) {
			ast := v.(*tree.AST)
			return grammar.NewOverride(ast.Get("exp").(grammar.Node), ast.String("op") == "@+:"), nil
		},
		"lookahead": func(m *parser.Match, v any) (any, error) {
			ast := v.(*tree.AST)
			return grammar.NewLookahead(ast.Get("exp").(grammar.Node), ast.String("op") == "!"), nil
		},
		"closure": func(m *parser.Match, v any) (any, error) {
			return closureHook(b, m, v.(*tree.AST))
		},
		"optional": func(m *parser.Match, v any) (any, error) {
			return grammar.NewOptional(v.(grammar.Node)), nil
		},
		"void": func(m *parser.Match, v any) (any, error) {
			return &grammar.Void{}, nil
		},
		"cut": func(m *parser.Match, v any) (any, error) {
			return &grammar.Cut{}, nil
		},
		"eof": func(m *parser.Match, v any) (any, error) {
			return &grammar.EOF{}, nil
		},
		"include_ref": func(m *parser.Match, v any) (any, error) {
			return b.RuleInclude(v.(string)), nil
		},
		"rule_ref": func(m *parser.Match, v any) (any, error) {
			return b.RuleRef(v.(string)), nil
		},
		"token": func(m *parser.Match, v any) (any, error) {
			return b.Token(v.(string))
		},
		"pattern": func(m *parser.Match, v any) (any, error) {
			return b.Pattern(v.(string))
		},
	}}
}

func nodes(v any) []grammar.Node {
	list := v.([]any)
	res := make([]grammar.Node, len(list))
	for i, item := range list {
		res[i] = item.(grammar.Node)
	}
	return res
}

func kwParamHook(m *parser.Match, v any) (any, error) {
	ast := v.(*tree.AST)
	return grammar.KwParam{Key: ast.String("key"), Value: ast.String("value")}, nil
}

func ruleHook(m *parser.Match, v any) (any, error) {
	ast := v.(*tree.AST)
	r := &grammar.Rule{
		Name: ast.String("name"),
		Base: ast.String("base"),
		Expr: ast.Get("expr").(grammar.Node),
	}
	for _, d := range ast.List("decorators") {
		r.Decorators = append(r.Decorators, d.(string))
	}
	for _, p := range ast.List("params") {
		switch p := p.(type) {
		case grammar.KwParam:
			r.KwParams = append(r.KwParams, p)
		case string:
			r.Params = append(r.Params, p)
		}
	}
	return &ruleDecl{r, m.Pos()}, nil
}

func closureHook(b *grammar.Builder, m *parser.Match, ast *tree.AST) (any, error) {
	item := ast.Get("exp").(grammar.Node)
	min, max := 0, grammar.Unbounded

	switch bounds := ast.Get("bounds").(type) {
	case string:
		if bounds == "+" {
			min = 1
		}
	case *tree.AST:
		var e error
		min, e = parseBound(m, bounds.String("min"))
		if e != nil {
			return nil, e
		}

		switch {
		case !bounds.Has("sep"):
			max = min
		case bounds.Has("max"):
			max, e = parseBound(m, bounds.String("max"))
			if e != nil {
				return nil, e
			}
		}
	}

	return b.Repetition(item, min, max)
}

func parseBound(m *parser.Match, text string) (int, error) {
	n, e := strconv.Atoi(text)
	if e != nil || n < 0 {
		return 0, invalidBoundsError(m, text)
	}
	return n, nil
}
