package pegxgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/ava12/pegx/grammar"
)

const goFileTemplate = `// Code generated by pegx; DO NOT EDIT.

package {{ .Package }}

import (
	"context"
{{ if .Patterns }}
	"{{ .ImportPath }}/grammar"
{{- end }}
	"{{ .ImportPath }}/parser"
	"{{ .ImportPath }}/source"
)
{{ if .Patterns }}
var (
{{- range .Patterns }}
	{{ .Var }} = grammar.MustCompilePattern({{ .Source }})
{{- end }}
)
{{ end }}
// {{ .Type }} parses {{ .Title }} grammar.
type {{ .Type }} struct {
	Options parser.Options
}

// New{{ .Type }} returns parser with options set by grammar directives and then modified by opts.
func New{{ .Type }}(opts ...parser.Option) (*{{ .Type }}, error) {
	o, e := parser.DecodeOptions(map[string]string{
{{- range .Directives }}
		{{ .Name }}: {{ .Value }},
{{- end }}
	})
	if e != nil {
		return nil, e
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &{{ .Type }}{Options: o}, nil
}

// Parse parses src starting with rule named start (the first rule if start is empty).
func (p *{{ .Type }}) Parse(ctx context.Context, src *source.Source, start string, hooks *parser.Hooks) (*parser.Outcome, error) {
	var entry parser.RuleFunc
	switch start {
{{- range $i, $r := .Rules }}
	case {{ if eq $i 0 }}"", {{ end }}{{ $r.Quoted }}:
		entry = p.{{ $r.Method }}
{{- end }}
	default:
		return nil, parser.UnknownRule(start)
	}
	return parser.Run(ctx, src, p.Options, hooks, entry)
}
{{ range .Rules }}
func (p *{{ $.Type }}) {{ .Method }}(pc *parser.ParseContext) parser.Result {
	return pc.Call({{ .Quoted }}, func() parser.Result { return p.{{ .Body }}(pc) })
}

func (p *{{ $.Type }}) {{ .Body }}(pc *parser.ParseContext) parser.Result {
	return {{ .Expr }}
}
{{ end }}`

var goTemplate = template.Must(template.New("go").Parse(goFileTemplate))

type goTarget struct{}

func (goTarget) Name() string {
	return "go"
}

func (goTarget) Render(g *grammar.Grammar, opts Options) ([]byte, error) {
	r, e := newGoRenderer(g, opts)
	if e != nil {
		return nil, e
	}
	return r.render()
}

type goPattern struct {
	Var, Source string
}

type goDirective struct {
	Name, Value string
}

type goRule struct {
	Quoted, Method, Body, Expr string
}

type goFile struct {
	Package, ImportPath, Type, Title string
	Patterns                         []*goPattern
	Directives                       []goDirective
	Rules                            []*goRule
}

type goRenderer struct {
	grammar  *grammar.Grammar
	file     goFile
	rules    map[string]*goRule
	patterns map[string]*goPattern
}

func newGoRenderer(g *grammar.Grammar, opts Options) (*goRenderer, error) {
	base := g.Name
	if base == "" && g.Start() != nil {
		base = g.Start().Name
	}
	base = camelCase(base)

	f := goFile{
		Package:    opts.Package,
		ImportPath: opts.ImportPath,
		Type:       opts.TypeName,
		Title:      g.Name,
	}
	if f.Package == "" {
		f.Package = strings.ToLower(base)
	}
	if f.Type == "" {
		f.Type = base + "Parser"
	}
	if f.ImportPath == "" {
		f.ImportPath = defaultImportPath
	}
	if f.Title == "" {
		f.Title = f.Type
	}
	if !identRe.MatchString(f.Package) {
		return nil, invalidNameError("package", f.Package)
	}
	if !identRe.MatchString(f.Type) {
		return nil, invalidNameError("type", f.Type)
	}

	r := &goRenderer{
		grammar:  g,
		file:     f,
		rules:    make(map[string]*goRule, len(g.Rules)),
		patterns: make(map[string]*goPattern),
	}

	names := nameSet{}
	for _, rule := range g.Rules {
		suffix := camelCase(rule.Name)
		if suffix == "" {
			suffix = "Rule"
		}
		suffix = names.add(suffix)
		gr := &goRule{
			Quoted: strconv.Quote(rule.Name),
			Method: "rule" + suffix,
			Body:   "body" + suffix,
		}
		r.rules[rule.Name] = gr
		r.file.Rules = append(r.file.Rules, gr)
	}

	for _, d := range g.Directives() {
		r.file.Directives = append(r.file.Directives, goDirective{goString(d.Name), goString(d.Value)})
	}
	return r, nil
}

func (r *goRenderer) render() ([]byte, error) {
	for _, rule := range r.grammar.Rules {
		expr, e := r.expr(rule.Expression())
		if e != nil {
			return nil, e
		}
		r.rules[rule.Name].Expr = expr
	}

	var buf bytes.Buffer
	if e := goTemplate.Execute(&buf, r.file); e != nil {
		return nil, e
	}

	res, e := format.Source(buf.Bytes())
	if e != nil {
		return nil, formatError(e)
	}
	return res, nil
}

func goString(s string) string {
	if strconv.CanBackquote(s) && strings.ContainsRune(s, '\\') {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func (r *goRenderer) pattern(src string) string {
	p, found := r.patterns[src]
	if !found {
		p = &goPattern{
			Var:    fmt.Sprintf("%sPattern%d", lowerFirst(r.file.Type), len(r.file.Patterns)),
			Source: goString(src),
		}
		r.patterns[src] = p
		r.file.Patterns = append(r.file.Patterns, p)
	}
	return p.Var
}

func (r *goRenderer) thunk(n grammar.Node) (string, error) {
	expr, e := r.expr(n)
	if e != nil {
		return "", e
	}
	return "func() parser.Result { return " + expr + " }", nil
}

func (r *goRenderer) thunks(nodes []grammar.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		t, e := r.thunk(n)
		if e != nil {
			return "", e
		}
		sb.WriteString("\n" + t + ",")
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

func (r *goRenderer) rule(name string) (*goRule, error) {
	gr, found := r.rules[name]
	if !found {
		return nil, invalidNameError("rule", name)
	}
	return gr, nil
}

func (r *goRenderer) expr(n grammar.Node) (string, error) {
	switch n := n.(type) {
	case *grammar.Token:
		return "pc.Token(" + strconv.Quote(n.Literal) + ")", nil

	case *grammar.Pattern:
		return fmt.Sprintf("pc.Pattern(%s, %s)", r.pattern(n.Source), strconv.Quote(n.Source)), nil

	case *grammar.Sequence:
		items, e := r.thunks(n.Items)
		return "pc.Sequence(" + items + ")", e

	case *grammar.Choice:
		options, e := r.thunks(n.Options)
		return "pc.Choice(" + options + ")", e

	case *grammar.Repetition:
		item, e := r.thunk(n.Item)
		return fmt.Sprintf("pc.Repeat(%d, %d, %s)", n.Min, n.Max, item), e

	case *grammar.Optional:
		item, e := r.thunk(n.Item)
		return "pc.Optional(" + item + ")", e

	case *grammar.Cut:
		return "pc.Cut()", nil

	case *grammar.Lookahead:
		item, e := r.thunk(n.Item)
		return fmt.Sprintf("pc.Lookahead(%t, %s, %s)", n.Negate, strconv.Quote(grammar.Describe(n)), item), e

	case *grammar.RuleRef:
		gr, e := r.rule(n.Name)
		if e != nil {
			return "", e
		}
		return "p." + gr.Method + "(pc)", nil

	case *grammar.RuleInclude:
		gr, e := r.rule(n.Name)
		if e != nil {
			return "", e
		}
		return "p." + gr.Body + "(pc)", nil

	case *grammar.Override:
		item, e := r.thunk(n.Item)
		return fmt.Sprintf("pc.Override(%t, %s)", n.List, item), e

	case *grammar.Named:
		item, e := r.thunk(n.Item)
		return fmt.Sprintf("pc.Named(%s, %t, %s)", strconv.Quote(n.Name), n.List, item), e

	case *grammar.EOF:
		return "pc.EOF()", nil

	case *grammar.Void:
		return "pc.Void()", nil
	}

	return "", rendererNotFoundError("go", n)
}
