package langdef

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/internal/logutil"
	"github.com/ava12/pegx/parser"
)

func expectCode(t *testing.T, code int, e error) *pegx.Error {
	t.Helper()
	require.Error(t, e)
	var pe *pegx.Error
	require.ErrorAs(t, e, &pe)
	assert.Equal(t, code, pe.Code, pe.Message)
	return pe
}

func TestDefinitionMatchesBootstrap(t *testing.T) {
	g, e := ParseString("grammar.ebnf", Definition)
	require.NoError(t, e)
	assert.True(t, grammar.EqualGrammars(Bootstrap(), g))
	assert.Equal(t, "PEG", g.Name)
	assert.Equal(t, "start", g.Start().Name)
}

func TestBootstrapIsSound(t *testing.T) {
	g := Bootstrap()
	assert.Empty(t, grammar.Unreachable(g))
	assert.Empty(t, grammar.LeftRecursive(g))
	assert.Same(t, g, Bootstrap())
}

func TestExpressions(t *testing.T) {
	b := bootstrapBuilder{grammar.NewBuilder()}
	x, y := b.ref("x"), b.ref("y")
	rep := func(item grammar.Node, min, max int) grammar.Node {
		n, e := b.Repetition(item, min, max)
		require.NoError(t, e)
		return n
	}

	samples := []struct {
		src      string
		expected grammar.Node
	}{
		{"x", x},
		{"x y", seq(x, y)},
		{"x | y", alt(x, y)},
		{"| x | y", alt(x, y)},
		{"x y | y", alt(seq(x, y), y)},
		{"n:x", grammar.NewNamed("n", x, false)},
		{"n+:x", grammar.NewNamed("n", x, true)},
		{"@:x", grammar.NewOverride(x, false)},
		{"@+:x", grammar.NewOverride(x, true)},
		{"&x", grammar.NewLookahead(x, false)},
		{"!x", grammar.NewLookahead(x, true)},
		{"!(x y)", grammar.NewLookahead(seq(x, y), true)},
		{"x ~ y", seq(x, &grammar.Cut{}, y)},
		{"[ x ]", grammar.NewOptional(x)},
		{"( x y )", seq(x, y)},
		{"(x)", x},
		{"(x | y) x", seq(alt(x, y), x)},
		{"{ x }", rep(x, 0, grammar.Unbounded)},
		{"{ x }*", rep(x, 0, grammar.Unbounded)},
		{"{ x }+", rep(x, 1, grammar.Unbounded)},
		{"{ x }<2>", rep(x, 2, 2)},
		{"{ x }<2,>", rep(x, 2, grammar.Unbounded)},
		{"{ x }< 2 , 5 >", rep(x, 2, 5)},
		{"{ x y }", rep(seq(x, y), 0, grammar.Unbounded)},
		{">x", b.RuleInclude("x")},
		{"x $", seq(x, &grammar.EOF{})},
		{"()", &grammar.Void{}},
		{`'a\tb'`, b.tok("a\tb")},
		{`"é\x41\""`, b.tok("éA\"")},
		{`/a\/b/`, b.pat("a/b")},
		{`/\d+\.\d*/`, b.pat(`\d+\.\d*`)},
		{"n:{ x } @:[ y ]", seq(grammar.NewNamed("n", rep(x, 0, grammar.Unbounded), false), grammar.NewOverride(grammar.NewOptional(y), false))},
	}

	for _, s := range samples {
		g, e := ParseString("sample", "r = "+s.src+" ;\nx = 'x' ; y = 'y' ;")
		if !assert.NoError(t, e, s.src) {
			continue
		}
		assert.True(t, grammar.Equal(s.expected, g.Start().Expr), "%s: got %#v", s.src, g.Start().Expr)
	}
}

func TestDirectives(t *testing.T) {
	src := `
@@grammar :: Calc
@@whitespace :: None
@@comments :: /\/\*(?s:.*?)\*\//
@@nameguard :: False
r = 'x' ;
`
	g, e := ParseString("sample", src)
	require.NoError(t, e)
	assert.Equal(t, "Calc", g.Name)
	assert.Equal(t, []grammar.Directive{
		{Name: "grammar", Value: "Calc"},
		{Name: "whitespace", Value: "None"},
		{Name: "comments", Value: `/\*(?s:.*?)\*/`},
		{Name: "nameguard", Value: "False"},
	}, g.Directives())

	_, e = ParseString("sample", "@@nameguard :: maybe\nr = 'x' ;")
	pe := expectCode(t, grammar.InvalidDirectiveError, e)
	assert.Equal(t, 1, pe.Line)

	_, e = ParseString("sample", "r = 'x' ;\n@@foo :: bar")
	pe = expectCode(t, grammar.UnknownDirectiveError, e)
	assert.Equal(t, 2, pe.Line)
}

func TestRuleDeclarations(t *testing.T) {
	src := `
a = 'x' ;
b < a = 'y' ;
p(one, 2, "three", key=val) = 'z' ;
@override
a = 'w' ;
_lex = /[a-z]/ ;
`
	g, e := ParseString("sample", src)
	require.NoError(t, e)
	require.Len(t, g.Rules, 4)

	a := g.Rule("a")
	assert.True(t, a.Override)
	assert.Equal(t, []string{"override"}, a.Decorators)
	assert.True(t, grammar.Equal(&grammar.Token{Literal: "w"}, a.Expr))

	b := g.Rule("b")
	assert.Equal(t, "a", b.Base)
	assert.True(t, grammar.Equal(grammar.NewSequence(&grammar.Token{Literal: "x"}, &grammar.Token{Literal: "y"}), b.Expression()))

	p := g.Rule("p")
	assert.Equal(t, []string{"one", "2", "three"}, p.Params)
	assert.Equal(t, []grammar.KwParam{{Key: "key", Value: "val"}}, p.KwParams)

	assert.True(t, g.Rule("_lex").IsLexical())
}

func TestComments(t *testing.T) {
	src := "(* block\n comment *) a = 'x' # line comment\n  | 'y' ; #\n## more\n"
	g, e := ParseString("sample", src)
	require.NoError(t, e)
	assert.True(t, grammar.Equal(alt(&grammar.Token{Literal: "x"}, &grammar.Token{Literal: "y"}), g.Start().Expr))
}

func TestErrors(t *testing.T) {
	samples := []struct {
		src       string
		code      int
		line, col int
	}{
		{"", grammar.NoRulesError, 0, 0},
		{"a = ;", parser.TokenError, 1, 5},
		{"a = 'x'", parser.PatternError, 1, 8},
		{"a = b ;", grammar.UnresolvedRuleError, 0, 0},
		{"a = 'x' ;\na = 'y' ;", grammar.DuplicateRuleError, 2, 1},
		{"@override a = 'x' ;", grammar.UnknownBaseRuleError, 1, 1},
		{"a = 'x' ;\nb < c = 'y' ;", grammar.UnknownBaseRuleError, 2, 1},
		{"@inline a = 'x' ;", UnknownDecoratorError, 1, 1},
		{`a = "\q" ;`, InvalidEscapeError, 1, 5},
		{`a = "\x4" ;`, InvalidEscapeError, 1, 5},
		{`a = "\UFFFFFFFF" ;`, InvalidRuneError, 1, 5},
		{`a = "" ;`, grammar.EmptyTokenError, 1, 5},
		{"a = /(/ ;", grammar.InvalidPatternError, 1, 5},
		{"a = { 'x' }<3,1> ;", grammar.InvalidRepeatError, 1, 5},
		{"a = { 'x' }<1.5> ;", InvalidBoundsError, 1, 5},
		{"#include :: \"x.ebnf\"\na = 'x' ;", IncludeError, 1, 1},
	}

	for _, s := range samples {
		_, e := ParseString("sample", s.src)
		pe := expectCode(t, s.code, e)
		if pe == nil {
			continue
		}
		assert.Equal(t, s.line, pe.Line, s.src)
		assert.Equal(t, s.col, pe.Col, s.src)
	}
}

func TestIncludes(t *testing.T) {
	fs := fstest.MapFS{
		"main.ebnf":       {Data: []byte("start = item { ',' item } ;\n#include :: \"lib/common.ebnf\"\n")},
		"lib/common.ebnf": {Data: []byte("#include :: \"space.ebnf\"\nitem = /[a-z]+/ ;\n")},
		"lib/space.ebnf":  {Data: []byte("@@whitespace :: /[ ]+/\n")},
		"a.ebnf":          {Data: []byte("#include :: \"b.ebnf\"\nx = 'x' ;")},
		"b.ebnf":          {Data: []byte("\n#include :: \"a.ebnf\"")},
		"bad.ebnf":        {Data: []byte("x = 'x' ;\n#include :: \"missing.ebnf\"")},
	}
	loader := FSLoader{fs}

	g, e := ParseFile(loader, "main.ebnf")
	require.NoError(t, e)
	require.Len(t, g.Rules, 2)
	assert.Equal(t, "start", g.Start().Name)
	ws, _ := g.Directive(grammar.WhitespaceDirective)
	assert.Equal(t, "[ ]+", ws)

	_, e = ParseFile(loader, "a.ebnf")
	pe := expectCode(t, IncludeCycleError, e)
	assert.Contains(t, pe.Message, "a.ebnf -> b.ebnf -> a.ebnf")
	assert.Equal(t, "b.ebnf", pe.SourceName)
	assert.Equal(t, 2, pe.Line)

	_, e = ParseFile(loader, "bad.ebnf")
	pe = expectCode(t, IncludeError, e)
	assert.Equal(t, 2, pe.Line)

	_, e = ParseFile(loader, "none.ebnf")
	expectCode(t, IncludeError, e)

	_, e = ParseString("main.ebnf", "start = item ;\n#include :: \"lib/common.ebnf\"", WithLoader(loader))
	require.NoError(t, e)
}

func TestMarkdown(t *testing.T) {
	fence := "```"
	doc := strings.Join([]string{
		"# Grammar",
		"",
		"Start rule:",
		"",
		fence + "ebnf",
		"start = 'a' rest ;",
		fence,
		"",
		fence + "go",
		"ignored := true",
		fence,
		"",
		fence + "ebnf",
		"rest = 'b' ;",
		fence,
		"",
	}, "\n")

	extracted, e := ExtractMarkdown([]byte(doc))
	require.NoError(t, e)
	assert.Equal(t, strings.Count(doc, "\n"), bytes.Count(extracted, []byte("\n")))
	assert.NotContains(t, string(extracted), "ignored")

	fs := fstest.MapFS{
		"doc.md":  {Data: []byte(doc)},
		"bad.md":  {Data: []byte("text\n\n" + fence + "ebnf\nstart = ;\n" + fence + "\n")},
		"main.md": {Data: []byte(fence + "ebnf\nmain = start ;\n#include :: \"doc.md\"\n" + fence + "\n")},
	}

	g, e := ParseFile(FSLoader{fs}, "doc.md")
	require.NoError(t, e)
	require.Len(t, g.Rules, 2)
	assert.Equal(t, "rest", g.Rules[1].Name)

	_, e = ParseFile(FSLoader{fs}, "bad.md")
	pe := expectCode(t, parser.TokenError, e)
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, "bad.md", pe.SourceName)

	g, e = ParseFile(FSLoader{fs}, "main.md")
	require.NoError(t, e)
	assert.Len(t, g.Rules, 3)
}

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	_, e := ParseString("sample", "a = 'x' ;", WithLogger(logutil.NewLogger(&buf, logutil.LevelTrace)))
	require.NoError(t, e)
	assert.Contains(t, buf.String(), "rule=directive")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e = ParseString("grammar.ebnf", Definition, WithContext(ctx))
	expectCode(t, parser.LimitError, e)
}

func TestEscapes(t *testing.T) {
	s, e := unquote(nil, `"plain"`)
	require.NoError(t, e)
	assert.Equal(t, "plain", s)

	s, e = unquote(nil, `'\'\\\n☺'`)
	require.NoError(t, e)
	assert.Equal(t, "'\\\n☺", s)

	assert.Equal(t, `a/b\d`, unslash(`/a\/b\d/`))
	assert.Equal(t, `\\`, unslash(`/\\/`))
	assert.Equal(t, `x`, unslash(`/x/`))
}
