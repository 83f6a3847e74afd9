package langdef

import (
	_ "embed"
	"sync"

	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/parser"
)

// Definition is the grammar description language described in itself.
// Parsing Definition yields a grammar equal to Bootstrap().
//
//go:embed grammar.ebnf
var Definition string

var (
	bootstrapOnce    sync.Once
	bootstrapGrammar *grammar.Grammar
	bootstrapParser  *parser.Parser
)

// Bootstrap returns the grammar of grammar description language.
// The grammar is built once and shared, it must not be modified.
func Bootstrap() *grammar.Grammar {
	bootstrapOnce.Do(initBootstrap)
	return bootstrapGrammar
}

func defaultParser() *parser.Parser {
	bootstrapOnce.Do(initBootstrap)
	return bootstrapParser
}

func initBootstrap() {
	var e error
	bootstrapGrammar = buildBootstrap()
	bootstrapParser, e = parser.New(bootstrapGrammar)
	if e != nil {
		panic(e)
	}
}

type bootstrapBuilder struct {
	*grammar.Builder
}

func must(e error) {
	if e != nil {
		panic(e)
	}
}

func (b bootstrapBuilder) tok(text string) grammar.Node {
	n, e := b.Token(text)
	must(e)
	return n
}

func (b bootstrapBuilder) pat(src string) grammar.Node {
	n, e := b.Pattern(src)
	must(e)
	return n
}

func (b bootstrapBuilder) ref(name string) grammar.Node {
	return b.RuleRef(name)
}

func (b bootstrapBuilder) repeat(item grammar.Node, min int) grammar.Node {
	n, e := b.Repetition(item, min, grammar.Unbounded)
	must(e)
	return n
}

func (b bootstrapBuilder) rule(name string, items ...grammar.Node) {
	_, e := b.DeclareRule(&grammar.Rule{Name: name, Expr: seq(items...)})
	must(e)
}

func seq(items ...grammar.Node) grammar.Node {
	if len(items) == 1 {
		return items[0]
	}
	return grammar.NewSequence(items...)
}

func alt(options ...grammar.Node) grammar.Node {
	if len(options) == 1 {
		return options[0]
	}
	return grammar.NewChoice(options...)
}

func opt(items ...grammar.Node) grammar.Node {
	return grammar.NewOptional(seq(items...))
}

func named(name string, item grammar.Node) grammar.Node {
	return grammar.NewNamed(name, item, false)
}

func override(item grammar.Node, list bool) grammar.Node {
	return grammar.NewOverride(item, list)
}

func buildBootstrap() *grammar.Grammar {
	b := bootstrapBuilder{grammar.NewBuilder()}
	cut := &grammar.Cut{}

	must(b.SetDirective(grammar.GrammarDirective, "PEG"))
	must(b.SetDirective(grammar.WhitespaceDirective, `\s+`))
	must(b.SetDirective(grammar.CommentsDirective, `\(\*(?s:.*?)\*\)`))
	must(b.SetDirective(grammar.EOLCommentsDirective, `(?m)#(?:[ \t#][^\n]*)?$`))

	b.rule("start", b.ref("grammar"))
	b.rule("grammar", override(b.repeat(b.ref("part"), 0), false), &grammar.EOF{})
	b.rule("part", alt(b.ref("directive"), b.ref("include"), b.ref("rule")))

	b.rule("directive",
		b.tok("@@"), cut, named("name", b.ref("word")), b.tok("::"), cut, named("value", b.ref("directive_value")))
	b.rule("directive_value", alt(b.ref("regexp"), b.ref("string"), b.ref("word")))
	b.rule("include", b.tok("#include"), cut, b.tok("::"), cut, named("file", b.ref("string")))

	b.rule("rule",
		named("decorators", b.repeat(b.ref("decorator"), 0)),
		named("name", b.ref("word")),
		opt(b.tok("<"), cut, named("base", b.ref("word"))),
		opt(named("params", b.ref("params"))),
		b.tok("="), cut,
		named("expr", b.ref("expression")),
		b.tok(";"))
	b.rule("decorator", b.tok("@"), cut, override(b.ref("word"), false))
	b.rule("params",
		b.tok("("), cut, override(b.ref("param"), true),
		b.repeat(seq(b.tok(","), cut, override(b.ref("param"), true)), 0),
		b.tok(")"), cut)
	b.rule("param", alt(b.ref("kwparam"), b.ref("literal")))
	b.rule("kwparam", named("key", b.ref("word")), b.tok("="), named("value", b.ref("literal")))
	b.rule("literal", alt(b.ref("string"), b.ref("number"), b.ref("word")))
	b.rule("number", b.pat(`[-+]?[0-9]+(?:\.[0-9]+)?`))

	b.rule("expression",
		opt(b.tok("|")),
		override(b.ref("sequence"), true),
		b.repeat(seq(b.tok("|"), cut, override(b.ref("sequence"), true)), 0))
	b.rule("sequence", b.repeat(override(b.ref("element"), true), 1))
	b.rule("element", alt(b.ref("named"), b.ref("override"), b.ref("term")))
	b.rule("named",
		named("name", b.ref("word")), named("op", alt(b.tok("+:"), b.tok(":"))), cut, named("exp", b.ref("term")))
	b.rule("override", named("op", alt(b.tok("@+:"), b.tok("@:"))), cut, named("exp", b.ref("term")))

	b.rule("term", alt(
		b.ref("void"), b.ref("group"), b.ref("closure"), b.ref("optional"), b.ref("lookahead"), b.ref("cut"),
		b.ref("include_ref"), b.ref("eof"), b.ref("token"), b.ref("pattern"), b.ref("rule_ref"),
	))
	b.rule("void", b.tok("("), b.tok(")"))
	b.rule("group", b.tok("("), cut, override(b.ref("expression"), false), b.tok(")"), cut)
	b.rule("closure",
		b.tok("{"), cut, named("exp", b.ref("expression")), b.tok("}"), cut,
		named("bounds", opt(b.ref("closure_bounds"))))
	b.rule("closure_bounds", alt(
		b.tok("+"),
		b.tok("*"),
		seq(
			b.tok("<"), cut, named("min", b.ref("number")),
			opt(named("sep", b.tok(",")), opt(named("max", b.ref("number")))),
			b.tok(">"), cut),
	))
	b.rule("optional", b.tok("["), cut, override(b.ref("expression"), false), b.tok("]"), cut)
	b.rule("lookahead", named("op", alt(b.tok("&"), b.tok("!"))), cut, named("exp", b.ref("term")))
	b.rule("cut", b.tok("~"))
	b.rule("include_ref", b.tok(">"), cut, override(b.ref("word"), false))
	b.rule("eof", b.tok("$"))
	b.rule("token", b.ref("string"))
	b.rule("pattern", b.ref("regexp"))
	b.rule("rule_ref", b.ref("word"))

	b.rule("string", alt(b.pat(`"(?:[^"\\\n]|\\.)*"`), b.pat(`'(?:[^'\\\n]|\\.)*'`)))
	b.rule("regexp", b.pat(`/(?:[^/\\\n]|\\.)+/`))
	b.rule("word", b.pat(`[A-Za-z_][A-Za-z0-9_]*`))

	g, e := b.Finalize()
	must(e)
	return g
}
