package pegx_test

import (
	"context"
	"fmt"

	"github.com/ava12/pegx/langdef"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/tree"
)

type sectionName string

func Example() {
	input := `
foo = hello
bar = world
[sec]
baz =
[sec.subsec]
qux = !
`
	grammar := `
@@whitespace :: /[ \t\r]+/

config = { section | value | nl } $ ;
section = '[' name:sec_name ']' nl ;
value = name:name '=' [ value:text ] nl ;

sec_name = /[a-z]+(?:\.[a-z]+)*/ ;
name = /[a-z]+/ ;
text = /[^\n]+/ ;
nl = /\n/ ;
`
	configGrammar, e := langdef.ParseString("example grammar", grammar)
	if e != nil {
		fmt.Println(e)
		return
	}

	configParser, e := parser.New(configGrammar)
	if e != nil {
		panic(e)
	}

	hooks := &parser.Hooks{Rules: parser.RuleHooks{
		"section": func(_ *parser.Match, v any) (any, error) {
			return sectionName(v.(*tree.AST).String("name")), nil
		},
		"value": func(_ *parser.Match, v any) (any, error) {
			ast := v.(*tree.AST)
			return [2]string{ast.String("name"), ast.String("value")}, nil
		},
	}}
	res, e := configParser.ParseString(context.Background(), "input", input, "", hooks)
	if e != nil {
		fmt.Println(e)
		return
	}

	result := make(map[string]string)
	prefix := ""
	for _, item := range res.Value.([]any) {
		switch item := item.(type) {
		case sectionName:
			prefix = string(item) + "."
		case [2]string:
			result[prefix+item[0]] = item[1]
		}
	}
	fmt.Println(result)

	// Output:
	// map[bar:world foo:hello sec.baz: sec.subsec.qux:!]
}

func Example_greeting() {
	g, e := langdef.ParseString("greeting.ebnf", `greeting = "hello" | "hi" ;`)
	if e != nil {
		panic(e)
	}
	p, e := parser.New(g)
	if e != nil {
		panic(e)
	}

	res, e := p.ParseString(context.Background(), "input", "hi there", "", nil)
	if e != nil {
		panic(e)
	}
	fmt.Println(res.Value, res.End)

	// Output:
	// hi 2
}
