package diag

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/langdef"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/source"
)

func TestFormat(t *testing.T) {
	src := source.FromString("in.txt", "first\nx\tz y\n")
	pe := pegx.FormatErrorPos(src.At(10), parser.TokenError, "expected %q while parsing a > b", "y")
	pe.Stack = []string{"a", "b"}

	r := New(src).DisableColor()
	expected := "error[E0101]: expected \"y\"\n" +
		"   --> in.txt:2:5\n" +
		"    │\n" +
		"  1 │ first\n" +
		"  2 │ x\tz y\n" +
		"    │  \t  ^\n" +
		"    = note: while parsing a > b\n"
	assert.Equal(t, expected, r.Format(pe))

	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, pe))
	assert.Equal(t, expected, buf.String())
}

func TestFormatFirstLine(t *testing.T) {
	src := source.FromString("g.ebnf", "a = ;")
	pe := pegx.FormatErrorPos(src.At(4), parser.LeftRecursionError, "left recursion")

	expected := "error[E0106]: left recursion\n" +
		"   --> g.ebnf:1:5\n" +
		"    │\n" +
		"  1 │ a = ;\n" +
		"    │     ^\n" +
		"    = help: " + Help(parser.LeftRecursionError) + "\n"
	assert.Equal(t, expected, New(src).DisableColor().Format(pe))
}

func TestFormatWithoutSource(t *testing.T) {
	r := New().DisableColor()

	assert.Equal(t, "", r.Format(nil))
	assert.Equal(t, "error: plain\n", r.Format(errors.New("plain")))
	assert.Equal(t, "error[E0003]: rule \"a\" already declared\n",
		r.Format(pegx.FormatError(grammar.DuplicateRuleError, "rule %q already declared", "a")))

	pe := pegx.NewError(parser.TokenError, "bad", "missing.txt", 3, 2)
	assert.Equal(t, "error[E0101]: bad\n   --> missing.txt:3:2\n", r.Format(pe))
}

func TestLoadFallback(t *testing.T) {
	loaded := 0
	r := New().DisableColor()
	r.Load = func(name string) (*source.Source, error) {
		loaded++
		if name != "lazy.txt" {
			return nil, errors.New("not found")
		}
		return source.FromString(name, "abc"), nil
	}

	pe := pegx.NewError(parser.EOFError, "expected end of input", "lazy.txt", 1, 2)
	assert.Contains(t, r.Format(pe), "  1 │ abc\n    │  ^\n")
	assert.Contains(t, r.Format(pe), "  1 │ abc\n")
	assert.Equal(t, 1, loaded)

	pe = pegx.NewError(parser.EOFError, "expected end of input", "other.txt", 1, 2)
	assert.NotContains(t, r.Format(pe), "│")
}

func TestParseFailure(t *testing.T) {
	g, e := langdef.ParseString("g.ebnf", "r = 'x' s ;\ns = 'y' ;")
	require.NoError(t, e)
	p, e := parser.New(g)
	require.NoError(t, e)

	src := source.FromString("in.txt", "x z")
	_, e = p.Parse(context.Background(), src, "", nil)
	require.Error(t, e)

	text := New(src).DisableColor().Format(e)
	assert.Contains(t, text, "error[E0101]: expected")
	assert.NotContains(t, text, " in in.txt at line")
	assert.Contains(t, text, "--> in.txt:1:3\n")
	assert.Contains(t, text, "  1 │ x z\n    │   ^\n")
	assert.Contains(t, text, "note: while parsing r > s\n")
}

func TestMessage(t *testing.T) {
	pe := pegx.NewError(parser.TokenError, "expected x while parsing a", "f", 1, 1)
	pe.Stack = []string{"a"}
	assert.Equal(t, "expected x", Message(pe))

	pe = pegx.FormatError(parser.TokenError, "in f at line 1 col 1")
	assert.Equal(t, "in f at line 1 col 1", Message(pe))
}
