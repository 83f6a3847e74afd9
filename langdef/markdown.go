package langdef

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLanguage is the info string of Markdown code blocks containing grammar description.
const MarkdownLanguage = "ebnf"

// ExtractMarkdown returns contents of ebnf fenced code blocks of a Markdown document.
// Everything else is replaced with empty lines, so line numbers of the result match the document.
func ExtractMarkdown(content []byte) ([]byte, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	keep := make([]bool, len(content))
	e := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}

		var info string
		if block.Info != nil {
			info = string(block.Info.Value(content))
		}
		if fields := strings.Fields(info); len(fields) == 0 || !strings.EqualFold(fields[0], MarkdownLanguage) {
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			for j := seg.Start; j < seg.Stop; j++ {
				keep[j] = true
			}
		}
		return ast.WalkSkipChildren, nil
	})
	if e != nil {
		return nil, e
	}

	res := make([]byte, 0, len(content))
	for i, c := range content {
		if keep[i] || c == '\n' {
			res = append(res, c)
		}
	}
	return res, nil
}
