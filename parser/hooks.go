package parser

import (
	"github.com/ava12/pegx/source"
)

// AnyRule is the key of hook applied to rules having no own hook.
const AnyRule = ""

// RuleHook converts value of successfully matched rule.
//
// Returned *pegx.Error aborts the parse (use it for defects that must not be backtracked over);
// any other error is a FailedSemantics failure which backtracks like a mismatch.
type RuleHook = func(m *Match, value any) (any, error)

type RuleHooks map[string]RuleHook

// Hooks are semantic actions invoked after rules match.
type Hooks struct {
	Rules RuleHooks
}

func (h *Hooks) hook(rule string) RuleHook {
	if h == nil || h.Rules == nil {
		return nil
	}
	if hook, found := h.Rules[rule]; found {
		return hook
	}
	return h.Rules[AnyRule]
}

// Match describes text matched by a rule, implements pegx.SourcePos.
type Match struct {
	Rule string
	// Start and End are byte offsets of matched text, leading whitespace excluded.
	Start, End int
	src        *source.Source
	line, col  int
}

func (m *Match) Source() *source.Source {
	return m.src
}

// Text returns matched text.
func (m *Match) Text() string {
	return string(m.src.Content()[m.Start:m.End])
}

func (m *Match) SourceName() string {
	return m.src.Name()
}

func (m *Match) Line() int {
	m.locate()
	return m.line
}

func (m *Match) Col() int {
	m.locate()
	return m.col
}

func (m *Match) Offset() int {
	return m.Start
}

// Pos returns position of matched text.
func (m *Match) Pos() source.Pos {
	return m.src.At(m.Start)
}

func (m *Match) locate() {
	if m.line == 0 {
		m.line, m.col = m.src.LineCol(m.Start)
	}
}
