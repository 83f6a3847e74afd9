// Package diag renders pegx errors for humans: error code, location, offending source line
// with a marker under the failure column, and the chain of rules active at the failure.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
	"github.com/ava12/pegx/langdef"
	"github.com/ava12/pegx/parser"
	"github.com/ava12/pegx/source"
)

// SourceFunc returns source by name, used for sources not registered with Reporter.Add.
type SourceFunc func(name string) (*source.Source, error)

// Reporter formats errors against registered sources.
// It is safe for concurrent use.
type Reporter struct {
	// Load is an optional fallback for unknown source names.
	Load SourceFunc

	lock    sync.Mutex
	sources map[string]*source.Source

	errorColor *color.Color
	arrowColor *color.Color
	noteColor  *color.Color
	helpColor  *color.Color
}

// New creates reporter knowing the given sources.
// Colors follow color.NoColor, which is set when output is not a terminal.
func New(sources ...*source.Source) *Reporter {
	r := &Reporter{
		sources:    make(map[string]*source.Source, len(sources)),
		errorColor: color.New(color.FgRed, color.Bold),
		arrowColor: color.New(color.FgBlue, color.Bold),
		noteColor:  color.New(color.FgBlue),
		helpColor:  color.New(color.FgGreen),
	}
	for _, src := range sources {
		r.Add(src)
	}
	return r
}

// DisableColor turns colored output off regardless of terminal detection.
func (r *Reporter) DisableColor() *Reporter {
	for _, c := range []*color.Color{r.errorColor, r.arrowColor, r.noteColor, r.helpColor} {
		c.DisableColor()
	}
	return r
}

// Add registers source, replacing any previously added source with the same name.
func (r *Reporter) Add(src *source.Source) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sources[src.Name()] = src
}

func (r *Reporter) source(name string) *source.Source {
	if name == "" {
		return nil
	}

	r.lock.Lock()
	src := r.sources[name]
	r.lock.Unlock()
	if src != nil || r.Load == nil {
		return src
	}

	src, e := r.Load(name)
	if e != nil || src == nil {
		return nil
	}
	r.Add(src)
	return src
}

// Report writes formatted error to w.
func (r *Reporter) Report(w io.Writer, e error) error {
	_, err := io.WriteString(w, r.Format(e))
	return err
}

// Format returns multiline description of e terminated with a newline.
// Errors other than *pegx.Error get a single header line.
func (r *Reporter) Format(e error) string {
	if e == nil {
		return ""
	}

	var pe *pegx.Error
	if !errors.As(e, &pe) {
		return r.errorColor.Sprint("error") + ": " + e.Error() + "\n"
	}

	var sb strings.Builder
	sb.WriteString(r.errorColor.Sprintf("error[E%04d]", pe.Code))
	sb.WriteString(": " + Message(pe) + "\n")

	if pe.SourceName == "" {
		r.writeNotes(&sb, pe, "")
		return sb.String()
	}

	width := gutterWidth(pe.Line)
	pad := strings.Repeat(" ", width)
	location := pe.SourceName
	if pe.Line > 0 {
		location += fmt.Sprintf(":%d:%d", pe.Line, pe.Col)
	}
	sb.WriteString(pad + r.arrowColor.Sprint("-->") + " " + location + "\n")

	src := r.source(pe.SourceName)
	if src == nil || pe.Line <= 0 {
		r.writeNotes(&sb, pe, pad)
		return sb.String()
	}

	gutter := r.arrowColor.Sprint("│")
	sb.WriteString(pad + " " + gutter + "\n")

	if pe.Line > 1 {
		prev := src.LineInfo(src.Pos(pe.Line-1, 1))
		sb.WriteString(r.arrowColor.Sprintf("%*d", width, prev.Line) + " " + gutter + " " + prev.Text + "\n")
	}
	info := src.LineInfo(src.Pos(pe.Line, pe.Col))
	sb.WriteString(r.arrowColor.Sprintf("%*d", width, info.Line) + " " + gutter + " " + info.Text + "\n")
	sb.WriteString(pad + " " + gutter + " " + marker(info.Text, info.Col, r.errorColor) + "\n")

	r.writeNotes(&sb, pe, pad)
	return sb.String()
}

func (r *Reporter) writeNotes(sb *strings.Builder, pe *pegx.Error, pad string) {
	if len(pe.Stack) > 0 {
		sb.WriteString(pad + " = " + r.noteColor.Sprint("note") + ": while parsing " + strings.Join(pe.Stack, " > ") + "\n")
	}
	if help := Help(pe.Code); help != "" {
		sb.WriteString(pad + " = " + r.helpColor.Sprint("help") + ": " + help + "\n")
	}
}

// Message returns error message without location and rule chain suffixes.
func Message(pe *pegx.Error) string {
	msg := pe.Message
	if pe.SourceName != "" && pe.Line != 0 && pe.Col != 0 {
		msg = strings.TrimSuffix(msg, fmt.Sprintf(" in %s at line %d col %d", pe.SourceName, pe.Line, pe.Col))
	}
	if len(pe.Stack) > 0 {
		msg = strings.TrimSuffix(msg, " while parsing "+strings.Join(pe.Stack, " > "))
	}
	return msg
}

// marker places caret under 1-based rune column col of text, tabs are kept to preserve alignment.
func marker(text string, col int, c *color.Color) string {
	var sb strings.Builder
	i := 1
	for _, r := range text {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Sprint("^"))
	return sb.String()
}

func gutterWidth(line int) int {
	res := len(strconv.Itoa(line))
	if res < 3 {
		res = 3
	}
	return res
}

var helps = map[int]string{
	parser.LeftRecursionError:     "rewrite the rule so that it consumes input before referring to itself",
	parser.LimitError:             "raise max_steps or max_depth, or check the grammar for runaway repetitions",
	parser.CutError:               "input is invalid after a committed alternative (~)",
	parser.UnknownRuleError:       "check start rule name",
	parser.InvalidOptionsError:    "check grammar directives and parser options",
	grammar.UnresolvedRuleError:   "declare the missing rules or fix the references",
	grammar.InvalidPatternError:   "patterns use Go regexp (RE2) syntax",
	langdef.IncludeCycleError:     "remove one of the includes forming the cycle",
	langdef.UnknownDecoratorError: "the only supported decorator is @override",
}

// Help returns a hint for error code or empty string.
func Help(code int) string {
	return helps[code]
}
