/*
Package pegx is a PEG (parsing expression grammar) compiler and runtime.

Consists of subpackages:
  - cmd/pegx: console utility checking grammars, parsing input and rendering parser sources;
  - grammar: defines grammar model (rules and parsing expressions) and the builder that validates it;
  - langdef: converts grammar description (written in EBNF-like language) to grammar model;
  - parser: backtracking PEG engine with cut, lookahead, and left recursion detection;
  - pegxgen: renders grammar model to Go parser source, EBNF, or YAML;
  - source: defines source file and the buffer used by parser;
  - tree: AST values built from named captures;
  - diag: human-readable error reports.

Typical usage is:

1. Describe grammar in EBNF-like language. Description does not contain Go code,
the same grammar can be used for different purposes (translators, linters, formatters, etc.).

2. Parse grammar description using either langdef subpackage "on the fly"
or pegx utility to generate Go file.

3. Define hooks (semantic actions) to convert values produced by grammar rules.

4. Create new parser for desired grammar and feed it source files and hooks.
*/
package pegx

import (
	"errors"
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by grammar and langdef
	ParseErrors   = 101 // used by parser
	RenderErrors  = 201 // used by pegxgen
	ConfigErrors  = 301 // used by command line utility
)

// Error is the error type used by pegx subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int

	// Offset contains byte offset in source file, meaningful only if Line is not 0.
	Offset int

	// Stack contains names of rules being parsed when the error occurred, outermost first.
	Stack []string
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and parser.Match implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

type offsetPos interface {
	Offset() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	e := NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
	if op, ok := pos.(offsetPos); ok {
		e.Offset = op.Offset()
	}
	return e
}

// WithPos returns a copy of e carrying source and position information.
// Errors that are not *Error or that already have position information are returned as is.
func WithPos(e error, pos SourcePos) error {
	var pe *Error
	if !errors.As(e, &pe) || pe.Line != 0 {
		return e
	}

	res := FormatErrorPos(pos, pe.Code, "%s", pe.Message)
	res.Stack = pe.Stack
	return res
}

// ErrorCode returns error code of *Error contained in e or 0.
func ErrorCode(e error) int {
	var pe *Error
	if errors.As(e, &pe) {
		return pe.Code
	}
	return 0
}
