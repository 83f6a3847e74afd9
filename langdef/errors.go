package langdef

import (
	"strings"

	"github.com/ava12/pegx"
)

const (
	UnknownDecoratorError = pegx.GrammarErrors + 20 + iota
	IncludeError
	IncludeCycleError
	InvalidEscapeError
	InvalidRuneError
	InvalidBoundsError
	InvalidDeclarationError
)

func unknownDecoratorError(pos pegx.SourcePos, name string) *pegx.Error {
	return pegx.FormatErrorPos(pos, UnknownDecoratorError, "unknown decorator @%s", name)
}

func includeError(pos pegx.SourcePos, name string, e error) *pegx.Error {
	if pos == nil {
		return pegx.FormatError(IncludeError, "cannot include %q (%s)", name, e.Error())
	}
	return pegx.FormatErrorPos(pos, IncludeError, "cannot include %q (%s)", name, e.Error())
}

func includeCycleError(pos pegx.SourcePos, chain []string) *pegx.Error {
	return pegx.FormatErrorPos(pos, IncludeCycleError, "include cycle: %s", strings.Join(chain, " -> "))
}

func invalidEscapeError(pos pegx.SourcePos, text string) *pegx.Error {
	return pegx.FormatErrorPos(pos, InvalidEscapeError, "invalid escape sequence %q", text)
}

func invalidRuneError(pos pegx.SourcePos, text string) *pegx.Error {
	return pegx.FormatErrorPos(pos, InvalidRuneError, "invalid code point %q", text)
}

func invalidBoundsError(pos pegx.SourcePos, text string) *pegx.Error {
	return pegx.FormatErrorPos(pos, InvalidBoundsError, "invalid repetition bound %q", text)
}

func invalidDeclarationError(v any) *pegx.Error {
	return pegx.FormatError(InvalidDeclarationError, "unexpected declaration %T", v)
}
