package parser

import (
	"sort"
	"strings"

	"github.com/ava12/pegx"
	"github.com/ava12/pegx/source"
)

// Error codes, FailKind values are mapped to the first ten codes.
const (
	TokenError = pegx.ParseErrors + iota
	PatternError
	ChoiceError
	LookaheadError
	CutError
	LeftRecursionError
	RuleRefError
	SemanticsError
	EOFError
	LimitError
	UnknownRuleError
	InvalidOptionsError
)

func failureCode(k FailKind) int {
	if k < FailedToken || k > FailedParse {
		return LimitError
	}
	return TokenError + int(k-FailedToken)
}

// UnknownRule returns error reported when parse is started with undeclared rule name.
func UnknownRule(name string) error {
	return pegx.FormatError(UnknownRuleError, "unknown start rule %q", name)
}

func invalidOptionsError(e error) *pegx.Error {
	return pegx.FormatError(InvalidOptionsError, "invalid parser options (%s)", e.Error())
}

func failureError(src *source.Source, f *Failure) error {
	if f.Err != nil {
		return f.Err
	}

	var msg string
	switch {
	case f.Message != "":
		msg = f.Message
	case len(f.Expected) > 0:
		msg = "expected " + strings.Join(f.Expected, " or ")
	default:
		msg = "no match"
	}
	if len(f.Stack) > 0 {
		msg += " while parsing " + strings.Join(f.Stack, " > ")
	}

	e := pegx.FormatErrorPos(src.At(f.Pos), failureCode(f.Kind), "%s", msg)
	e.Stack = f.Stack
	return e
}

func mergeExpected(dst, src []string) []string {
	for _, s := range src {
		i := sort.SearchStrings(dst, s)
		if i < len(dst) && dst[i] == s {
			continue
		}
		dst = append(dst, "")
		copy(dst[i+1:], dst[i:])
		dst[i] = s
	}
	return dst
}
