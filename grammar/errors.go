package grammar

import (
	"strings"

	"github.com/ava12/pegx"
)

const (
	EmptyTokenError = pegx.GrammarErrors + iota
	InvalidPatternError
	DuplicateRuleError
	UnknownBaseRuleError
	UnresolvedRuleError
	UnknownDirectiveError
	DuplicateDirectiveError
	InvalidDirectiveError
	NoRulesError
	InvalidRepeatError
)

func emptyTokenError() *pegx.Error {
	return pegx.FormatError(EmptyTokenError, "empty token")
}

func invalidPatternError(src string, e error) *pegx.Error {
	return pegx.FormatError(InvalidPatternError, "invalid pattern /%s/ (%s)", src, e.Error())
}

func duplicateRuleError(name string) *pegx.Error {
	return pegx.FormatError(DuplicateRuleError, "rule %q already declared", name)
}

func unknownBaseRuleError(name, base string) *pegx.Error {
	return pegx.FormatError(UnknownBaseRuleError, "rule %q refers to undeclared base rule %q", name, base)
}

func unresolvedRuleError(names []string) *pegx.Error {
	return pegx.FormatError(UnresolvedRuleError, "undeclared rules: %s", strings.Join(names, ", "))
}

func unknownDirectiveError(name string) *pegx.Error {
	return pegx.FormatError(UnknownDirectiveError, "unknown directive %q", name)
}

func duplicateDirectiveError(name string) *pegx.Error {
	return pegx.FormatError(DuplicateDirectiveError, "directive %q already set", name)
}

func invalidDirectiveError(name, value string, e error) *pegx.Error {
	return pegx.FormatError(InvalidDirectiveError, "invalid %q directive value %q (%s)", name, value, e.Error())
}

func noRulesError() *pegx.Error {
	return pegx.FormatError(NoRulesError, "grammar contains no rules")
}

func invalidRepeatError(min, max int) *pegx.Error {
	return pegx.FormatError(InvalidRepeatError, "invalid repetition bounds <%d,%d>", min, max)
}
