package pegxgen

import (
	"github.com/ava12/pegx"
	"github.com/ava12/pegx/grammar"
)

const (
	UnknownTargetError = pegx.RenderErrors + iota
	RendererNotFoundError
	InvalidNameError
	FormatError
)

func unknownTargetError(name string) *pegx.Error {
	return pegx.FormatError(UnknownTargetError, "unknown target %q", name)
}

func rendererNotFoundError(target string, n grammar.Node) *pegx.Error {
	return pegx.FormatError(RendererNotFoundError, "%s target cannot render %T expression", target, n)
}

func invalidNameError(what, name string) *pegx.Error {
	return pegx.FormatError(InvalidNameError, "invalid %s name %q", what, name)
}

func formatError(e error) *pegx.Error {
	return pegx.FormatError(FormatError, "cannot format generated code (%s)", e.Error())
}
