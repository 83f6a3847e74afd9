package langdef

import (
	"io/fs"
	"path"
	"strings"

	"github.com/ava12/pegx/source"
)

// Loader loads included grammar files by name.
type Loader interface {
	Load(name string) (*source.Source, error)
}

// LoaderFunc adapts a function to Loader interface.
type LoaderFunc func(name string) (*source.Source, error)

func (f LoaderFunc) Load(name string) (*source.Source, error) {
	return f(name)
}

// FSLoader loads grammar files from a file system.
// Files with ".md" extension are Markdown documents, grammar is taken from their ebnf code blocks.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(name string) (*source.Source, error) {
	content, e := fs.ReadFile(l.FS, name)
	if e != nil {
		return nil, e
	}

	if strings.EqualFold(path.Ext(name), ".md") {
		if content, e = ExtractMarkdown(content); e != nil {
			return nil, e
		}
	}
	return source.New(name, content), nil
}

// resolveName returns name of included file relative to the including one.
func resolveName(from, name string) string {
	if from == "" || path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(path.Dir(from), name)
}
