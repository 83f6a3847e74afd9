// Package pegxgen renders grammar model to parser source code and other textual forms.
//
// Output formats are provided by targets; "go", "ebnf", and "yaml" targets are registered by default.
// Rendering never modifies the grammar, so one grammar may be rendered by several goroutines at once.
package pegxgen

import (
	"sort"
	"sync"

	"github.com/ava12/pegx/grammar"
)

const DefaultTarget = "go"

// Options control rendering, targets ignore options they do not need.
type Options struct {
	// Package is Go package name of generated file, default is derived from grammar name.
	Package string `yaml:"package"`
	// TypeName is the name of generated parser type, default is grammar name with "Parser" suffix.
	TypeName string `yaml:"type_name"`
	// ImportPath is import path of pegx module used by generated code.
	ImportPath string `yaml:"import_path"`
}

const defaultImportPath = "github.com/ava12/pegx"

// Target renders grammar in some format.
type Target interface {
	Name() string
	Render(g *grammar.Grammar, opts Options) ([]byte, error)
}

var registry = struct {
	sync.RWMutex
	targets map[string]Target
}{targets: make(map[string]Target)}

func init() {
	Register(goTarget{})
	Register(ebnfTarget{})
	Register(yamlTarget{})
}

// Register adds a target replacing the one with the same name.
func Register(t Target) {
	registry.Lock()
	defer registry.Unlock()
	registry.targets[t.Name()] = t
}

// Lookup returns registered target by name.
func Lookup(name string) (Target, error) {
	registry.RLock()
	defer registry.RUnlock()
	t, found := registry.targets[name]
	if !found {
		return nil, unknownTargetError(name)
	}
	return t, nil
}

// Targets returns sorted names of registered targets.
func Targets() []string {
	registry.RLock()
	defer registry.RUnlock()
	res := make([]string, 0, len(registry.targets))
	for name := range registry.targets {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Render renders g using named target, empty name means DefaultTarget.
func Render(g *grammar.Grammar, target string, opts Options) ([]byte, error) {
	if target == "" {
		target = DefaultTarget
	}
	t, e := Lookup(target)
	if e != nil {
		return nil, e
	}
	return t.Render(g, opts)
}
