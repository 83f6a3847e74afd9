// Package tree defines values produced by grammar rules and functions to traverse them.
//
// A rule value is one of:
//   - nil (nothing matched or matched text discarded);
//   - string (text matched by token or pattern);
//   - []any (repetition or sequence values);
//   - *AST (named captures of a rule);
//   - anything returned by user-defined hooks.
package tree

import (
	"strings"

	"github.com/goccy/go-yaml"
)

// AST is an ordered set of named captures collected while parsing a rule.
type AST struct {
	keys   []string
	values map[string]any
	lists  map[string]bool
}

func New() *AST {
	return &AST{values: make(map[string]any), lists: make(map[string]bool)}
}

// Set stores a capture. Setting a key twice turns its value into a list of captures.
func (a *AST) Set(key string, value any) {
	old, exists := a.values[key]
	switch {
	case !exists:
		a.keys = append(a.keys, key)
		a.values[key] = value
	case a.lists[key]:
		a.values[key] = append(old.([]any), value)
	default:
		a.values[key] = []any{old, value}
		a.lists[key] = true
	}
}

// Append adds a capture to the list stored under the key, creating the list if needed.
func (a *AST) Append(key string, value any) {
	old, exists := a.values[key]
	if !exists {
		a.keys = append(a.keys, key)
		a.values[key] = []any{value}
		a.lists[key] = true
		return
	}

	if !a.lists[key] {
		old = []any{old}
		a.lists[key] = true
	}
	a.values[key] = append(old.([]any), value)
}

func (a *AST) Get(key string) any {
	return a.values[key]
}

func (a *AST) Has(key string) bool {
	_, has := a.values[key]
	return has
}

// String returns string capture or empty string.
func (a *AST) String(key string) string {
	s, _ := a.values[key].(string)
	return s
}

// List returns list capture; a single value is returned as a list of one element.
func (a *AST) List(key string) []any {
	switch v := a.values[key].(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// Keys returns capture names in order of their first appearance.
func (a *AST) Keys() []string {
	return append([]string(nil), a.keys...)
}

func (a *AST) Len() int {
	return len(a.keys)
}

// Delete removes a capture.
func (a *AST) Delete(key string) {
	if _, has := a.values[key]; !has {
		return
	}

	delete(a.values, key)
	delete(a.lists, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// MarshalYAML keeps capture order.
func (a *AST) MarshalYAML() (any, error) {
	res := make(yaml.MapSlice, 0, len(a.keys))
	for _, k := range a.keys {
		res = append(res, yaml.MapItem{Key: k, Value: a.values[k]})
	}
	return res, nil
}

// Dump returns text representation of a value, used mostly in tests and diagnostics.
func Dump(v any) string {
	var sb strings.Builder
	dump(&sb, v)
	return sb.String()
}

func dump(sb *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("nil")
	case string:
		sb.WriteByte('"')
		sb.WriteString(v)
		sb.WriteByte('"')
	case []any:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			dump(sb, item)
		}
		sb.WriteByte(']')
	case *AST:
		sb.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(k)
			sb.WriteByte(':')
			dump(sb, v.values[k])
		}
		sb.WriteByte('}')
	case interface{ String() string }:
		sb.WriteString(v.String())
	default:
		sb.WriteString("?")
	}
}
