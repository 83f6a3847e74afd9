package tree

// WalkStat describes the visited value.
type WalkStat struct {
	Value any
	// Key contains capture name if the value is stored in AST, empty string otherwise.
	Key string
	// Index contains list index if the value is a list item, -1 otherwise.
	Index int
	Level int
}

// WalkerFlags returned by visitor control traversal.
type WalkerFlags int

const (
	// WalkerStop stops traversal.
	WalkerStop WalkerFlags = 1 << iota
	// WalkerSkipChildren skips children of current value.
	WalkerSkipChildren
)

type Visitor func(stat WalkStat) WalkerFlags

// Walk visits v and all values nested in lists and ASTs, depth-first, in order.
func Walk(v any, visitor Visitor) {
	walk(WalkStat{Value: v, Index: -1}, visitor)
}

func walk(stat WalkStat, visitor Visitor) bool {
	flags := visitor(stat)
	if flags&WalkerStop != 0 {
		return false
	}
	if flags&WalkerSkipChildren != 0 {
		return true
	}

	switch v := stat.Value.(type) {
	case []any:
		for i, item := range v {
			if !walk(WalkStat{Value: item, Index: i, Level: stat.Level + 1}, visitor) {
				return false
			}
		}
	case *AST:
		for _, k := range v.keys {
			if !walk(WalkStat{Value: v.values[k], Key: k, Index: -1, Level: stat.Level + 1}, visitor) {
				return false
			}
		}
	}
	return true
}

// Strings returns all strings found in v in order.
func Strings(v any) []string {
	var res []string
	Walk(v, func(stat WalkStat) WalkerFlags {
		if s, ok := stat.Value.(string); ok {
			res = append(res, s)
		}
		return 0
	})
	return res
}
