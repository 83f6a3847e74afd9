package grammar

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Unreachable returns names of rules not reachable from the start rule, in declaration order.
func Unreachable(g *Grammar) []string {
	start := g.Start()
	if start == nil {
		return nil
	}

	reached := map[string]bool{start.Name: true}
	q := linkedlistqueue.New()
	q.Enqueue(start)
	for !q.Empty() {
		v, _ := q.Dequeue()
		for _, name := range referencedRules(v.(*Rule).Expression()) {
			if reached[name] {
				continue
			}
			reached[name] = true
			if r := g.Rule(name); r != nil {
				q.Enqueue(r)
			}
		}
	}

	var res []string
	for _, r := range g.Rules {
		if !reached[r.Name] {
			res = append(res, r.Name)
		}
	}
	return res
}

func referencedRules(n Node) []string {
	var res []string
	Walk(n, func(n Node) bool {
		switch n := n.(type) {
		case *RuleRef:
			res = append(res, n.Name)
		case *RuleInclude:
			res = append(res, n.Name)
		}
		return true
	})
	return res
}

// LeftRecursive returns names of rules that may call themselves without consuming input,
// in declaration order. Such rules fail at parse time.
func LeftRecursive(g *Grammar) []string {
	nullable := nullableRules(g)
	calls := make(map[string][]string, len(g.Rules))
	for _, r := range g.Rules {
		calls[r.Name] = leftCalls(r.Expression(), nullable, nil)
	}

	var res []string
	for _, r := range g.Rules {
		if reachesItself(r.Name, calls) {
			res = append(res, r.Name)
		}
	}
	return res
}

func reachesItself(name string, calls map[string][]string) bool {
	visited := make(map[string]bool)
	q := linkedlistqueue.New()
	for _, c := range calls[name] {
		q.Enqueue(c)
	}
	for !q.Empty() {
		v, _ := q.Dequeue()
		callee := v.(string)
		if callee == name {
			return true
		}
		if visited[callee] {
			continue
		}
		visited[callee] = true
		for _, c := range calls[callee] {
			q.Enqueue(c)
		}
	}
	return false
}

func nullableRules(g *Grammar) map[string]bool {
	res := make(map[string]bool, len(g.Rules))
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if !res[r.Name] && isNullable(r.Expression(), res) {
				res[r.Name] = true
				changed = true
			}
		}
	}
	return res
}

func isNullable(n Node, rules map[string]bool) bool {
	switch n := n.(type) {
	case *Token:
		return n.Literal == ""
	case *Pattern:
		return n.Re == nil || n.Re.MatchString("")
	case *Sequence:
		for _, item := range n.Items {
			if !isNullable(item, rules) {
				return false
			}
		}
		return true
	case *Choice:
		for _, option := range n.Options {
			if isNullable(option, rules) {
				return true
			}
		}
		return false
	case *Repetition:
		return n.Min == 0 || isNullable(n.Item, rules)
	case *RuleRef:
		return rules[n.Name]
	case *RuleInclude:
		return rules[n.Name]
	case *Override:
		return isNullable(n.Item, rules)
	case *Named:
		return isNullable(n.Item, rules)
	}
	return true
}

func leftCalls(n Node, nullable map[string]bool, res []string) []string {
	switch n := n.(type) {
	case *RuleRef:
		res = append(res, n.Name)
	case *RuleInclude:
		res = append(res, n.Name)
	case *Sequence:
		for _, item := range n.Items {
			res = leftCalls(item, nullable, res)
			if !isNullable(item, nullable) {
				break
			}
		}
	default:
		for _, c := range Children(n) {
			res = leftCalls(c, nullable, res)
		}
	}
	return res
}
