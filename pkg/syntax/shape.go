package syntax

import (
	"strings"

	"github.com/kr/pretty"
)

// Shape flattens n into the token sequence that two equivalent trees share:
// named node kinds with their nesting, and leaf text. Comments never appear
// in the tree, and separating commas are left out because a printer may add
// or drop trailing ones.
func Shape(n *Node) []string {
	var out []string
	shape(n, &out)
	return out
}

func shape(n *Node, out *[]string) {
	if n.Leaf() {
		if !n.Named && n.Text == "," {
			return
		}
		*out = append(*out, n.Text)
		return
	}
	if n.Named {
		*out = append(*out, "("+n.Kind)
	}
	for _, c := range n.Children {
		shape(c, out)
	}
	if n.Named {
		*out = append(*out, ")")
	}
}

// Diff describes the first difference between two shapes, or returns "" if
// they are equal.
func Diff(before, after []string) string {
	i := 0
	for i < len(before) && i < len(after) && before[i] == after[i] {
		i++
	}
	if i == len(before) && i == len(after) {
		return ""
	}
	lo := max(0, i-4)
	window := func(s []string) []string {
		return s[min(lo, len(s)):min(i+4, len(s))]
	}
	diffs := pretty.Diff(window(before), window(after))
	if len(diffs) == 0 {
		return "shapes differ in length"
	}
	return "near token " + strings.Join(window(before), " ") + ": " + strings.Join(diffs, "; ")
}
