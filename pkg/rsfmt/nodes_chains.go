package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// link is one `.name` step of a method chain and what follows the name
// before the next step, such as turbofish, arguments or `?`.
type link struct {
	dot  *syntax.Node
	rest []*syntax.Node
}

// formatChain lays out `a.b().c()` with a break before each `.` once the
// chain has at least two steps and a call. Anything shorter is a plain
// sequence.
func formatChain(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	root, links := unchain(n)
	if len(links) < 2 || !calls(links) {
		formatSequence(st, n, base, sg)
		return
	}

	indent := base.Indent()
	st.child(root, base, sg)
	for _, l := range links {
		sg.Split(indent, true)
		st.token(l.dot, indent, sg)
		for _, c := range l.rest {
			st.child(c, indent, sg)
		}
	}
}

// unchain flattens nested field accesses, method calls, `?` and `.await`
// into the receiver the chain starts from and the steps after it.
func unchain(n *syntax.Node) (*syntax.Node, []link) {
	switch n.Kind {
	case "call_expression":
		fn := n.FieldChild("function")
		if fn == nil || n.Children[0] != fn {
			break
		}
		var turbofish []*syntax.Node
		if generic := fn; generic.Is("generic_function") {
			fn = generic.FieldChild("function")
			if fn == nil || generic.Children[0] != fn {
				break
			}
			turbofish = generic.Children[1:]
		}
		if !fn.Is("field_expression") {
			break
		}
		root, links := unchain(fn)
		if len(links) == 0 {
			break
		}
		last := &links[len(links)-1]
		last.rest = append(last.rest, turbofish...)
		last.rest = append(last.rest, n.Children[1:]...)
		return root, links
	case "field_expression", "await_expression":
		if len(n.Children) != 3 || !n.Children[1].Token(".") {
			break
		}
		root, links := unchain(n.Children[0])
		return root, append(links, link{dot: n.Children[1], rest: []*syntax.Node{n.Children[2]}})
	case "try_expression":
		root, links := unchain(n.Children[0])
		if len(links) == 0 {
			break
		}
		last := &links[len(links)-1]
		last.rest = append(last.rest, n.Children[1:]...)
		return root, links
	}
	return n, nil
}

func calls(links []link) bool {
	for _, l := range links {
		for _, c := range l.rest {
			if c.Is("arguments") {
				return true
			}
		}
	}
	return false
}
