package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

type trailingKind int

const (
	// trailingPunct adds a trailing comma when the list splits.
	trailingPunct trailingKind = iota
	// trailingNone never writes a trailing comma.
	trailingNone
	// trailingTuple is trailingPunct, except a single element always keeps
	// its comma so it stays a tuple.
	trailingTuple
)

type listStyle struct {
	curly  bool
	suffix trailingKind
	// extra is the kind of a node that may end the list without a comma
	// after it, like `..base` in a struct literal.
	extra string
}

var openers = set("(", "[", "{", "<", "|")

// formatList lays out a node whose children are optional leading nodes, an
// opening delimiter, comma separated elements and a closing delimiter.
func formatList(style listStyle) formatter {
	return func(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
		open := -1
		for i, c := range n.Children {
			if c.Leaf() && !c.Named && openers[c.Text] {
				open = i
				break
			}
		}
		last := len(n.Children) - 1
		if open < 0 || last <= open || !n.Children[last].Leaf() {
			st.verbatim(n, base, sg)
			return
		}

		if open > 0 {
			st.sequence(n.Children[:open], n.Kind, base, sg)
		}

		openTok, closeTok := n.Children[open], n.Children[last]
		body := n.Children[open+1 : last]
		var extra *syntax.Node
		if style.extra != "" && len(body) > 0 && body[len(body)-1].Is(style.extra) {
			extra = body[len(body)-1]
			body = body[:len(body)-1]
		}

		items, trailing := elements(body)
		suffix := style.listSuffix(items, trailing, extra)
		if style.curly {
			appendCurlyList(st, base, sg, openTok, closeTok, items, suffix)
			return
		}
		appendBracketedList(st, base, sg, delimiters(openTok, closeTok), items, suffix)
	}
}

func (style listStyle) listSuffix(items []listItem, trailing, extra *syntax.Node) listSuffix {
	if extra != nil {
		return extraSuffix(node{extra})
	}
	switch style.suffix {
	case trailingNone:
		return noSuffix()
	case trailingTuple:
		if len(items) == 1 {
			s := punctSuffix(trailing)
			s.kind = suffixKeep
			return s
		}
	}
	// Nothing may follow a C variadic.
	if len(items) > 0 && endsWith(items[len(items)-1], "variadic_parameter") {
		return noSuffix()
	}
	return punctSuffix(trailing)
}

func endsWith(it listItem, kind string) bool {
	e, ok := it.Formattable.(element)
	return ok && len(e) > 0 && e[len(e)-1].Is(kind)
}

// formatArray lays out `[a, b, c]` as a list and `[x; n]` as written.
func formatArray(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	for _, c := range n.Children {
		if c.Token(";") {
			st.sequence(n.Children, n.Kind, base, sg)
			return
		}
	}
	formatList(listStyle{suffix: trailingPunct})(st, n, base, sg)
}

func formatWhere(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.whereClause(n, base, sg, false)
}

// whereClause lays out `where` and its predicates. Split, `where` sits on a
// line of its own at base with one predicate per line below it. When body is
// set, the body that follows starts on a new line.
func (st *State) whereClause(n *syntax.Node, base layout.Alignment, sg *layout.Builder, body bool) {
	if len(n.Children) == 0 || !n.Children[0].Token("where") {
		st.verbatim(n, base, sg)
		return
	}

	items, trailing := elements(n.Children[1:])
	if st.cfg.SplitWhere && len(items) > 0 {
		sg.SplitAlways(base, false)
	} else {
		sg.Split(base, false)
	}
	st.token(n.Children[0], base, sg)
	appendInlineList(st, base, sg, ",", items, punctSuffix(trailing))
	if body {
		sg.Split(base, false)
	}
}
