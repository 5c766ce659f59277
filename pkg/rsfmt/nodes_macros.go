package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// formatMacro lays out `path!(tokens)`. The path and bang stay attached to
// the token tree; a curly tree keeps a space before it if it had one.
func formatMacro(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	last := len(n.Children) - 1
	if last < 1 || !n.Children[last].Is("token_tree") {
		st.verbatim(n, base, sg)
		return
	}
	for _, c := range n.Children[:last] {
		st.child(c, base, sg)
	}

	tree := n.Children[last]
	if len(tree.Children) > 0 && tree.Children[0].Token("{") {
		if at := tree.Span.Start.Byte; at > 0 && isSpace(st.src[at-1]) {
			sg.Seg(" ")
		}
	}
	st.child(tree, base, sg)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

var closers = map[string]string{"(": ")", "[": "]"}

// formatTokenTree lays out a parenthesized or bracketed macro argument list
// that looks like a comma separated list as one, with each element kept as
// written. Anything else is emitted verbatim.
func formatTokenTree(st *State, n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	open, body, close := inner(n)
	if open == nil || closers[open.Text] == "" || !close.Token(closers[open.Text]) {
		st.verbatim(n, base, sg)
		return
	}
	items, trailing, ok := tokenRuns(body)
	if !ok {
		st.verbatim(n, base, sg)
		return
	}

	suffix := noSuffix()
	if trailing != nil {
		suffix = punctSuffix(trailing)
		suffix.kind = suffixKeep
	}
	appendBracketedList(st, base, sg, delimiters(open, close), items, suffix)
}

// tokenRuns splits a token tree body at its top-level commas. It fails when
// the body has statement or arm structure, or when a run spans lines.
func tokenRuns(body []*syntax.Node) (items []listItem, trailing *syntax.Node, ok bool) {
	var from, to *syntax.Node
	sep := -1
	flush := func() bool {
		if from == nil {
			return true
		}
		if from.Span.Start.Row != to.Span.End.Row {
			return false
		}
		items = append(items, listItem{Formattable: tokenRun{from, to}, sep: sep})
		from, to = nil, nil
		return true
	}
	for _, c := range body {
		switch {
		case c.Token(";"), c.Token("=>"):
			return nil, nil, false
		case c.Token(","):
			if !flush() {
				return nil, nil, false
			}
			sep = c.Span.Start.Byte
			trailing = c
			continue
		}
		if from == nil {
			from = c
		}
		to = c
		trailing = nil
	}
	if !flush() {
		return nil, nil, false
	}
	return items, trailing, true
}

// tokenRun is a run of macro tokens emitted as written.
type tokenRun struct {
	from, to *syntax.Node
}

func (r tokenRun) Format(st *State, base layout.Alignment, sg *layout.Builder) {
	st.verbatimRange(r.from, r.to, base, sg)
}
