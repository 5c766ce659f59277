package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// listItem is one element of a separated list.
type listItem struct {
	Formattable
	// sep is the byte offset of the separator before the element, or -1.
	sep int
}

type suffixKind int

const (
	// suffixNone never ends the list with a separator.
	suffixNone suffixKind = iota
	// suffixPunct ends the list with a separator only when it splits.
	suffixPunct
	// suffixExtra ends the list with an extra element, such as `..base`,
	// after a separator.
	suffixExtra
	// suffixKeep always ends the list with a separator.
	suffixKeep
)

type listSuffix struct {
	kind suffixKind
	// pos is the byte offset of the original trailing separator, or -1.
	pos   int
	extra Formattable
}

func noSuffix() listSuffix { return listSuffix{kind: suffixNone, pos: -1} }

func punctSuffix(trailing *syntax.Node) listSuffix {
	s := listSuffix{kind: suffixPunct, pos: -1}
	if trailing != nil {
		s.pos = trailing.Span.Start.Byte
	}
	return s
}

func extraSuffix(extra Formattable) listSuffix {
	return listSuffix{kind: suffixExtra, pos: -1, extra: extra}
}

func (s listSuffix) hasExtra() bool {
	return s.kind == suffixExtra && s.extra != nil
}

// appendInlineListRaw appends elements separated by sep with an optional
// break after each separator, all at base. Comments that came before a
// separator follow it.
func appendInlineListRaw(st *State, base layout.Alignment, sg *layout.Builder, sep string, items []listItem, suffix listSuffix) {
	for i, it := range items {
		if i > 0 {
			sg.Seg(sep)
			if it.sep >= 0 {
				st.appendComments(base, sg, it.sep)
			}
			sg.Split(base, true)
			sg.SegFlat(" ")
		}
		sg.Child(st.Make(it.Formattable, base))
	}

	switch suffix.kind {
	case suffixPunct:
		if len(items) > 0 {
			sg.SegSplit(sep)
			if suffix.pos >= 0 {
				st.appendComments(base, sg, suffix.pos)
			}
		}
	case suffixKeep:
		if len(items) > 0 {
			sg.Seg(sep)
			if suffix.pos >= 0 {
				st.appendComments(base, sg, suffix.pos)
			}
		}
	case suffixExtra:
		if suffix.extra == nil {
			return
		}
		if len(items) > 0 {
			sg.Seg(sep)
			sg.Split(base, true)
			sg.SegFlat(" ")
		}
		sg.Child(st.Make(suffix.extra, base))
	}
}

// appendInlineList appends the elements one level deeper than base, with a
// break before the first.
func appendInlineList(st *State, base layout.Alignment, sg *layout.Builder, sep string, items []listItem, suffix listSuffix) {
	indent := base.Indent()
	sg.Split(indent, true)
	sg.SegFlat(" ")
	appendInlineListRaw(st, indent, sg, sep, items, suffix)
}

// bracket describes the delimiters of a bracketed list.
type bracket struct {
	prefix string
	open   syntax.Point
	suffix string
	close  syntax.Point
	// pad puts a space inside the delimiters when the list renders flat.
	pad bool
}

func delimiters(open, close *syntax.Node) bracket {
	return bracket{
		prefix: open.Text,
		open:   open.Span.Start,
		suffix: close.Text,
		close:  close.Span.Start,
	}
}

// appendBracketedList appends `prefix elements suffix`, with the elements
// one level deeper than base when the group splits. A list with nothing
// between its delimiters has no breaks.
func appendBracketedList(st *State, base layout.Alignment, sg *layout.Builder, br bracket, items []listItem, suffix listSuffix) {
	st.lit(br.prefix, br.open, base, sg)
	st.noBlank()

	nonEmpty := len(items) > 0 || suffix.hasExtra()
	if !nonEmpty && !st.commentsBefore(br.close.Byte) {
		sg.Seg(br.suffix)
		st.lastRow = br.close.Row
		return
	}
	indent := base.Indent()
	if br.pad && nonEmpty {
		sg.SegFlat(" ")
	}
	sg.Split(indent, true)
	appendInlineListRaw(st, indent, sg, ",", items, suffix)
	if br.pad && nonEmpty {
		sg.SegFlat(" ")
	}
	st.appendComments(indent, sg, br.close.Byte)
	sg.Split(base, false)
	sg.Seg(br.suffix)
	st.lastRow = br.close.Row
}

// appendCurlyList appends ` { elements }`, splitting when the number of
// elements reaches the brace threshold.
func appendCurlyList(st *State, base layout.Alignment, sg *layout.Builder, open, close *syntax.Node, items []listItem, suffix listSuffix) {
	br := delimiters(open, close)
	br.prefix = "{"
	br.suffix = "}"
	br.pad = true
	sg.Seg(" ")

	children := len(items)
	if suffix.hasExtra() {
		children++
	}
	sg.Brace(children)
	appendBracketedList(st, base, sg, br, items, suffix)
}

// elements splits the children between a list's delimiters at commas. Each
// element is the run of nodes between two commas, so attributes stay with
// the item they annotate. trailing is the comma after the last element, if
// there is one.
func elements(children []*syntax.Node) (items []listItem, trailing *syntax.Node) {
	var run []*syntax.Node
	sep := -1
	for _, c := range children {
		if c.Token(",") {
			if len(run) > 0 {
				items = append(items, listItem{Formattable: element(run), sep: sep})
				run = nil
			}
			sep = c.Span.Start.Byte
			trailing = c
			continue
		}
		run = append(run, c)
		trailing = nil
	}
	if len(run) > 0 {
		items = append(items, listItem{Formattable: element(run), sep: sep})
	}
	return items, trailing
}

// element is a list element made of one or more sibling nodes.
type element []*syntax.Node

func (e element) Format(st *State, base layout.Alignment, sg *layout.Builder) {
	if len(e) == 1 {
		st.format(e[0], base, sg)
		return
	}
	st.sequence(e, "", base, sg)
}

// inner returns the children of n between its first and last child, which
// are taken to be its delimiters.
func inner(n *syntax.Node) (open *syntax.Node, children []*syntax.Node, close *syntax.Node) {
	if len(n.Children) < 2 {
		return nil, n.Children, nil
	}
	return n.Children[0], n.Children[1 : len(n.Children)-1], n.Children[len(n.Children)-1]
}
