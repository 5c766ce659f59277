package rsfmt

import (
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// Formattable is anything that can lay itself out into a split group.
type Formattable interface {
	Format(st *State, base layout.Alignment, sg *layout.Builder)
}

// State carries one formatting run: the arena being built, the queue of
// comments not yet placed, and the comments that could not be placed.
type State struct {
	cfg   Config
	src   []byte
	arena *layout.Arena

	comments []syntax.Comment
	next     int

	// lastRow is the source row of the last token or comment emitted, or -1
	// when a blank line may not follow it.
	lastRow int
	// last is the start of the last node formatted.
	last syntax.Point

	lost map[syntax.Point][]syntax.Comment
}

// NewState prepares a run over a parsed file.
func NewState(cfg Config, file *syntax.File) *State {
	return &State{
		cfg:      cfg,
		src:      file.Source,
		arena:    layout.NewArena(),
		comments: file.Comments,
		lastRow:  -1,
		lost:     map[syntax.Point][]syntax.Comment{},
	}
}

// Arena returns the arena groups are built in.
func (st *State) Arena() *layout.Arena {
	return st.arena
}

// Make lays out f in a new group and returns its handle.
func (st *State) Make(f Formattable, base layout.Alignment) layout.GroupID {
	return st.arena.Build(func(sg *layout.Builder) {
		f.Format(st, base, sg)
	})
}

// node adapts a syntax node to Formattable.
type node struct {
	*syntax.Node
}

func (n node) Format(st *State, base layout.Alignment, sg *layout.Builder) {
	st.format(n.Node, base, sg)
}

// format appends n to sg using the formatter registered for its kind.
func (st *State) format(n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.last = n.Span.Start
	if n.Leaf() {
		st.token(n, base, sg)
		return
	}
	if f, ok := formatters[n.Kind]; ok {
		f(st, n, base, sg)
		return
	}
	st.verbatim(n, base, sg)
}

// child appends n as its own group.
func (st *State) child(n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	if n.Leaf() {
		st.format(n, base, sg)
		return
	}
	sg.Child(st.Make(node{n}, base))
}

// token emits a leaf, after any comments that precede it.
func (st *State) token(n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.appendComments(base, sg, n.Span.Start.Byte)
	sg.Seg(n.Text)
	st.lastRow = n.Span.End.Row
}

// lit emits text standing in for the token at pos, after any comments that
// precede it.
func (st *State) lit(text string, pos syntax.Point, base layout.Alignment, sg *layout.Builder) {
	st.appendComments(base, sg, pos.Byte)
	sg.Seg(text)
	st.lastRow = pos.Row
}

// verbatim emits n exactly as written. Comments inside it are emitted as
// part of its text.
func (st *State) verbatim(n *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.appendComments(base, sg, n.Span.Start.Byte)
	sg.Seg(n.Source(st.src))
	st.consumeComments(n.Span.End.Byte)
	st.lastRow = n.Span.End.Row
}

// verbatimRange emits the source between two nodes exactly as written.
func (st *State) verbatimRange(from, to *syntax.Node, base layout.Alignment, sg *layout.Builder) {
	st.appendComments(base, sg, from.Span.Start.Byte)
	sg.Seg(string(st.src[from.Span.Start.Byte:to.Span.End.Byte]))
	st.consumeComments(to.Span.End.Byte)
	st.lastRow = to.Span.End.Row
}

// noBlank prevents a blank line before whatever is emitted next.
func (st *State) noBlank() {
	st.lastRow = -1
}

// blankBefore reports whether the source has an empty line between the
// last thing emitted and row.
func (st *State) blankBefore(row int) bool {
	return st.lastRow >= 0 && row > st.lastRow+1
}

// breakBefore appends a required break to align that preserves a blank
// line from the source before row.
func (st *State) breakBefore(row int, align layout.Alignment, sg *layout.Builder) {
	if st.blankBefore(row) {
		sg.Blank(align)
	} else {
		sg.SplitAlways(align, true)
	}
}
