package rsfmt

import (
	"strings"

	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// appendComments emits every queued comment that starts before pos, each on
// its own line at align. It reports whether any were emitted.
func (st *State) appendComments(align layout.Alignment, sg *layout.Builder, pos int) bool {
	emitted := false
	for st.next < len(st.comments) && st.comments[st.next].Span.Start.Byte < pos {
		st.emitComment(align, sg, st.comments[st.next])
		st.next++
		emitted = true
	}
	return emitted
}

func (st *State) emitComment(align layout.Alignment, sg *layout.Builder, c syntax.Comment) {
	st.breakBefore(c.Span.Start.Row, align, sg)
	for i, line := range st.commentLines(c) {
		if i > 0 {
			sg.SplitAlways(align, true)
		}
		sg.Seg(line)
	}
	sg.SplitAlways(align, true)
	st.lastRow = c.Span.End.Row
}

// consumeComments drops queued comments that start before pos. The caller
// has emitted them as part of verbatim source.
func (st *State) consumeComments(pos int) {
	for st.next < len(st.comments) && st.comments[st.next].Span.Start.Byte < pos {
		st.next++
	}
}

// commentsBefore reports whether a queued comment starts before pos.
func (st *State) commentsBefore(pos int) bool {
	return st.next < len(st.comments) && st.comments[st.next].Span.Start.Byte < pos
}

// pending reports whether any comments remain queued.
func (st *State) pending() bool {
	return st.next < len(st.comments)
}

// abandon records every queued comment as lost at the last formatted
// location.
func (st *State) abandon() {
	for ; st.next < len(st.comments); st.next++ {
		st.lost[st.last] = append(st.lost[st.last], st.comments[st.next])
	}
}

// Lost returns the comments that could not be placed, keyed by the start of
// the last node formatted before them.
func (st *State) Lost() map[syntax.Point][]syntax.Comment {
	return st.lost
}

// commentLines returns the lines a comment is emitted as. Plain line
// comments are re-wrapped when a comment width is configured.
func (st *State) commentLines(c syntax.Comment) []string {
	if st.cfg.CommentWidth <= 0 || c.Block || c.Doc {
		return []string{c.Text}
	}
	if layout.VisibleWidth(c.Text) <= st.cfg.CommentWidth {
		return []string{c.Text}
	}
	return wrapComment(c.Text, st.cfg.CommentWidth)
}

// wrapComment splits a // comment at word boundaries so each line fits in
// width. Words wider than width get a line of their own.
func wrapComment(text string, width int) []string {
	words := strings.Fields(strings.TrimPrefix(text, "//"))
	if len(words) == 0 {
		return []string{text}
	}
	var lines []string
	line := "//"
	for _, w := range words {
		if line != "//" && layout.VisibleWidth(line)+1+layout.VisibleWidth(w) > width {
			lines = append(lines, line)
			line = "//"
		}
		line += " " + w
	}
	return append(lines, line)
}
