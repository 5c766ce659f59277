// Package layout implements the split-group model used to lay out source code
// within a width limit.
//
// A layout is built bottom-up as an arena of groups. Each group is an ordered
// list of segments: literal text, text that only appears when the group
// renders flat or split, break points, and references to child groups. The
// renderer decides, from the root down, whether each group fits on the
// current line or must split at its break points.
package layout

// Alignment is an indentation level. Alignments are values; Indent returns a
// new level nested in the receiver and never modifies it.
//
// A level only contributes indentation once it has been activated by a break
// point that asks for it, so an alignment's column is decided at render
// time.
type Alignment struct {
	level *level
}

type level struct {
	parent *level
}

// Root returns the outermost alignment, always at column zero.
func Root() Alignment {
	return Alignment{level: &level{}}
}

// Indent returns an alignment one level deeper than a.
func (a Alignment) Indent() Alignment {
	return Alignment{level: &level{parent: a.level}}
}

// activations tracks which levels have been activated during a render.
type activations map[*level]bool

func (act activations) activate(a Alignment) {
	if a.level != nil && a.level.parent != nil {
		act[a.level] = true
	}
}

func (act activations) column(a Alignment, unit int) int {
	col := 0
	for l := a.level; l != nil && l.parent != nil; l = l.parent {
		if act[l] {
			col += unit
		}
	}
	return col
}
