package layout

import (
	"fmt"
	"strings"
)

// DefaultIndentWidth is the number of spaces an activated level adds.
const DefaultIndentWidth = 4

// Options controls rendering.
type Options struct {
	// MaxWidth is the preferred maximum line width.
	MaxWidth int

	// IndentWidth is the number of spaces per activated level. Zero means
	// DefaultIndentWidth.
	IndentWidth int

	// SplitBraceThreshold forces brace-delimited groups with at least this
	// many children to split. Zero disables the threshold.
	SplitBraceThreshold int

	// RootSplits requires every ancestor of a split group to split as well.
	RootSplits bool
}

// Render lays out the tree rooted at root and returns the text, terminated
// by a single newline unless it is empty.
//
// Layout happens in two passes. The first walks the arena in handle order,
// which is bottom-up, computing each group's flat width and whether it is
// forced to split. The second walks down from the root deciding, for each
// group, whether it fits flat from the column it starts at, together with
// whatever its parent writes after it before the next line break.
func Render(arena *Arena, root GroupID, opts Options) (string, error) {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultIndentWidth
	}
	if int(root) < 0 || int(root) >= arena.Len() {
		return "", fmt.Errorf("render: root %d is not a finalized group", root)
	}

	r := &renderer{
		arena:  arena,
		opts:   opts,
		flat:   make([]int, arena.Len()),
		head:   make([]int, arena.Len()),
		ends:   make([]bool, arena.Len()),
		forces: make([]bool, arena.Len()),
		parent: make([]GroupID, arena.Len()),
		seen:   make([]bool, arena.Len()),
		act:    activations{},
	}
	r.measure()

	r.parent[root] = -1
	r.render(root, 0)

	if opts.RootSplits {
		if err := r.checkRootSplits(); err != nil {
			return "", err
		}
	}

	if !r.started {
		return "", nil
	}
	r.trim()
	r.out = append(r.out, '\n')
	return string(r.out), nil
}

type renderer struct {
	arena *Arena
	opts  Options

	flat []int
	// head is the width of a group's first line when it splits, and ends
	// reports whether that line ends inside the group.
	head   []int
	ends   []bool
	forces []bool
	parent []GroupID
	seen   []bool
	act    activations

	out     []byte
	started bool
	col     int
	pending int
	indent  int
}

func (r *renderer) measure() {
	for i, g := range r.arena.groups {
		width := 0
		forces := g.Required
		for _, seg := range g.Segments {
			switch seg.Kind {
			case Lit, FlatOnly:
				if strings.Contains(seg.Text, "\n") {
					forces = true
				}
				width += VisibleWidth(seg.Text)
			case SplitOnly:
				if strings.Contains(seg.Text, "\n") {
					forces = true
				}
			case Child:
				width += r.flat[seg.Group]
				if r.forces[seg.Group] {
					forces = true
				}
			}
		}
		if t := r.opts.SplitBraceThreshold; t > 0 && g.BraceChildren >= t {
			forces = true
		}
		r.flat[i] = width
		r.forces[i] = forces
		r.head[i], r.ends[i] = r.firstLine(g)
	}
}

// firstLine measures a split group up to its first line break.
func (r *renderer) firstLine(g *Group) (int, bool) {
	width := 0
	for _, seg := range g.Segments {
		switch seg.Kind {
		case Lit, SplitOnly:
			if i := strings.IndexByte(seg.Text, '\n'); i >= 0 {
				return width + VisibleWidth(seg.Text[:i]), true
			}
			width += VisibleWidth(seg.Text)
		case Break:
			return width, true
		case Child:
			if !r.forces[seg.Group] {
				width += r.flat[seg.Group]
				continue
			}
			width += r.head[seg.Group]
			if r.ends[seg.Group] {
				return width, true
			}
		}
	}
	return width, false
}

// after measures what g writes after its i-th segment up to the next line
// break, adding outer when the line runs past the end of g.
func (r *renderer) after(g *Group, i int, split bool, outer int) int {
	width := 0
	for _, seg := range g.Segments[i+1:] {
		switch seg.Kind {
		case Lit, FlatOnly, SplitOnly:
			if (seg.Kind == FlatOnly && split) || (seg.Kind == SplitOnly && !split) {
				continue
			}
			if j := strings.IndexByte(seg.Text, '\n'); j >= 0 {
				return width + VisibleWidth(seg.Text[:j])
			}
			width += VisibleWidth(seg.Text)
		case Break:
			if split {
				return width
			}
		case Child:
			if !r.forces[seg.Group] {
				width += r.flat[seg.Group]
				continue
			}
			width += r.head[seg.Group]
			if r.ends[seg.Group] {
				return width
			}
		}
	}
	return width + outer
}

func (r *renderer) column() int {
	if r.pending > 0 {
		return r.indent
	}
	return r.col
}

// render writes a group. trailing is the width its parent writes after it on
// the same line.
func (r *renderer) render(id GroupID, trailing int) {
	g := r.arena.groups[id]
	r.seen[id] = true

	split := r.forces[id] || r.column()+r.flat[id]+trailing > r.opts.MaxWidth
	g.Split = split

	for i, seg := range g.Segments {
		switch seg.Kind {
		case Lit:
			r.write(seg.Text)
		case FlatOnly:
			if !split {
				r.write(seg.Text)
			}
		case SplitOnly:
			if split {
				r.write(seg.Text)
			}
		case Break:
			if split {
				r.newline(seg)
			}
		case Child:
			r.parent[seg.Group] = id
			r.render(seg.Group, r.after(g, i, split, trailing))
		}
	}
}

func (r *renderer) newline(seg Segment) {
	if seg.Activate {
		r.act.activate(seg.Align)
	}
	n := 1
	if seg.Blank {
		n = 2
	}
	r.pending = max(r.pending, n)
	r.indent = r.act.column(seg.Align, r.opts.IndentWidth)
}

// write appends text, first starting the line a pending break asked for.
// Spaces never end a line and never start one.
func (r *renderer) write(text string) {
	if text == "" {
		return
	}
	if r.pending > 0 {
		if strings.TrimLeft(text, " ") == "" {
			return
		}
		if r.started {
			r.trim()
			r.out = append(r.out, strings.Repeat("\n", r.pending)...)
		}
		r.out = append(r.out, strings.Repeat(" ", r.indent)...)
		r.col = r.indent
		r.pending = 0
	}
	r.out = append(r.out, text...)
	r.started = true
	if strings.Contains(text, "\n") {
		r.col = lastLineWidth(text)
	} else {
		r.col += VisibleWidth(text)
	}
}

func (r *renderer) trim() {
	for len(r.out) > 0 && r.out[len(r.out)-1] == ' ' {
		r.out = r.out[:len(r.out)-1]
	}
}

func (r *renderer) checkRootSplits() error {
	for i, g := range r.arena.groups {
		if !r.seen[i] || !g.Split {
			continue
		}
		for p := r.parent[i]; p >= 0; p = r.parent[p] {
			if !r.arena.groups[p].Split {
				return fmt.Errorf("render: group %d split inside flat ancestor %d", i, p)
			}
		}
	}
	return nil
}
