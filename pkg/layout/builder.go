package layout

import "fmt"

// SegmentKind identifies what a Segment contributes to the output.
type SegmentKind int

const (
	// Lit is text emitted in both flat and split rendering.
	Lit SegmentKind = iota
	// FlatOnly is text emitted only when the enclosing group renders flat.
	FlatOnly
	// SplitOnly is text emitted only when the enclosing group renders split.
	SplitOnly
	// Break is a point where a split group starts a new line.
	Break
	// Child embeds another group.
	Child
)

func (k SegmentKind) String() string {
	switch k {
	case Lit:
		return "lit"
	case FlatOnly:
		return "flat"
	case SplitOnly:
		return "split"
	case Break:
		return "break"
	case Child:
		return "child"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

// Segment is one element of a group.
type Segment struct {
	Kind SegmentKind
	Text string

	// Break fields.
	Align    Alignment
	Activate bool
	Required bool
	Blank    bool

	// Child field.
	Group GroupID
}

// GroupID is a handle to a finalized group in an Arena.
type GroupID int

// Group is an ordered sequence of segments plus its layout metadata.
type Group struct {
	Segments []Segment

	// Required is set when the group holds a required break.
	Required bool

	// BraceChildren is the number of children of a brace-delimited group, or
	// -1 when the group is not brace delimited.
	BraceChildren int

	// Split reports whether the group rendered split. It is only meaningful
	// after Render.
	Split bool
}

// Arena owns every group of a layout. Groups only refer to each other by
// GroupID, and a child is always finalized before its parent, so a child's
// handle is lower than its parent's.
type Arena struct {
	groups []*Group
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Len returns the number of finalized groups.
func (a *Arena) Len() int {
	return len(a.groups)
}

// Group returns the group behind id.
func (a *Arena) Group(id GroupID) *Group {
	return a.groups[id]
}

// Build creates a group, populates it with fn, and finalizes it. Groups
// built inside fn are finalized first, so they can be passed to Child.
func (a *Arena) Build(fn func(*Builder)) GroupID {
	b := &Builder{
		arena: a,
		group: &Group{BraceChildren: -1},
	}
	fn(b)
	b.done = true
	a.groups = append(a.groups, b.group)
	return GroupID(len(a.groups) - 1)
}

// Builder populates a single group. Every method appends; none can fail.
// Using a Builder after its Build callback has returned panics.
type Builder struct {
	arena *Arena
	group *Group
	done  bool
}

func (b *Builder) add(seg Segment) {
	if b.done {
		panic("layout: builder used after finalization")
	}
	b.group.Segments = append(b.group.Segments, seg)
}

// Seg appends text that is always emitted.
func (b *Builder) Seg(text string) {
	b.add(Segment{Kind: Lit, Text: text})
}

// SegFlat appends text that is only emitted when the group renders flat.
func (b *Builder) SegFlat(text string) {
	b.add(Segment{Kind: FlatOnly, Text: text})
}

// SegSplit appends text that is only emitted when the group renders split.
func (b *Builder) SegSplit(text string) {
	b.add(Segment{Kind: SplitOnly, Text: text})
}

// Split appends an optional break to align. When activate is set, the break
// activates align the first time it is taken.
func (b *Builder) Split(align Alignment, activate bool) {
	b.add(Segment{Kind: Break, Align: align, Activate: activate})
}

// SplitAlways appends a required break, which forces the group to split.
func (b *Builder) SplitAlways(align Alignment, activate bool) {
	b.add(Segment{Kind: Break, Align: align, Activate: activate, Required: true})
	b.group.Required = true
}

// Blank appends a required break that also leaves one empty line.
func (b *Builder) Blank(align Alignment) {
	b.add(Segment{Kind: Break, Align: align, Activate: true, Required: true, Blank: true})
	b.group.Required = true
}

// Child embeds a finalized group.
func (b *Builder) Child(id GroupID) {
	if int(id) < 0 || int(id) >= len(b.arena.groups) {
		panic(fmt.Sprintf("layout: child %d is not a finalized group", id))
	}
	b.add(Segment{Kind: Child, Group: id})
}

// Brace marks the group as brace delimited with the given number of
// children, making it eligible for the always-split threshold.
func (b *Builder) Brace(children int) {
	if b.done {
		panic("layout: builder used after finalization")
	}
	b.group.BraceChildren = children
}
