// Package syntax parses Rust source into a lossless concrete syntax tree.
//
// The tree keeps every token with its span. Comments are not part of the
// tree; they are collected separately, in source order, so a printer can
// place them back between tokens.
package syntax

import "strings"

// Point is a zero-based position in source.
type Point struct {
	Row    int
	Column int
	Byte   int
}

// Less reports whether p comes before q.
func (p Point) Less(q Point) bool {
	return p.Byte < q.Byte
}

// Span is a half-open byte range with its row and column bounds.
type Span struct {
	Start Point
	End   Point
}

// Node is a node of the syntax tree. Leaves carry their text; interior
// nodes carry children.
type Node struct {
	// Kind is the grammar rule for named nodes, or the literal token for
	// anonymous ones.
	Kind string
	// Field is the name the parent grammar rule gives this child, if any.
	Field    string
	Named    bool
	Span     Span
	Text     string
	Children []*Node
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Is reports whether n has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Token reports whether n is an anonymous leaf with the given text.
func (n *Node) Token(text string) bool {
	return n != nil && !n.Named && n.Leaf() && n.Text == text
}

// Child returns the first child with the given kind.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FieldChild returns the first child with the given field name.
func (n *Node) FieldChild(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// FirstLeaf returns the leftmost leaf under n.
func (n *Node) FirstLeaf() *Node {
	for !n.Leaf() {
		n = n.Children[0]
	}
	return n
}

// LastLeaf returns the rightmost leaf under n.
func (n *Node) LastLeaf() *Node {
	for !n.Leaf() {
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// Source returns the text n spans in src.
func (n *Node) Source(src []byte) string {
	return string(src[n.Span.Start.Byte:n.Span.End.Byte])
}

// String renders n as an s-expression, for debugging.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.Leaf() {
		if n.Named {
			b.WriteString("(" + n.Kind + " " + n.Text + ")")
		} else {
			b.WriteString(n.Text)
		}
		return
	}
	b.WriteString("(" + n.Kind)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Comment is a line or block comment.
type Comment struct {
	Span Span
	// Text is the comment with its delimiters and no trailing newline.
	Text  string
	Block bool
	// Doc is set for outer and inner doc comments.
	Doc bool
}

// File is a parsed source file.
type File struct {
	Source   []byte
	Root     *Node
	Comments []Comment
}
