package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

func TestParseFunction(t *testing.T) {
	f := parse(t, "fn f(a: i32) {}\n")
	require.Equal(t, "source_file", f.Root.Kind)
	require.Len(t, f.Root.Children, 1)

	fn := f.Root.Children[0]
	assert.Equal(t, "function_item", fn.Kind)
	assert.True(t, fn.Children[0].Token("fn"))

	name := fn.FieldChild("name")
	require.NotNil(t, name)
	assert.Equal(t, "f", name.Text)
	assert.True(t, name.Named)

	params := fn.Child("parameters")
	require.NotNil(t, params)
	assert.Equal(t, "(", params.FirstLeaf().Text)
	assert.Equal(t, ")", params.LastLeaf().Text)
	assert.Equal(t, "(a: i32)", params.Source(f.Source))
	assert.Equal(t, 4, params.Span.Start.Column)
}

func TestParseKeepsLiteralsAtomic(t *testing.T) {
	f := parse(t, "const S: &str = \"a \\n b\";\n")
	var lit *Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == "string_literal" {
			lit = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.Root)
	require.NotNil(t, lit)
	assert.True(t, lit.Leaf())
	assert.Equal(t, `"a \n b"`, lit.Text)
}

func TestParseCollectsComments(t *testing.T) {
	src := "/// doc\nfn f() {\n    g(); // trailing\n    /* block\n    more */\n}\n//// not doc\n"
	f := parse(t, src)
	require.Len(t, f.Comments, 4)

	doc := f.Comments[0]
	assert.Equal(t, "/// doc", doc.Text)
	assert.True(t, doc.Doc)
	assert.Equal(t, 0, doc.Span.Start.Row)

	trailing := f.Comments[1]
	assert.Equal(t, "// trailing", trailing.Text)
	assert.False(t, trailing.Doc)

	block := f.Comments[2]
	assert.True(t, block.Block)
	assert.Equal(t, 3, block.Span.Start.Row)
	assert.Equal(t, 4, block.Span.End.Row)

	assert.False(t, f.Comments[3].Doc)

	for i := 1; i < len(f.Comments); i++ {
		assert.True(t, f.Comments[i-1].Span.Start.Less(f.Comments[i].Span.Start))
	}
}

func TestParseCommentsAreNotChildren(t *testing.T) {
	f := parse(t, "fn f(/* a */ x: u8) {}\n")
	params := f.Root.Children[0].Child("parameters")
	require.NotNil(t, params)
	for _, c := range params.Children {
		assert.NotEqual(t, "block_comment", c.Kind)
	}
	require.Len(t, f.Comments, 1)
}

func TestParseError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("fn f( {\n"))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.LessOrEqual(t, perr.Location.Row, 1)
	assert.Contains(t, perr.FormatWithHighlighting("lib.rs"), "lib.rs:")
}

func TestShapeIgnoresLayoutAndCommas(t *testing.T) {
	a := parse(t, "fn f(a: i32, b: i32) {}\n")
	b := parse(t, "fn f(\n    a: i32,\n    b: i32,\n) {}\n")
	assert.Equal(t, Shape(a.Root), Shape(b.Root))
	assert.Empty(t, Diff(Shape(a.Root), Shape(b.Root)))
}

func TestShapeIgnoresComments(t *testing.T) {
	a := parse(t, "fn f() {}\n")
	b := parse(t, "// hello\nfn f() {} // there\n")
	assert.Empty(t, Diff(Shape(a.Root), Shape(b.Root)))
}

func TestShapeDetectsChanges(t *testing.T) {
	a := parse(t, "fn f(a: i32) {}\n")
	b := parse(t, "fn f(a: i64) {}\n")
	assert.NotEmpty(t, Diff(Shape(a.Root), Shape(b.Root)))
}

func TestExcerpt(t *testing.T) {
	out := Excerpt("a\nb\nc\n", "x.rs", "boom", Point{Row: 1, Column: 0}, 1, 1)
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "x.rs:2:1")
	assert.Contains(t, out, "  2 | ")
	assert.Equal(t, "boom", Excerpt("a", "", "boom", Point{Row: 9}, 1, 1))
}
