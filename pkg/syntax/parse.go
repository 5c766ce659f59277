package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// atomic node kinds are kept as single leaves holding their source text.
var atomic = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"integer_literal":    true,
	"float_literal":      true,
	"shebang":            true,
}

// Parse parses src as a Rust source file. Input that does not parse cleanly
// is reported as a *ParseError.
func Parse(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(root, src)
	}

	c := &converter{src: src}
	return &File{
		Source:   src,
		Root:     c.convert(root, ""),
		Comments: c.comments,
	}, nil
}

type converter struct {
	src      []byte
	comments []Comment
}

func point(p sitter.Point, b uint32) Point {
	return Point{Row: int(p.Row), Column: int(p.Column), Byte: int(b)}
}

func (c *converter) convert(n *sitter.Node, field string) *Node {
	node := &Node{
		Kind:  n.Type(),
		Field: field,
		Named: n.IsNamed(),
		Span: Span{
			Start: point(n.StartPoint(), n.StartByte()),
			End:   point(n.EndPoint(), n.EndByte()),
		},
	}

	count := int(n.ChildCount())
	if count == 0 || atomic[node.Kind] {
		node.Text = n.Content(c.src)
		return node
	}

	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if isComment(child.Type()) {
			c.comment(child)
			continue
		}
		node.Children = append(node.Children, c.convert(child, n.FieldNameForChild(i)))
	}
	if len(node.Children) == 0 {
		node.Text = n.Content(c.src)
	}
	return node
}

func isComment(kind string) bool {
	return kind == "line_comment" || kind == "block_comment"
}

func (c *converter) comment(n *sitter.Node) {
	text := strings.TrimRight(n.Content(c.src), "\r\n")
	start := point(n.StartPoint(), n.StartByte())
	end := start
	end.Byte += len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		end.Row += strings.Count(text, "\n")
		end.Column = len(text) - i - 1
	} else {
		end.Column += len(text)
	}

	block := strings.HasPrefix(text, "/*")
	c.comments = append(c.comments, Comment{
		Span:  Span{Start: start, End: end},
		Text:  text,
		Block: block,
		Doc:   isDocComment(text, block),
	})
}

func isDocComment(text string, block bool) bool {
	if block {
		if strings.HasPrefix(text, "/*!") {
			return true
		}
		return strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/"
	}
	if strings.HasPrefix(text, "//!") {
		return true
	}
	return strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////")
}
