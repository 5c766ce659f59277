package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ParseError reports input that is not valid Rust.
type ParseError struct {
	Message  string
	Location Point
	Length   int
	Source   string
}

func newParseError(root *sitter.Node, src []byte) *ParseError {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	msg := "unexpected input"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %q", bad.Type())
	} else if bad.Type() != "ERROR" {
		msg = fmt.Sprintf("unexpected %s", bad.Type())
	}
	length := int(bad.EndByte() - bad.StartByte())
	if end := bad.EndPoint(); end.Row != bad.StartPoint().Row {
		length = 1
	}
	return &ParseError{
		Message:  msg,
		Location: point(bad.StartPoint(), bad.StartByte()),
		Length:   length,
		Source:   string(src),
	}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			if bad := firstError(c); bad != nil {
				return bad
			}
		}
	}
	return nil
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Location.Row+1, e.Location.Column+1, e.Message)
}

// FormatWithHighlighting renders the error with the offending source line
// underlined.
func (e *ParseError) FormatWithHighlighting(filename string) string {
	return Excerpt(e.Source, filename, e.Error(), e.Location, e.Length, 2)
}

// Excerpt renders msg followed by the lines of source around at, with the
// line holding at marked and length columns underlined. context is the
// number of lines shown on each side.
func Excerpt(source, filename, msg string, at Point, length, context int) string {
	lines := strings.Split(source, "\n")
	line := at.Row + 1
	if line < 1 || line > len(lines) {
		return msg
	}

	const (
		red   = "\033[31m"
		blue  = "\033[34m"
		bold  = "\033[1m"
		reset = "\033[0m"
		dim   = "\033[2m"
	)

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s%sError:%s %s\n", bold, red, reset, msg))
	if filename != "" {
		result.WriteString(fmt.Sprintf("  %s%s--> %s:%d:%d%s\n", dim, blue, filename, line, at.Column+1, reset))
	}
	result.WriteString(fmt.Sprintf(" %s%s |%s\n", dim, padLeft("", 3), reset))

	startLine := max(1, line-context)
	endLine := min(len(lines), line+context)

	for i := startLine; i <= endLine; i++ {
		paddedLineStr := padLeft(fmt.Sprintf("%d", i), 3)
		if i == line {
			result.WriteString(fmt.Sprintf(" %s%s%s%s | %s%s\n",
				dim, blue, bold, paddedLineStr, reset, lines[i-1]))

			padding := strings.Repeat(" ", 1+3+3+at.Column)
			underline := strings.Repeat("^", max(1, length))
			result.WriteString(fmt.Sprintf("%s%s%s%s%s\n",
				dim, padding, red, underline, reset))
		} else {
			result.WriteString(fmt.Sprintf(" %s%s | %s%s\n",
				dim, paddedLineStr, lines[i-1], reset))
		}
	}

	result.WriteString(fmt.Sprintf(" %s%s |%s\n", dim, padLeft("", 3), reset))

	return result.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
