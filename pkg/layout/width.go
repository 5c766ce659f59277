package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleWidth returns the terminal display width of a string, accounting for
// wide characters.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// lastLineWidth returns the width of the text after the final newline in s.
func lastLineWidth(s string) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return VisibleWidth(s[i+1:])
	}
	return VisibleWidth(s)
}
