package rsfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/vito/rsfmt/pkg/syntax"
)

// CommentLostError reports comments that could not be placed in the output.
type CommentLostError struct {
	// Lost maps the start of the last node formatted before each loss to
	// the comments lost there.
	Lost map[syntax.Point][]syntax.Comment
}

func (e *CommentLostError) Error() string {
	points := make([]syntax.Point, 0, len(e.Lost))
	count := 0
	for p, cs := range e.Lost {
		points = append(points, p)
		count += len(cs)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })

	var b strings.Builder
	fmt.Fprintf(&b, "%d comment(s) could not be placed", count)
	for _, p := range points {
		for _, c := range e.Lost[p] {
			fmt.Fprintf(&b, "\n  near %d:%d: %s", p.Row+1, p.Column+1, firstLine(c.Text))
		}
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "..."
	}
	return s
}

// VerificationError reports formatted output that no longer parses or
// parses to a different tree. It always indicates a formatter bug.
type VerificationError struct {
	// Output is the rejected formatted text.
	Output string
	// Location is where the output failed to parse, if it did.
	Location *syntax.Point

	cause error
}

func newVerificationError(output string, loc *syntax.Point, format string, args ...any) error {
	return &VerificationError{
		Output:   output,
		Location: loc,
		cause:    errors.Errorf(format, args...),
	}
}

func (e *VerificationError) Error() string {
	return "formatted output failed verification: " + e.cause.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter so that %+v includes the stack trace
// of where verification failed.
func (e *VerificationError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), e.cause)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Excerpt renders the output around the failure location, if known.
func (e *VerificationError) Excerpt(filename string) string {
	if e.Location == nil {
		return e.Error()
	}
	return syntax.Excerpt(e.Output, filename, e.Error(), *e.Location, 1, 5)
}
