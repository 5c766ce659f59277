package workspace

import (
	"context"
	"fmt"
	"io"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/vito/rsfmt/pkg/ioctx"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// status writes labelled progress lines. It is safe for concurrent use.
type status struct {
	mu sync.Mutex
	w  io.Writer
}

func newStatus(ctx context.Context) *status {
	return &status{w: ioctx.StderrFromContext(ctx)}
}

func (s *status) print(style lipgloss.Style, label, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", style.Render(fmt.Sprintf("%12s", label)), fmt.Sprintf(format, args...))
}

func (s *status) formatting(what string) { s.print(okStyle, "Formatting", "%s", what) }
func (s *status) formatted(path string)  { s.print(okStyle, "Formatted", "%s", path) }
func (s *status) skipping(path string)   { s.print(skipStyle, "Skipping", "%s", path) }
func (s *status) finished(format string, args ...any) {
	s.print(okStyle, "Finished", format, args...)
}

func (s *status) failed(what string, err error) {
	s.print(errorStyle, "Error", "formatting %s: %s", what, describe(what, err))
}
