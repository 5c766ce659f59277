package workspace

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/vito/rsfmt/pkg/ioctx"
	"github.com/vito/rsfmt/pkg/rsfmt"
	"github.com/vito/rsfmt/pkg/syntax"
	"golang.org/x/sync/errgroup"
)

// skipMarkers opt a file out of formatting when they appear in its first
// lines.
var skipMarkers = [][]byte{[]byte("`nogenemichaels`"), []byte("`norsfmt`")}

const skipLines = 5

// Skip reports whether src opts out of formatting.
func Skip(src []byte) bool {
	for i, line := range bytes.SplitN(src, []byte("\n"), skipLines+1) {
		if i == skipLines {
			break
		}
		for _, m := range skipMarkers {
			if bytes.Contains(line, m) {
				return true
			}
		}
	}
	return false
}

// Runner formats files with one configuration.
type Runner struct {
	Config rsfmt.Config
	// Threads limits how many files are formatted at once. Zero or less
	// means no limit.
	Threads int
}

// ErrFailed is returned when at least one file could not be formatted. The
// individual failures have already been reported.
var ErrFailed = stderrors.New("formatting failed")

// Process formats src. Lost comments are an error here, since the output
// would silently drop them.
func (r *Runner) Process(ctx context.Context, src []byte) (string, error) {
	res, err := rsfmt.Format(ctx, src, r.Config)
	if err != nil {
		return "", err
	}
	if len(res.Lost) > 0 {
		return "", &rsfmt.CommentLostError{Lost: res.Lost}
	}
	return res.Text, nil
}

// FormatStdin formats r and writes the result to the context's stdout. A
// source that opts out is copied through unchanged.
func (r *Runner) FormatStdin(ctx context.Context, in io.Reader) error {
	st := newStatus(ctx)
	start := time.Now()

	src, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}
	out := string(src)
	if !Skip(src) {
		out, err = r.Process(ctx, src)
		if err != nil {
			st.failed("stdin", err)
			return ErrFailed
		}
	}
	if _, err := io.WriteString(ioctx.StdoutFromContext(ctx), out); err != nil {
		return errors.Wrap(err, "writing stdout")
	}
	st.finished("formatted stdin in %.2fs", time.Since(start).Seconds())
	return nil
}

// FormatFiles formats each file in place, one after another.
func (r *Runner) FormatFiles(ctx context.Context, paths []string) error {
	st := newStatus(ctx)
	start := time.Now()

	failed := false
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		st.formatting(path)
		if _, err := r.formatFile(ctx, st, path); err != nil {
			st.failed(path, err)
			failed = true
		}
	}
	st.finished("formatted %d file(s) in %.2fs", len(paths), time.Since(start).Seconds())
	if failed {
		return ErrFailed
	}
	return nil
}

// FormatPackage formats every source file of the Cargo package or
// workspace enclosing dir, in parallel.
func (r *Runner) FormatPackage(ctx context.Context, dir string) error {
	st := newStatus(ctx)
	start := time.Now()
	st.formatting("workspace...")

	manifestPath, err := FindManifest(dir)
	if err != nil {
		return err
	}
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	dirs, err := SourceDirs(filepath.Dir(manifestPath), manifest)
	if err != nil {
		return err
	}
	files, err := SourceFiles(dirs)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "found sources", "manifest", manifestPath, "dirs", len(dirs), "files", len(files))

	var failures atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	if r.Threads > 0 {
		g.SetLimit(r.Threads)
	}
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			skipped, err := r.formatFile(ctx, st, path)
			if err != nil {
				st.failed(path, err)
				failures.Add(1)
				return nil
			}
			if !skipped {
				st.formatted(path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrFailed, n, len(files))
	}
	st.finished("workspace formatting successfully in %.2fs", time.Since(start).Seconds())
	return nil
}

// formatFile formats path in place. It reports whether the file opted out.
func (r *Runner) formatFile(ctx context.Context, st *status, path string) (bool, error) {
	start := time.Now()
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if Skip(src) {
		st.skipping(path)
		return true, nil
	}
	out, err := r.Process(ctx, src)
	if err != nil {
		return false, err
	}
	if out != string(src) {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return false, errors.Wrapf(err, "writing %s", path)
		}
	}
	slog.DebugContext(ctx, "formatted file", "path", path, "took", time.Since(start))
	return false, nil
}

// describe renders err for a person, with a source excerpt when the error
// has a location.
func describe(name string, err error) string {
	var perr *syntax.ParseError
	if stderrors.As(err, &perr) {
		return perr.FormatWithHighlighting(name)
	}
	var verr *rsfmt.VerificationError
	if stderrors.As(err, &verr) {
		return verr.Excerpt(name)
	}
	return err.Error()
}
