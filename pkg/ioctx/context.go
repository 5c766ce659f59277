// Package ioctx carries the process's output streams through a context, so
// that commands and the language server can be run against buffers in tests.
package ioctx

import (
	"context"
	"io"
)

type stdoutKey struct{}
type stderrKey struct{}
type quietKey struct{}

// StdoutFromContext returns the writer formatted output goes to, or
// io.Discard.
func StdoutFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok {
		return w
	}
	return io.Discard
}

func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

// StderrFromContext returns the writer progress and errors go to, or
// io.Discard. It is also io.Discard when the context is quiet.
func StderrFromContext(ctx context.Context) io.Writer {
	if QuietFromContext(ctx) {
		return io.Discard
	}
	if w, ok := ctx.Value(stderrKey{}).(io.Writer); ok {
		return w
	}
	return io.Discard
}

func StderrToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey{}, w)
}

// QuietFromContext reports whether progress output is suppressed.
func QuietFromContext(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}

func QuietToContext(ctx context.Context, quiet bool) context.Context {
	return context.WithValue(ctx, quietKey{}, quiet)
}
