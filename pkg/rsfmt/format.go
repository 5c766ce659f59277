// Package rsfmt formats Rust source code.
//
// Formatting parses the input, lays every node out into a tree of split
// groups, renders that tree within the configured width, and then parses the
// output again to check that nothing but layout changed.
package rsfmt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
)

// Result is the outcome of formatting a file.
type Result struct {
	// Text is the formatted source.
	Text string
	// Lost holds comments that could not be placed, keyed by the start of
	// the last node formatted before them. It is empty on success.
	Lost map[syntax.Point][]syntax.Comment
}

// Format formats a Rust source file.
//
// Input that does not parse is reported as a *syntax.ParseError. Output that
// fails to re-parse to the same tree is reported as a *VerificationError.
// Unplaced comments are returned in Result.Lost, or as a *CommentLostError
// when cfg.CommentErrorsFatal is set.
func Format(ctx context.Context, src []byte, cfg Config) (*Result, error) {
	file, err := syntax.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	st := NewState(cfg, file)
	root := st.Make(node{file.Root}, layout.Root())
	st.abandon()
	lost := st.Lost()
	if len(lost) > 0 {
		slog.DebugContext(ctx, "comments lost", "sites", len(lost))
		if cfg.CommentErrorsFatal {
			return nil, &CommentLostError{Lost: lost}
		}
	}

	text, err := layout.Render(st.Arena(), root, layout.Options{
		MaxWidth:            cfg.MaxWidth,
		SplitBraceThreshold: cfg.SplitBraceThreshold,
		RootSplits:          cfg.RootSplits,
	})
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "rendered", "groups", st.Arena().Len(), "bytes", len(text))

	if err := verify(ctx, file, text); err != nil {
		return nil, err
	}
	return &Result{Text: text, Lost: lost}, nil
}

// verify checks that text parses to the same tree as the original file.
func verify(ctx context.Context, file *syntax.File, text string) error {
	out, err := syntax.Parse(ctx, []byte(text))
	if err != nil {
		var perr *syntax.ParseError
		if errors.As(err, &perr) {
			loc := perr.Location
			return newVerificationError(text, &loc, "output does not parse: %s", perr.Message)
		}
		return err
	}
	if diff := syntax.Diff(syntax.Shape(file.Root), syntax.Shape(out.Root)); diff != "" {
		return newVerificationError(text, nil, "output parses differently: %s", diff)
	}
	return nil
}
