package lsp

import (
	"context"
	"log/slog"

	"github.com/creachadair/jrpc2"
	"github.com/vito/rsfmt/pkg/rsfmt"
)

func (h *Handler) handleTextDocumentFormatting(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DocumentFormattingParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	f, ok := h.file(params.TextDocument.URI)
	if !ok {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "document not found: %v", params.TextDocument.URI)
	}

	res, err := rsfmt.Format(ctx, []byte(f.Text), h.config(ctx, params.TextDocument.URI))
	if err != nil {
		// Parse errors are already reported as diagnostics.
		slog.WarnContext(ctx, "formatting failed", "uri", params.TextDocument.URI, "error", err)
		return []TextEdit{}, nil
	}
	if len(res.Lost) > 0 {
		slog.WarnContext(ctx, "comments lost", "uri", params.TextDocument.URI, "error", &rsfmt.CommentLostError{Lost: res.Lost})
		return []TextEdit{}, nil
	}

	if res.Text == f.Text {
		return []TextEdit{}, nil
	}

	// Replace the whole document.
	return []TextEdit{
		{
			Range: Range{
				Start: Position{},
				End:   position(f.Text, len(f.Text)),
			},
			NewText: res.Text,
		},
	}, nil
}
