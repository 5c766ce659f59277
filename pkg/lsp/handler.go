// Package lsp is a language server that formats Rust documents on request.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/vito/rsfmt/pkg/rsfmt"
	"github.com/vito/rsfmt/pkg/syntax"
)

// Handler serves the language server methods. Documents are kept in full
// and re-parsed on every change so parse errors can be reported.
type Handler struct {
	cfg rsfmt.Config

	mu       sync.Mutex
	files    map[DocumentURI]*File
	rootPath string
}

// File is an open document.
type File struct {
	LanguageID string
	Text       string
	Version    int
}

// NewHandler returns a handler that formats with cfg unless a document has
// an rsfmt.toml of its own.
func NewHandler(cfg rsfmt.Config) *Handler {
	return &Handler{
		cfg:   cfg,
		files: map[DocumentURI]*File{},
	}
}

// Methods returns the method table to serve.
func (h *Handler) Methods() handler.Map {
	return handler.Map{
		"initialize":              h.handleInitialize,
		"initialized":             h.handleInitialized,
		"shutdown":                h.handleShutdown,
		"exit":                    h.handleExit,
		"textDocument/didOpen":    h.handleTextDocumentDidOpen,
		"textDocument/didChange":  h.handleTextDocumentDidChange,
		"textDocument/didClose":   h.handleTextDocumentDidClose,
		"textDocument/didSave":    h.handleIgnored,
		"textDocument/formatting": h.handleTextDocumentFormatting,
	}
}

func (h *Handler) handleIgnored(ctx context.Context, req *jrpc2.Request) (any, error) {
	return nil, nil
}

func isWindowsDrivePath(path string) bool {
	if len(path) < 4 {
		return false
	}
	return unicode.IsLetter(rune(path[0])) && path[1] == ':'
}

func isWindowsDriveURI(uri string) bool {
	if len(uri) < 4 {
		return false
	}
	return uri[0] == '/' && unicode.IsLetter(rune(uri[1])) && uri[2] == ':'
}

func fromURI(uri DocumentURI) (string, error) {
	u, err := url.ParseRequestURI(string(uri))
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("only file URIs are supported, got %v", u.Scheme)
	}
	if isWindowsDriveURI(u.Path) {
		u.Path = u.Path[1:]
	}
	return u.Path, nil
}

func toURI(path string) DocumentURI {
	if isWindowsDrivePath(path) {
		path = "/" + path
	}
	return DocumentURI((&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}).String())
}

func (h *Handler) file(uri DocumentURI) (File, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[uri]
	if !ok {
		return File{}, false
	}
	return *f, true
}

func (h *Handler) openFile(uri DocumentURI, languageID string, version int, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[uri] = &File{
		LanguageID: languageID,
		Text:       text,
		Version:    version,
	}
}

func (h *Handler) updateFile(uri DocumentURI, text string, version int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[uri]
	if !ok {
		return fmt.Errorf("document not found: %v", uri)
	}
	f.Text = text
	f.Version = version
	return nil
}

func (h *Handler) closeFile(uri DocumentURI) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.files, uri)
}

// config returns the configuration for a document: the nearest rsfmt.toml
// to it on disk, or the handler's own.
func (h *Handler) config(ctx context.Context, uri DocumentURI) rsfmt.Config {
	path, err := fromURI(uri)
	if err != nil {
		return h.cfg
	}
	found, cfg, err := rsfmt.FindConfig(filepath.Dir(path))
	if err != nil {
		slog.WarnContext(ctx, "ignoring config", "path", found, "error", err)
		return h.cfg
	}
	if found == "" {
		return h.cfg
	}
	return cfg
}

// publishDiagnostics reports whether the document parses.
func (h *Handler) publishDiagnostics(ctx context.Context, uri DocumentURI) {
	f, ok := h.file(uri)
	if !ok {
		return
	}
	srv := jrpc2.ServerFromContext(ctx)
	if srv == nil {
		return
	}

	diagnostics := []Diagnostic{}
	if _, err := syntax.Parse(ctx, []byte(f.Text)); err != nil {
		diagnostics = append(diagnostics, errorToDiagnostic(f.Text, err))
	}

	err := srv.Notify(ctx, "textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     f.Version,
		Diagnostics: diagnostics,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish diagnostics", "error", err)
	}
}

func errorToDiagnostic(text string, err error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Source:   "rsfmt",
		Message:  err.Error(),
	}
	var perr *syntax.ParseError
	if errors.As(err, &perr) {
		d.Message = perr.Message
		start := position(text, perr.Location.Byte)
		end := position(text, perr.Location.Byte+max(perr.Length, 1))
		d.Range = Range{Start: start, End: end}
	}
	return d
}

// position converts a byte offset in text to an LSP position.
func position(text string, offset int) Position {
	var p Position
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			p.Line++
			p.Character = 0
			continue
		}
		p.Character += utf16.RuneLen(r)
	}
	return p
}
