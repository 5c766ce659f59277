package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/spf13/cobra"
	"github.com/vito/rsfmt/pkg/ioctx"
	"github.com/vito/rsfmt/pkg/lsp"
	"github.com/vito/rsfmt/pkg/rsfmt"
	"github.com/vito/rsfmt/pkg/workspace"
)

// Options holds the flags that are not formatting configuration.
type Options struct {
	Debug      bool
	Package    bool
	Threads    int
	LSP        bool
	LSPLogFile string
}

func main() {
	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			// Per-file failures have been reported already.
			if errors.Is(err, workspace.ErrFailed) {
				return
			}
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts Options
	flagCfg := rsfmt.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "rsfmt [flags] [file...]",
		Short: "Format Rust source code",
		Long: `rsfmt formats Rust source files.

Files named on the command line are formatted in place. With no files,
stdin is formatted and written to stdout. With --package, every source
file of the enclosing Cargo package or workspace is formatted.

Settings are read from the nearest rsfmt.toml; flags override them.`,
		Example: `  # Format files in place
  rsfmt src/main.rs src/lib.rs

  # Format stdin
  rsfmt < src/main.rs

  # Format the whole workspace with narrow lines
  rsfmt --package --line-length 100`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(cmd, flagCfg)
			if err != nil {
				return err
			}
			setupLogging(ioctx.StderrFromContext(ctx), opts.Debug, cfg.Quiet)

			if opts.LSP {
				return runLSP(ctx, cfg, opts)
			}

			ctx = ioctx.QuietToContext(ctx, cfg.Quiet)
			r := &workspace.Runner{Config: cfg, Threads: opts.Threads}
			switch {
			case opts.Package:
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				return r.FormatPackage(ctx, wd)
			case len(args) == 0:
				return r.FormatStdin(ctx, cmd.InOrStdin())
			default:
				return r.FormatFiles(ctx, args)
			}
		},
	}

	configFlags(cmd.Flags(), &flagCfg)
	cmd.Flags().BoolVarP(&opts.Package, "package", "p", false, "Formats the entire package using the Cargo.toml")
	cmd.Flags().IntVar(&opts.Threads, "thread-count", 0, "Limits threads to specified count when using --package")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.LSP, "lsp", false, "Run in Language Server Protocol mode")
	cmd.Flags().StringVar(&opts.LSPLogFile, "lsp-log-file", "", "Path to LSP log file (stderr if not specified)")
	return cmd
}

// loadConfig reads the nearest rsfmt.toml and applies the flags given on
// the command line over it.
func loadConfig(cmd *cobra.Command, flagCfg rsfmt.Config) (rsfmt.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return rsfmt.Config{}, err
	}
	path, cfg, err := rsfmt.FindConfig(wd)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}
	applyFlags(cmd.Flags(), flagCfg, &cfg)
	if cfg.MaxWidth <= 0 {
		return cfg, fmt.Errorf("line length must be positive, got %d", cfg.MaxWidth)
	}
	return cfg, nil
}

func setupLogging(w io.Writer, debug, quiet bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	if quiet {
		w = io.Discard
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	slog.SetDefault(slog.New(logger))
}

func runLSP(ctx context.Context, cfg rsfmt.Config, opts Options) error {
	var logDest io.Writer = os.Stderr
	if opts.LSPLogFile != "" {
		logFile, err := os.Create(opts.LSPLogFile)
		if err != nil {
			return fmt.Errorf("open lsp log: %w", err)
		}
		defer logFile.Close() //nolint:errcheck
		logDest = logFile
	}
	setupLogging(logDest, opts.Debug, false)
	logger := slog.Default()

	logger.InfoContext(ctx, "starting LSP server")

	srv := jrpc2.NewServer(lsp.NewHandler(cfg).Methods(), &jrpc2.ServerOptions{
		AllowPush: true,
		Logger:    func(text string) { logger.Debug(text) },
	})
	srv.Start(channel.LSP(stdrwc{}, stdrwc{}))

	logger.InfoContext(ctx, "LSP server closed", "error", srv.Wait())
	return nil
}

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
