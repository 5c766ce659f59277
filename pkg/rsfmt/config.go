package rsfmt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project configuration file.
const ConfigFileName = "rsfmt.toml"

// Config controls formatting.
type Config struct {
	// MaxWidth is the preferred maximum line width.
	MaxWidth int `toml:"max_width"`

	// RootSplits requires every ancestor of a split node to split too.
	RootSplits bool `toml:"root_splits"`

	// SplitBraceThreshold always splits brace-delimited lists with at least
	// this many elements. Zero disables it.
	SplitBraceThreshold int `toml:"split_brace_threshold"`

	// SplitAttributes puts each attribute on its own line above the item it
	// applies to.
	SplitAttributes bool `toml:"split_attributes"`

	// SplitWhere always puts where clause predicates on their own lines.
	SplitWhere bool `toml:"split_where"`

	// CommentWidth re-wraps plain line comments wider than this many
	// columns, measured from the start of the comment. Zero disables it.
	CommentWidth int `toml:"comment_width"`

	// CommentErrorsFatal fails formatting when a comment cannot be placed.
	CommentErrorsFatal bool `toml:"comment_errors_fatal"`

	// Quiet suppresses progress output. It does not affect formatting.
	Quiet bool `toml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxWidth:            120,
		SplitBraceThreshold: 1,
		SplitAttributes:     true,
		SplitWhere:          true,
	}
}

// LoadConfig reads a configuration file. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.MaxWidth <= 0 {
		return cfg, fmt.Errorf("parsing %s: max_width must be positive", path)
	}
	if cfg.SplitBraceThreshold < 0 || cfg.CommentWidth < 0 {
		return cfg, fmt.Errorf("parsing %s: thresholds must not be negative", path)
	}
	return cfg, nil
}

// FindConfig searches for rsfmt.toml starting from dir and walking up to
// parent directories, stopping at a repository root. It returns the path
// and the loaded config, or the default config and "" if none is found.
func FindConfig(dir string) (string, Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", DefaultConfig(), err
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadConfig(path)
			return path, cfg, err
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", DefaultConfig(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", DefaultConfig(), nil
		}
		dir = parent
	}
}
