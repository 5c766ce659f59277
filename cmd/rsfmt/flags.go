package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/vito/rsfmt/pkg/rsfmt"
)

// offInt is a positive number flag that can be turned off, which stores 0.
type offInt struct{ v *int }

func (o offInt) String() string {
	if o.v == nil || *o.v == 0 {
		return "off"
	}
	return strconv.Itoa(*o.v)
}

func (o offInt) Set(s string) error {
	if s == "off" {
		*o.v = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("[%s] not allowed, must be a positive number or off", s)
	}
	*o.v = n
	return nil
}

func (offInt) Type() string { return "int|off" }

// onOff is a boolean flag spelled on or off.
type onOff struct{ v *bool }

func (o onOff) String() string {
	if o.v != nil && *o.v {
		return "on"
	}
	return "off"
}

func (o onOff) Set(s string) error {
	switch s {
	case "on":
		*o.v = true
	case "off":
		*o.v = false
	default:
		return fmt.Errorf("[%s] not allowed, must be on or off", s)
	}
	return nil
}

func (onOff) Type() string { return "on|off" }

// configFlags registers the formatting flags on fs, storing their values
// in cfg.
func configFlags(fs *pflag.FlagSet, cfg *rsfmt.Config) {
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Won't emit any output")
	fs.IntVarP(&cfg.MaxWidth, "line-length", "l", cfg.MaxWidth, "Preferred maximum line width")
	fs.BoolVar(&cfg.RootSplits, "root-splits", cfg.RootSplits, "For any node that's split, all parent nodes must also be split")
	fs.Var(offInt{&cfg.SplitBraceThreshold}, "split-brace-threshold", "Always split {} groups with >= this number of children; disable with `off`")
	fs.Var(offInt{&cfg.CommentWidth}, "comment-length", "Max comment length relative to the start of the comment; disable with `off`")

	switches := map[string]struct {
		v    *bool
		help string
	}{
		"split-attributes":     {&cfg.SplitAttributes, "Always split #[] attributes; disable with `off`"},
		"split-where":          {&cfg.SplitWhere, "Always split where clauses; disable with `off`"},
		"comment-errors-fatal": {&cfg.CommentErrorsFatal, "Problems formatting comments are fatal; disable with `off`"},
	}
	for name, s := range switches {
		fs.Var(onOff{s.v}, name, s.help)
	}
}

// applyFlags copies the flags set on the command line from set into cfg,
// leaving everything else as loaded from the config file.
func applyFlags(fs *pflag.FlagSet, set rsfmt.Config, cfg *rsfmt.Config) {
	apply := map[string]func(){
		"quiet":                 func() { cfg.Quiet = set.Quiet },
		"line-length":           func() { cfg.MaxWidth = set.MaxWidth },
		"root-splits":           func() { cfg.RootSplits = set.RootSplits },
		"split-brace-threshold": func() { cfg.SplitBraceThreshold = set.SplitBraceThreshold },
		"comment-length":        func() { cfg.CommentWidth = set.CommentWidth },
		"split-attributes":      func() { cfg.SplitAttributes = set.SplitAttributes },
		"split-where":           func() { cfg.SplitWhere = set.SplitWhere },
		"comment-errors-fatal":  func() { cfg.CommentErrorsFatal = set.CommentErrorsFatal },
	}
	fs.Visit(func(f *pflag.Flag) {
		if fn, ok := apply[f.Name]; ok {
			fn()
		}
	})
}
