package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/vito/rsfmt/pkg/rsfmt"
)

func parse(t *testing.T, args ...string) (*pflag.FlagSet, rsfmt.Config) {
	t.Helper()
	cfg := rsfmt.DefaultConfig()
	fs := pflag.NewFlagSet("rsfmt", pflag.ContinueOnError)
	configFlags(fs, &cfg)
	require.NoError(t, fs.Parse(args))
	return fs, cfg
}

func TestOffableFlags(t *testing.T) {
	_, cfg := parse(t, "--split-brace-threshold", "off", "--comment-length", "80")
	require.Equal(t, 0, cfg.SplitBraceThreshold)
	require.Equal(t, 80, cfg.CommentWidth)

	_, cfg = parse(t, "--split-attributes=off", "--split-where", "off", "--comment-errors-fatal", "on")
	require.False(t, cfg.SplitAttributes)
	require.False(t, cfg.SplitWhere)
	require.True(t, cfg.CommentErrorsFatal)
}

func TestOffableFlagsRejectGarbage(t *testing.T) {
	for _, args := range [][]string{
		{"--split-brace-threshold", "-1"},
		{"--comment-length", "wide"},
		{"--split-where=yes"},
	} {
		cfg := rsfmt.DefaultConfig()
		fs := pflag.NewFlagSet("rsfmt", pflag.ContinueOnError)
		configFlags(fs, &cfg)
		require.Error(t, fs.Parse(args), args)
	}
}

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	fs, set := parse(t, "-l", "80", "--root-splits")

	fromFile := rsfmt.DefaultConfig()
	fromFile.SplitWhere = false
	fromFile.MaxWidth = 100
	applyFlags(fs, set, &fromFile)

	require.Equal(t, 80, fromFile.MaxWidth)
	require.True(t, fromFile.RootSplits)
	require.False(t, fromFile.SplitWhere)
}

func TestFlagDefaultsShowConfigDefaults(t *testing.T) {
	fs, _ := parse(t)
	require.Equal(t, "1", fs.Lookup("split-brace-threshold").DefValue)
	require.Equal(t, "off", fs.Lookup("comment-length").DefValue)
	require.Equal(t, "on", fs.Lookup("split-where").DefValue)
	require.Equal(t, "off", fs.Lookup("comment-errors-fatal").DefValue)
}
