package rsfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("max_width = 80\nsplit_where = false\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.MaxWidth = 80
	want.SplitWhere = false
	require.Equal(t, want, cfg)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"width":     "max_width = 0\n",
		"threshold": "split_brace_threshold = -1\n",
		"syntax":    "max_width = \n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "crate", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("comment_width = 60\n"), 0o644))

	path, cfg, err := FindConfig(nested)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, ConfigFileName), path)
	require.Equal(t, 60, cfg.CommentWidth)
}

func TestFindConfigStopsAtRepositoryRoot(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("max_width = 10\n"), 0o644))

	path, cfg, err := FindConfig(repo)
	require.NoError(t, err)
	require.Empty(t, path)
	require.Equal(t, DefaultConfig(), cfg)
}
