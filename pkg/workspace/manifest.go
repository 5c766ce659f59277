// Package workspace finds and formats the Rust sources of files, packages
// and Cargo workspaces.
package workspace

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ManifestName is the name of a Cargo package manifest.
const ManifestName = "Cargo.toml"

// Manifest is the part of a Cargo manifest that says where sources live.
type Manifest struct {
	Lib       *Target    `toml:"lib"`
	Bin       []Target   `toml:"bin"`
	Bench     []Target   `toml:"bench"`
	Test      []Target   `toml:"test"`
	Example   []Target   `toml:"example"`
	Workspace *Workspace `toml:"workspace"`
}

// Target is a build target with an optional explicit source path.
type Target struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type Workspace struct {
	Members []string `toml:"members"`
}

// LoadManifest reads a Cargo manifest.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	return &m, nil
}

// FindManifest searches dir and its parents for a Cargo manifest that
// loads, returning its path.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(path); err == nil {
			if _, err := LoadManifest(path); err == nil {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("no Cargo.toml found")
		}
		dir = parent
	}
}

// defaultDirs are the conventional source directories of a package.
var defaultDirs = []string{"src", "bin", "benches", "tests", "examples"}

// SourceDirs returns the directories holding the sources of the package
// rooted at root: the parents of explicit target paths, the conventional
// directories that exist, and the same for every workspace member.
func SourceDirs(root string, m *Manifest) ([]string, error) {
	dirs := map[string]bool{}
	if err := collectDirs(root, m, dirs); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func collectDirs(root string, m *Manifest, dirs map[string]bool) error {
	targets := append([]Target{}, m.Bin...)
	if m.Lib != nil {
		targets = append(targets, *m.Lib)
	}
	targets = append(targets, m.Bench...)
	targets = append(targets, m.Test...)
	targets = append(targets, m.Example...)
	for _, t := range targets {
		if t.Path != "" {
			dirs[filepath.Dir(filepath.Join(root, t.Path))] = true
		}
	}

	if m.Workspace != nil {
		for _, member := range m.Workspace.Members {
			matches, err := filepath.Glob(filepath.Join(root, member))
			if err != nil {
				return errors.Wrapf(err, "workspace member %q", member)
			}
			for _, dir := range matches {
				path := filepath.Join(dir, ManifestName)
				if _, err := os.Stat(path); err != nil {
					continue
				}
				sub, err := LoadManifest(path)
				if err != nil {
					return err
				}
				if err := collectDirs(dir, sub, dirs); err != nil {
					return err
				}
			}
		}
	}

	for _, name := range defaultDirs {
		dir := filepath.Join(root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs[dir] = true
		}
	}
	return nil
}

// SourceFiles walks dirs for .rs files. A file reachable from more than one
// directory is listed once.
func SourceFiles(dirs []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".rs" || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", dir)
		}
	}
	sort.Strings(files)
	return files, nil
}
