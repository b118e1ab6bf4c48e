// Package skills manages skill directories: discovery of directory
// subtrees containing a SKILL.md, initial copying into a tool's install
// dir, and checksum-based incremental updates.
package skills

import (
	"path/filepath"
	"sort"

	"github.com/kindred-labs/grimoire/internal/infra"
)

// MarkerFile makes a directory a skill.
const MarkerFile = "SKILL.md"

// Info names a discovered skill and where it lives.
type Info struct {
	Name string
	Path string
}

// Discover returns the immediate subdirectories of dir that contain a
// SKILL.md, sorted by name. A skill is a whole subtree, not one file.
func Discover(fs infra.FileSystem, dir string) ([]Info, error) {
	if !fs.Exists(dir) {
		return nil, &infra.NotFoundError{Path: dir}
	}

	entries, err := fs.ListDir(dir)
	if err != nil {
		return nil, err
	}

	var found []Info
	for _, entry := range entries {
		if fs.IsDir(entry) && fs.Exists(filepath.Join(entry, MarkerFile)) {
			found = append(found, Info{
				Name: filepath.Base(entry),
				Path: entry,
			})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Copier copies whole skill subtrees into an install directory.
type Copier struct {
	fs infra.FileSystem
}

// NewCopier returns a Copier over the given filesystem.
func NewCopier(fs infra.FileSystem) *Copier {
	return &Copier{fs: fs}
}

// Copy installs one skill under targetDir. An already-installed skill is
// skipped unless force; returns whether anything was copied.
func (c *Copier) Copy(skill Info, targetDir string, force bool) (bool, error) {
	dest := filepath.Join(targetDir, skill.Name)
	if c.fs.Exists(dest) && !force {
		return false, nil
	}

	if err := c.fs.CreateDirAll(dest); err != nil {
		return false, err
	}
	if err := c.copyTree(skill.Path, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Copier) copyTree(src, dest string) error {
	entries, err := c.fs.ListDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		target := filepath.Join(dest, filepath.Base(entry))
		if c.fs.IsDir(entry) {
			if err := c.fs.CreateDirAll(target); err != nil {
				return err
			}
			if err := c.copyTree(entry, target); err != nil {
				return err
			}
			continue
		}
		if err := c.fs.Copy(entry, target); err != nil {
			return err
		}
	}
	return nil
}

// listFiles walks a skill subtree and returns relative paths sorted for
// deterministic diffs.
func listFiles(fs infra.FileSystem, root string) ([]string, error) {
	var files []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ListDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if fs.IsDir(entry) {
				if err := walk(entry); err != nil {
					return err
				}
				continue
			}
			rel, err := filepath.Rel(root, entry)
			if err != nil {
				return &infra.IOError{Op: "rel", Path: entry, Err: err}
			}
			files = append(files, rel)
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
