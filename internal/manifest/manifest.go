// Package manifest models the versioned file list that describes the
// expected contents of an installed .grimoire tree, and computes checksum
// diffs between two manifests.
package manifest

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/kindred-labs/grimoire/internal/infra"
)

// FileEntry pairs a relative POSIX path with its lowercase-hex SHA-256.
type FileEntry struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// Manifest is the versioned file list. The version token is opaque:
// compared for equality only, never ordered.
type Manifest struct {
	Version string      `json:"version"`
	Files   []FileEntry `json:"files"`
}

// Load reads and parses a manifest from the local filesystem.
func Load(fs infra.FileSystem, path string) (*Manifest, error) {
	data, err := fs.Read(path)
	if err != nil {
		return nil, err
	}
	return parse(data, path)
}

// Fetch downloads and parses a manifest from a remote URL.
func Fetch(ctx context.Context, client infra.HttpClient, url string) (*Manifest, error) {
	data, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parse(data, url)
}

func parse(data []byte, source string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &infra.ParseError{Source: source, Message: err.Error()}
	}
	if m.Version == "" {
		return nil, &infra.ParseError{Source: source, Message: "missing version"}
	}
	seen := make(map[string]bool, len(m.Files))
	for _, f := range m.Files {
		if f.Path == "" {
			return nil, &infra.ParseError{Source: source, Message: "file entry missing path"}
		}
		if len(f.Checksum) != 64 {
			return nil, &infra.ParseError{Source: source, Message: "invalid checksum for " + f.Path}
		}
		if seen[f.Path] {
			return nil, &infra.ParseError{Source: source, Message: "duplicate path " + f.Path}
		}
		seen[f.Path] = true
	}
	return &m, nil
}

// Save writes the manifest as path-sorted, indented JSON via a temp file
// and rename, so a crash mid-write never leaves a torn snapshot. The sort
// makes saved manifests byte-stable across runs.
func (m *Manifest) Save(fs infra.FileSystem, path string) error {
	sorted := Manifest{
		Version: m.Version,
		Files:   append([]FileEntry(nil), m.Files...),
	}
	sort.Slice(sorted.Files, func(i, j int) bool {
		return sorted.Files[i].Path < sorted.Files[j].Path
	})

	data, err := json.MarshalIndent(&sorted, "", "  ")
	if err != nil {
		return &infra.ParseError{Source: path, Message: err.Error()}
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := fs.Write(tmp, data); err != nil {
		return err
	}
	return fs.Rename(tmp, path)
}

// checksums builds the path→checksum index used by Diff.
func (m *Manifest) checksums() map[string]string {
	index := make(map[string]string, len(m.Files))
	for _, f := range m.Files {
		index[f.Path] = f.Checksum
	}
	return index
}
