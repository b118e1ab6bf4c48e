package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindred-labs/grimoire/internal/infra"
)

func sum(seed byte) string {
	return strings.Repeat(string([]byte{'a' + seed%6}), 64)
}

func TestParse(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("valid manifest", func(t *testing.T) {
		path := write("ok.json", `{
  "version": "2024-01-01",
  "files": [
    {"path": "skills/go/SKILL.md", "checksum": "`+sum(0)+`"}
  ]
}`)
		m, err := Load(fs, path)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", m.Version)
		require.Len(t, m.Files, 1)
		assert.Equal(t, "skills/go/SKILL.md", m.Files[0].Path)
	})

	t.Run("missing version", func(t *testing.T) {
		path := write("nover.json", `{"files": []}`)
		_, err := Load(fs, path)
		var parseErr *infra.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Error(), "missing version")
	})

	t.Run("empty path entry", func(t *testing.T) {
		path := write("nopath.json", `{"version": "1", "files": [{"path": "", "checksum": "`+sum(0)+`"}]}`)
		_, err := Load(fs, path)
		var parseErr *infra.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("short checksum", func(t *testing.T) {
		path := write("badsum.json", `{"version": "1", "files": [{"path": "a.md", "checksum": "abc123"}]}`)
		_, err := Load(fs, path)
		var parseErr *infra.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("duplicate path", func(t *testing.T) {
		path := write("dup.json", `{"version": "1", "files": [
			{"path": "a.md", "checksum": "`+sum(0)+`"},
			{"path": "a.md", "checksum": "`+sum(1)+`"}
		]}`)
		_, err := Load(fs, path)
		var parseErr *infra.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Error(), "duplicate path")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := write("broken.json", `{"version": `)
		_, err := Load(fs, path)
		var parseErr *infra.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(fs, filepath.Join(dir, "absent.json"))
		var notFound *infra.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	m := &Manifest{
		Version: "v3",
		Files: []FileEntry{
			{Path: "skills/zeta/SKILL.md", Checksum: sum(2)},
			{Path: "agents/alpha/AGENT.md", Checksum: sum(1)},
		},
	}
	require.NoError(t, m.Save(fs, path))

	loaded, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, m.Version, loaded.Version)

	// Saved entries are sorted by path regardless of input order.
	require.Len(t, loaded.Files, 2)
	assert.Equal(t, "agents/alpha/AGENT.md", loaded.Files[0].Path)
	assert.Equal(t, "skills/zeta/SKILL.md", loaded.Files[1].Path)

	// The in-memory manifest keeps its original order.
	assert.Equal(t, "skills/zeta/SKILL.md", m.Files[0].Path)

	// Save is byte-stable: saving the loaded manifest reproduces the file.
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Save(fs, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// No temp file left behind.
	assert.NoFileExists(t, path+".tmp")
}

func TestCompute(t *testing.T) {
	local := &Manifest{
		Version: "v1",
		Files: []FileEntry{
			{Path: "same.md", Checksum: sum(0)},
			{Path: "changed.md", Checksum: sum(1)},
			{Path: "gone.md", Checksum: sum(2)},
		},
	}
	remote := &Manifest{
		Version: "v2",
		Files: []FileEntry{
			{Path: "same.md", Checksum: sum(0)},
			{Path: "changed.md", Checksum: sum(3)},
			{Path: "added.md", Checksum: sum(4)},
		},
	}

	diff := Compute(local, remote)

	require.Len(t, diff.New, 1)
	assert.Equal(t, "added.md", diff.New[0].Path)
	require.Len(t, diff.Modified, 1)
	assert.Equal(t, "changed.md", diff.Modified[0].Path)
	require.Len(t, diff.Unchanged, 1)
	assert.Equal(t, "same.md", diff.Unchanged[0].Path)
	assert.Equal(t, []string{"gone.md"}, diff.Removed)

	assert.True(t, diff.HasChanges())

	// Every remote path lands in exactly one partition.
	total := len(diff.New) + len(diff.Modified) + len(diff.Unchanged)
	assert.Equal(t, len(remote.Files), total)

	// Download order is new entries first, then modified.
	toDownload := diff.ToDownload()
	require.Len(t, toDownload, 2)
	assert.Equal(t, "added.md", toDownload[0].Path)
	assert.Equal(t, "changed.md", toDownload[1].Path)
}

func TestComputeSelfDiff(t *testing.T) {
	m := &Manifest{
		Version: "v1",
		Files: []FileEntry{
			{Path: "a.md", Checksum: sum(0)},
			{Path: "b.md", Checksum: sum(1)},
		},
	}

	diff := Compute(m, m)
	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Modified)
	assert.Empty(t, diff.Removed)
	assert.Len(t, diff.Unchanged, 2)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.ToDownload())
}

func TestComputeEmptyLocal(t *testing.T) {
	local := &Manifest{Version: "v0"}
	remote := &Manifest{
		Version: "v1",
		Files: []FileEntry{
			{Path: "b.md", Checksum: sum(1)},
			{Path: "a.md", Checksum: sum(0)},
		},
	}

	diff := Compute(local, remote)
	require.Len(t, diff.New, 2)
	// Sorted by path.
	assert.Equal(t, "a.md", diff.New[0].Path)
	assert.Equal(t, "b.md", diff.New[1].Path)
	assert.Empty(t, diff.Removed)
}
