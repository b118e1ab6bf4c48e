package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindred-labs/grimoire/internal/infra"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeSkill(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	if _, ok := files[MarkerFile]; !ok {
		files[MarkerFile] = "# " + name
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(root, name, rel), content)
	}
}

func TestDiscover(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()

	writeSkill(t, dir, "golang-pro", map[string]string{})
	writeSkill(t, dir, "code-review", map[string]string{"reference.md": "details"})
	// A directory without SKILL.md is not a skill.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-skill"), 0o755))
	// A loose file at the top level is ignored.
	writeFile(t, filepath.Join(dir, "README.md"), "readme")

	found, err := Discover(fs, dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "code-review", found[0].Name)
	assert.Equal(t, "golang-pro", found[1].Name)
	assert.Equal(t, filepath.Join(dir, "golang-pro"), found[1].Path)
}

func TestDiscoverMissingDir(t *testing.T) {
	fs := infra.NewOSFileSystem()
	_, err := Discover(fs, filepath.Join(t.TempDir(), "absent"))
	var notFound *infra.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCopier(t *testing.T) {
	fs := infra.NewOSFileSystem()
	source := t.TempDir()
	target := t.TempDir()

	writeSkill(t, source, "golang-pro", map[string]string{
		"reference.md":              "reference",
		"examples/basic.md":         "basic example",
		"examples/advanced/deep.md": "deep example",
	})

	skills, err := Discover(fs, source)
	require.NoError(t, err)
	require.Len(t, skills, 1)

	copier := NewCopier(fs)

	copied, err := copier.Copy(skills[0], target, false)
	require.NoError(t, err)
	assert.True(t, copied)

	for rel, want := range map[string]string{
		"SKILL.md":                  "# golang-pro",
		"reference.md":              "reference",
		"examples/basic.md":         "basic example",
		"examples/advanced/deep.md": "deep example",
	} {
		data, err := os.ReadFile(filepath.Join(target, "golang-pro", filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(data), rel)
	}

	// Second copy without force is a skip.
	copied, err = copier.Copy(skills[0], target, false)
	require.NoError(t, err)
	assert.False(t, copied)

	// A local edit survives the skip and is overwritten on force.
	edited := filepath.Join(target, "golang-pro", "reference.md")
	require.NoError(t, os.WriteFile(edited, []byte("edited"), 0o644))

	copied, err = copier.Copy(skills[0], target, false)
	require.NoError(t, err)
	assert.False(t, copied)
	data, _ := os.ReadFile(edited)
	assert.Equal(t, "edited", string(data))

	copied, err = copier.Copy(skills[0], target, true)
	require.NoError(t, err)
	assert.True(t, copied)
	data, _ = os.ReadFile(edited)
	assert.Equal(t, "reference", string(data))
}

func TestDifferClassifiesSkills(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	source := t.TempDir()
	target := t.TempDir()

	// unchanged, updated, brand new, and an installed-only skill.
	writeSkill(t, source, "same", map[string]string{"a.md": "same content"})
	writeSkill(t, source, "changed", map[string]string{"a.md": "new content", "b.md": "added"})
	writeSkill(t, source, "fresh", map[string]string{"a.md": "hello"})

	writeSkill(t, target, "same", map[string]string{"a.md": "same content"})
	writeSkill(t, target, "changed", map[string]string{"a.md": "old content", "extra.md": "local only"})
	writeSkill(t, target, "orphan", map[string]string{})

	differ := NewDiffer(fs, sum)
	diff, err := differ.Diff(source, target)
	require.NoError(t, err)

	require.Len(t, diff.Skills, 4)
	byName := map[string]SkillDiff{}
	for _, s := range diff.Skills {
		byName[s.Name] = s
	}

	assert.Equal(t, StatusUnchanged, byName["same"].Status)
	assert.Equal(t, StatusUpdated, byName["changed"].Status)
	assert.Equal(t, StatusNew, byName["fresh"].Status)
	assert.Equal(t, StatusRemoved, byName["orphan"].Status)
	assert.Empty(t, byName["orphan"].Files)

	changed := byName["changed"]
	assert.Equal(t, 1, changed.Count(FileModified)) // a.md
	assert.Equal(t, 1, changed.Count(FileNew))      // b.md
	assert.Equal(t, 1, changed.Count(FileRemoved))  // extra.md

	assert.True(t, diff.HasChanges())
	assert.Equal(t, 1, diff.Count(StatusNew))
	assert.Equal(t, 1, diff.Count(StatusUpdated))
	assert.Equal(t, 1, diff.Count(StatusUnchanged))
	assert.Equal(t, 1, diff.Count(StatusRemoved))
}

func TestFilesToUpdate(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	source := t.TempDir()
	target := t.TempDir()

	writeSkill(t, source, "skill", map[string]string{
		"changed.md":   "v2",
		"same.md":      "stable",
		"brand-new.md": "new",
	})
	writeSkill(t, target, "skill", map[string]string{
		"changed.md": "v1",
		"same.md":    "stable",
		"local.md":   "keep me",
	})
	writeSkill(t, target, "orphan", map[string]string{})

	differ := NewDiffer(fs, sum)
	diff, err := differ.Diff(source, target)
	require.NoError(t, err)

	// Default: only the changed and new files, never removed ones.
	files := diff.FilesToUpdate(false)
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.ElementsMatch(t, []string{"brand-new.md", "changed.md"}, rels)

	// Force rewrites unchanged files too, but still not removed ones and
	// nothing from removed skills.
	forced := diff.FilesToUpdate(true)
	rels = rels[:0]
	for _, f := range forced {
		rels = append(rels, f.RelPath)
	}
	assert.ElementsMatch(t, []string{"SKILL.md", "brand-new.md", "changed.md", "same.md"}, rels)
}

func TestDifferSecondRunIsNoop(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	source := t.TempDir()
	target := t.TempDir()

	writeSkill(t, source, "skill", map[string]string{"a.md": "v2", "b.md": "new"})
	writeSkill(t, target, "skill", map[string]string{"a.md": "v1"})

	differ := NewDiffer(fs, sum)
	diff, err := differ.Diff(source, target)
	require.NoError(t, err)
	require.True(t, diff.HasChanges())

	// Apply the update the way the CLI does.
	for _, f := range diff.FilesToUpdate(false) {
		require.NoError(t, fs.CreateDirAll(filepath.Dir(f.TargetPath)))
		require.NoError(t, fs.Copy(f.SourcePath, f.TargetPath))
	}

	diff, err = differ.Diff(source, target)
	require.NoError(t, err)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.FilesToUpdate(false))
}

func TestDifferMissingTarget(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	source := t.TempDir()

	writeSkill(t, source, "skill", map[string]string{"a.md": "content"})

	differ := NewDiffer(fs, sum)
	diff, err := differ.Diff(source, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	require.Len(t, diff.Skills, 1)
	assert.Equal(t, StatusNew, diff.Skills[0].Status)
	assert.Equal(t, 2, len(diff.Skills[0].Files)) // SKILL.md + a.md
}
