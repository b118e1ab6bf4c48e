package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindred-labs/grimoire/internal/agentspec"
	"github.com/kindred-labs/grimoire/internal/compiler"
	"github.com/kindred-labs/grimoire/internal/infra"
)

func writeAgent(t *testing.T, root, name, frontmatter, prompt string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\n" + frontmatter + "---\n" + prompt
	require.NoError(t, os.WriteFile(filepath.Join(dir, agentspec.SpecFile), []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()

	writeAgent(t, dir, "reviewer", "name: reviewer\ndescription: reviews\n", "Review.")
	writeAgent(t, dir, "author", "name: author\ndescription: writes\n", "Write.")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty-dir"), 0o755))

	found, err := Discover(fs, dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "author", found[0].Name)
	assert.Equal(t, "reviewer", found[1].Name)
}

func TestLoad(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()
	skills := map[string]bool{"golang-pro": true}

	t.Run("valid spec", func(t *testing.T) {
		writeAgent(t, dir, "reviewer",
			"name: reviewer\ndescription: reviews code\nskills:\n  - golang-pro\n",
			"Review carefully.")

		spec, err := Load(fs, filepath.Join(dir, "reviewer"), skills)
		require.NoError(t, err)
		assert.Equal(t, "reviewer", spec.Name)
		assert.Equal(t, "Review carefully.", spec.Prompt)
	})

	t.Run("validation failure", func(t *testing.T) {
		writeAgent(t, dir, "broken", "name: mismatch\ndescription: bad\n", "p")

		_, err := Load(fs, filepath.Join(dir, "broken"), skills)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match directory")
	})

	t.Run("unknown skill", func(t *testing.T) {
		writeAgent(t, dir, "hopeful",
			"name: hopeful\ndescription: d\nskills:\n  - does-not-exist\n", "p")

		_, err := Load(fs, filepath.Join(dir, "hopeful"), skills)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"does-not-exist" does not exist`)
	})
}

func TestKnownSkills(t *testing.T) {
	fs := infra.NewOSFileSystem()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golang-pro"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golang-pro", "SKILL.md"), []byte("# skill"), 0o644))

	known := KnownSkills(fs, dir)
	assert.True(t, known["golang-pro"])
	assert.False(t, known["other"])

	// Missing source dir is an empty set, not an error.
	assert.Empty(t, KnownSkills(fs, filepath.Join(dir, "absent")))
}

func TestInstall(t *testing.T) {
	fs := infra.NewOSFileSystem()
	target := t.TempDir()

	artifact := &compiler.Artifact{
		Name:       "reviewer",
		ConfigFile: compiler.ClaudeConfigFile,
		Config:     []byte("name = 'reviewer'\n"),
		Prompt:     []byte("Review.\n"),
	}
	require.NoError(t, Install(fs, artifact, target))

	config, err := os.ReadFile(filepath.Join(target, "reviewer", compiler.ClaudeConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "name = 'reviewer'\n", string(config))

	prompt, err := os.ReadFile(filepath.Join(target, "reviewer", compiler.PromptFile))
	require.NoError(t, err)
	assert.Equal(t, "Review.\n", string(prompt))
}

func TestDifferClassifiesAgents(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	comp, err := compiler.New(compiler.ClaudeCode)
	require.NoError(t, err)

	source := t.TempDir()
	target := t.TempDir()
	skills := map[string]bool{}

	writeAgent(t, source, "fresh", "name: fresh\ndescription: new agent\n", "Hello.")
	writeAgent(t, source, "same", "name: same\ndescription: stable\n", "Stable.")
	writeAgent(t, source, "edited", "name: edited\ndescription: changed upstream\n", "New prompt.")
	writeAgent(t, source, "invalid", "name: wrong-name\ndescription: d\n", "p")

	differ := NewDiffer(fs, sum, comp)

	// Install "same" and "edited" as currently compiled, then change the
	// "edited" spec so its artifact hash drifts.
	initial, err := differ.Diff(source, target, skills)
	require.NoError(t, err)
	for _, a := range initial.ToInstall(false) {
		require.NoError(t, Install(fs, a, target))
	}
	writeAgent(t, source, "edited", "name: edited\ndescription: changed upstream\nmodel-tier: capable\n", "New prompt.")

	// Remove "fresh" from the installed tree and add an orphan.
	require.NoError(t, os.RemoveAll(filepath.Join(target, "fresh")))
	require.NoError(t, os.MkdirAll(filepath.Join(target, "orphan"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "orphan", compiler.PromptFile), []byte("old\n"), 0o644))

	diff, err := differ.Diff(source, target, skills)
	require.NoError(t, err)

	byName := map[string]Diff{}
	for _, a := range diff.Agents {
		byName[a.Name] = a
	}

	assert.Equal(t, StatusNew, byName["fresh"].Status)
	assert.Equal(t, StatusUnchanged, byName["same"].Status)
	assert.Equal(t, StatusModified, byName["edited"].Status)
	assert.Equal(t, StatusRemoved, byName["orphan"].Status)
	assert.Nil(t, byName["orphan"].Artifact)

	require.Len(t, diff.Invalid, 1)
	assert.Equal(t, "invalid", diff.Invalid[0].Name)

	// Only new and modified agents get reinstalled by default.
	names := []string{}
	for _, a := range diff.ToInstall(false) {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"fresh", "edited"}, names)

	// force adds the unchanged agent, never the removed one.
	names = names[:0]
	for _, a := range diff.ToInstall(true) {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"fresh", "same", "edited"}, names)

	assert.True(t, diff.HasChanges())
}

func TestDifferSecondRunIsNoop(t *testing.T) {
	fs := infra.NewOSFileSystem()
	sum := infra.NewSHA256()
	comp, err := compiler.New(compiler.OpenCode)
	require.NoError(t, err)

	source := t.TempDir()
	target := t.TempDir()
	skills := map[string]bool{}

	writeAgent(t, source, "reviewer", "name: reviewer\ndescription: reviews\n", "Review.")

	differ := NewDiffer(fs, sum, comp)
	diff, err := differ.Diff(source, target, skills)
	require.NoError(t, err)
	require.True(t, diff.HasChanges())

	for _, a := range diff.ToInstall(false) {
		require.NoError(t, Install(fs, a, target))
	}

	diff, err = differ.Diff(source, target, skills)
	require.NoError(t, err)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.ToInstall(false))
	assert.Equal(t, 1, diff.Count(StatusUnchanged))
}
