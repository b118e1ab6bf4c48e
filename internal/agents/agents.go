// Package agents discovers AGENT.md specs, lowers them through the
// platform compiler, and keeps installed artifacts in sync using the same
// checksum classification the content synchronizer uses.
package agents

import (
	"path/filepath"
	"sort"

	"github.com/kindred-labs/grimoire/internal/agentspec"
	"github.com/kindred-labs/grimoire/internal/compiler"
	"github.com/kindred-labs/grimoire/internal/infra"
	"github.com/kindred-labs/grimoire/internal/skills"
)

// Info names a discovered agent spec directory.
type Info struct {
	Name string
	Path string // directory containing AGENT.md
}

// Discover returns the subdirectories of dir containing an AGENT.md,
// sorted by name.
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
		if fs.IsDir(entry) && fs.Exists(filepath.Join(entry, agentspec.SpecFile)) {
			found = append(found, Info{
				Name: filepath.Base(entry),
				Path: entry,
			})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// Load reads, parses and validates one agent spec. Validation failures
// come back as a multierror of *infra.ValidationError; invalid specs must
// never reach the compiler.
func Load(fs infra.FileSystem, agentDir string, knownSkills map[string]bool) (*agentspec.Spec, error) {
	path := filepath.Join(agentDir, agentspec.SpecFile)
	content, err := fs.Read(path)
	if err != nil {
		return nil, err
	}

	spec, err := agentspec.Parse(content, path)
	if err != nil {
		return nil, err
	}
	if err := agentspec.Validate(spec, knownSkills); err != nil {
		return nil, err
	}
	return spec, nil
}

// KnownSkills builds the skill-id set agent specs may reference. A
// missing skills source yields an empty set, not an error; the
// validation message then names the unknown id.
func KnownSkills(fs infra.FileSystem, skillsSourceDir string) map[string]bool {
	known := make(map[string]bool)
	discovered, err := skills.Discover(fs, skillsSourceDir)
	if err != nil {
		return known
	}
	for _, s := range discovered {
		known[s.Name] = true
	}
	return known
}

// Install writes an artifact's config and prompt under targetDir/<name>/.
func Install(fs infra.FileSystem, artifact *compiler.Artifact, targetDir string) error {
	dir := filepath.Join(targetDir, artifact.Name)
	if err := fs.CreateDirAll(dir); err != nil {
		return err
	}
	if err := fs.Write(filepath.Join(dir, artifact.ConfigFile), artifact.Config); err != nil {
		return err
	}
	return fs.Write(filepath.Join(dir, compiler.PromptFile), artifact.Prompt)
}

// installedCanonical reads the installed config+prompt pair for hashing.
// ok is false when either file is missing, which classifies as new.
func installedCanonical(fs infra.FileSystem, agentDir, configFile string) ([]byte, bool) {
	config, err := fs.Read(filepath.Join(agentDir, configFile))
	if err != nil {
		return nil, false
	}
	prompt, err := fs.Read(filepath.Join(agentDir, compiler.PromptFile))
	if err != nil {
		return nil, false
	}
	return append(config, prompt...), true
}
