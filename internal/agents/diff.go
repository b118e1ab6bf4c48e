package agents

import (
	"path/filepath"
	"sort"

	"github.com/kindred-labs/grimoire/internal/compiler"
	"github.com/kindred-labs/grimoire/internal/infra"
)

// Status classifies one agent relative to its installed artifact.
type Status int

const (
	StatusNew Status = iota
	StatusModified
	StatusUnchanged
	StatusRemoved
)

// Diff describes one agent. Change detection hashes the compiled
// artifact's canonical serialization against the installed config+prompt
// bytes, so both spec edits and compiler format changes surface as
// Modified.
type Diff struct {
	Name     string
	Status   Status
	Artifact *compiler.Artifact // nil for removed agents
}

// Invalid records a spec that failed parsing or validation and was kept
// away from the compiler.
type Invalid struct {
	Name string
	Err  error
}

// UpdateDiff is the full source-vs-installed agent comparison.
type UpdateDiff struct {
	Agents  []Diff
	Invalid []Invalid
}

// Count returns how many agents carry the given status.
func (d *UpdateDiff) Count(status Status) int {
	n := 0
	for _, a := range d.Agents {
		if a.Status == status {
			n++
		}
	}
	return n
}

// HasChanges reports whether any agent needs installing or reporting.
func (d *UpdateDiff) HasChanges() bool {
	for _, a := range d.Agents {
		if a.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// ToInstall returns the artifacts an update must write. force widens the
// set to unchanged agents, rewriting a hand-edited install back to the
// compiled output.
func (d *UpdateDiff) ToInstall(force bool) []*compiler.Artifact {
	var artifacts []*compiler.Artifact
	for _, a := range d.Agents {
		if a.Artifact == nil {
			continue
		}
		if force || a.Status == StatusNew || a.Status == StatusModified {
			artifacts = append(artifacts, a.Artifact)
		}
	}
	return artifacts
}

// Differ compiles source specs and compares artifact hashes against the
// installed tree.
type Differ struct {
	fs   infra.FileSystem
	sum  infra.Checksum
	comp compiler.Compiler
}

// NewDiffer returns a Differ lowering for the given compiler.
func NewDiffer(fs infra.FileSystem, sum infra.Checksum, comp compiler.Compiler) *Differ {
	return &Differ{fs: fs, sum: sum, comp: comp}
}

// Diff classifies every source agent as new/modified/unchanged and every
// installed agent missing from source as removed. Specs that fail to
// parse or validate land in Invalid and are skipped.
func (d *Differ) Diff(sourceDir, targetDir string, knownSkills map[string]bool) (*UpdateDiff, error) {
	source, err := Discover(d.fs, sourceDir)
	if err != nil {
		return nil, err
	}

	diff := &UpdateDiff{}
	sourceNames := make(map[string]bool, len(source))

	for _, agent := range source {
		sourceNames[agent.Name] = true

		spec, err := Load(d.fs, agent.Path, knownSkills)
		if err != nil {
			diff.Invalid = append(diff.Invalid, Invalid{Name: agent.Name, Err: err})
			continue
		}

		artifact, err := d.comp.Compile(spec)
		if err != nil {
			return nil, err
		}

		status := StatusNew
		if installed, ok := installedCanonical(d.fs, filepath.Join(targetDir, artifact.Name), artifact.ConfigFile); ok {
			if d.sum.SumBytes(installed) == d.sum.SumBytes(artifact.Canonical()) {
				status = StatusUnchanged
			} else {
				status = StatusModified
			}
		}

		diff.Agents = append(diff.Agents, Diff{Name: agent.Name, Status: status, Artifact: artifact})
	}

	// Installed agents with no source spec are reported, never deleted.
	if d.fs.Exists(targetDir) {
		installed, err := d.fs.ListDir(targetDir)
		if err != nil {
			return nil, err
		}
		for _, entry := range installed {
			name := filepath.Base(entry)
			if !d.fs.IsDir(entry) || sourceNames[name] {
				continue
			}
			if d.fs.Exists(filepath.Join(entry, compiler.PromptFile)) {
				diff.Agents = append(diff.Agents, Diff{Name: name, Status: StatusRemoved})
			}
		}
	}

	sort.Slice(diff.Agents, func(i, j int) bool { return diff.Agents[i].Name < diff.Agents[j].Name })
	return diff, nil
}
