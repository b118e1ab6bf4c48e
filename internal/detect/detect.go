// Package detect figures out which AI tool a project uses and maps out
// the source and install directories for skills and agents.
package detect

import (
	"path/filepath"

	"github.com/kindred-labs/grimoire/internal/infra"
)

// Tool identifies a supported AI coding tool.
type Tool int

const (
	Auto Tool = iota
	ClaudeCode
	OpenCode
)

func (t Tool) String() string {
	switch t {
	case ClaudeCode:
		return "claude-code"
	case OpenCode:
		return "opencode"
	default:
		return "auto"
	}
}

// ParseTool maps a --tool flag value to a Tool.
func ParseTool(s string) (Tool, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "claude-code":
		return ClaudeCode, nil
	case "opencode":
		return OpenCode, nil
	default:
		return Auto, &infra.UnknownPlatformError{Name: s}
	}
}

// Detector inspects a project directory for tool markers.
type Detector struct {
	fs         infra.FileSystem
	projectDir string
}

// New returns a Detector rooted at projectDir.
func New(fs infra.FileSystem, projectDir string) *Detector {
	return &Detector{fs: fs, projectDir: projectDir}
}

// Detect identifies the project's tool. OpenCode projects carry an
// .opencode.json; Claude Code projects a .claude directory or CLAUDE.md.
// Claude Code is the default when nothing matches.
func (d *Detector) Detect() Tool {
	if d.fs.Exists(filepath.Join(d.projectDir, ".opencode.json")) {
		return OpenCode
	}
	if d.fs.Exists(filepath.Join(d.projectDir, ".claude")) ||
		d.fs.Exists(filepath.Join(d.projectDir, "CLAUDE.md")) {
		return ClaudeCode
	}
	return ClaudeCode
}

// Resolve turns Auto into a detected tool and leaves explicit choices
// alone.
func (d *Detector) Resolve(t Tool) Tool {
	if t == Auto {
		return d.Detect()
	}
	return t
}

// SkillsDir is where skills get installed for a tool.
func (d *Detector) SkillsDir(t Tool) string {
	if d.Resolve(t) == OpenCode {
		return filepath.Join(d.projectDir, ".opencode", "skills")
	}
	return filepath.Join(d.projectDir, ".claude", "skills")
}

// AgentsDir is where compiled agents get installed for a tool.
// OpenCode uses the singular "agent".
func (d *Detector) AgentsDir(t Tool) string {
	if d.Resolve(t) == OpenCode {
		return filepath.Join(d.projectDir, ".opencode", "agent")
	}
	return filepath.Join(d.projectDir, ".claude", "agents")
}

// SkillsSourceDir is the synced source of truth for skills.
func (d *Detector) SkillsSourceDir() string {
	return filepath.Join(d.projectDir, ".grimoire", "skills")
}

// AgentsSourceDir is the synced source of truth for agent specs.
func (d *Detector) AgentsSourceDir() string {
	return filepath.Join(d.projectDir, ".grimoire", "agents")
}
