// Package compiler lowers platform-agnostic agent specs into artifacts
// for a concrete tool: a structured config file plus a verbatim prompt
// file, written under a directory named after the agent.
package compiler

import (
	"github.com/kindred-labs/grimoire/internal/agentspec"
	"github.com/kindred-labs/grimoire/internal/infra"
)

// Platform is the compilation target, selected by tag.
type Platform int

const (
	ClaudeCode Platform = iota
	OpenCode
)

func (p Platform) String() string {
	switch p {
	case ClaudeCode:
		return "claude-code"
	case OpenCode:
		return "opencode"
	default:
		return "unknown"
	}
}

// ParsePlatform maps a tag to a Platform. An unrecognized tag is a fatal
// configuration error, never a silent default.
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "claude-code":
		return ClaudeCode, nil
	case "opencode":
		return OpenCode, nil
	default:
		return 0, &infra.UnknownPlatformError{Name: s}
	}
}

// PromptFile is the prompt filename next to each config file.
const PromptFile = "prompt.md"

// Artifact is a compiled agent: one structured config file and the prompt
// body, both installed under <target>/<Name>/.
type Artifact struct {
	Name       string
	ConfigFile string // agent.toml or agent.json
	Config     []byte
	Prompt     []byte
}

// Canonical returns the serialization hashed for change detection: config
// bytes followed by prompt bytes. Note this conflates "spec changed" with
// "compiler output format changed"; a format change flags every agent as
// modified once, which a single update pass then settles.
func (a *Artifact) Canonical() []byte {
	out := make([]byte, 0, len(a.Config)+len(a.Prompt))
	out = append(out, a.Config...)
	out = append(out, a.Prompt...)
	return out
}

// Compiler lowers validated specs for one platform. Implementations are
// flat per-platform mappings selected by New; the variance is a handful
// of field tables, not divergent algorithms.
type Compiler interface {
	Platform() Platform
	Compile(spec *agentspec.Spec) (*Artifact, error)
}

// New returns the compiler for the given platform.
func New(platform Platform) (Compiler, error) {
	switch platform {
	case ClaudeCode:
		return &claudeCompiler{}, nil
	case OpenCode:
		return &openCodeCompiler{}, nil
	default:
		return nil, &infra.UnknownPlatformError{Name: platform.String()}
	}
}
