package compiler

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/kindred-labs/grimoire/internal/agentspec"
)

// ClaudeConfigFile is the config filename for Claude Code agents.
const ClaudeConfigFile = "agent.toml"

// claudeConfig is the agent.toml shape. Balanced model tier omits the
// model field entirely, deferring to the platform default; read-write
// omits disallowedTools rather than emitting an allow-list.
type claudeConfig struct {
	Name            string   `toml:"name"`
	Description     string   `toml:"description"`
	DisallowedTools []string `toml:"disallowedTools,omitempty"`
	Model           string   `toml:"model,omitempty"`
	Skills          []string `toml:"skills,omitempty"`
}

type claudeCompiler struct{}

func (c *claudeCompiler) Platform() Platform { return ClaudeCode }

func (c *claudeCompiler) Compile(spec *agentspec.Spec) (*Artifact, error) {
	cfg := claudeConfig{
		Name:        spec.Name,
		Description: spec.Description,
		Skills:      spec.Skills,
	}

	if spec.Capabilities == agentspec.ReadOnly {
		cfg.DisallowedTools = []string{"Write", "Edit"}
	}

	switch spec.ModelTier {
	case agentspec.Fast:
		cfg.Model = "haiku"
	case agentspec.Capable:
		cfg.Model = "opus"
	case agentspec.Balanced:
		// omitted: the platform picks its own default
	}

	config, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize agent %s", spec.Name)
	}

	return &Artifact{
		Name:       spec.Name,
		ConfigFile: ClaudeConfigFile,
		Config:     config,
		Prompt:     promptBytes(spec),
	}, nil
}

// promptBytes returns the prompt body verbatim with a single trailing
// newline.
func promptBytes(spec *agentspec.Spec) []byte {
	return append([]byte(spec.Prompt), '\n')
}
