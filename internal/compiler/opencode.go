package compiler

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/kindred-labs/grimoire/internal/agentspec"
)

// OpenCodeConfigFile is the config filename for OpenCode agents.
const OpenCodeConfigFile = "agent.json"

// openCodeModels maps every tier to a full model id. OpenCode has no
// implicit platform default, so balanced is spelled out too.
var openCodeModels = map[agentspec.ModelTier]string{
	agentspec.Fast:     "anthropic/claude-haiku-4-20250514",
	agentspec.Balanced: "anthropic/claude-sonnet-4-20250514",
	agentspec.Capable:  "anthropic/claude-opus-4-20250514",
}

// openCodeConfig is the agent.json shape.
type openCodeConfig struct {
	Description string          `json:"description"`
	Mode        string          `json:"mode"`
	Model       string          `json:"model"`
	Tools       map[string]bool `json:"tools,omitempty"`
}

type openCodeCompiler struct{}

func (c *openCodeCompiler) Platform() Platform { return OpenCode }

func (c *openCodeCompiler) Compile(spec *agentspec.Spec) (*Artifact, error) {
	cfg := openCodeConfig{
		Description: spec.Description,
		Mode:        "subagent",
		Model:       openCodeModels[spec.ModelTier],
	}

	if spec.Capabilities == agentspec.ReadOnly {
		cfg.Tools = map[string]bool{
			"write": false,
			"edit":  false,
		}
	}

	// OpenCode has no skills field; skill references are dropped here and
	// the orchestrator tells the user so.

	config, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize agent %s", spec.Name)
	}
	config = append(config, '\n')

	return &Artifact{
		Name:       spec.Name,
		ConfigFile: OpenCodeConfigFile,
		Config:     config,
		Prompt:     promptBytes(spec),
	}, nil
}
