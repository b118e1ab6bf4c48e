// Package agentspec parses AGENT.md documents (YAML frontmatter + markdown
// prompt body) into validated specs ready for platform lowering.
package agentspec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kindred-labs/grimoire/internal/infra"
)

// SpecFile is the canonical filename of an agent definition.
const SpecFile = "AGENT.md"

// Capability is the coarse permission tier restricting mutating tools.
// It is a closed enum rather than a boolean so a third tier can be added
// without changing the interface.
type Capability int

const (
	ReadWrite Capability = iota // default
	ReadOnly
)

func (c Capability) String() string {
	if c == ReadOnly {
		return "read-only"
	}
	return "read-write"
}

// ModelTier abstracts over concrete model identifiers; each platform
// resolves tiers with its own lookup table.
type ModelTier int

const (
	Balanced ModelTier = iota // default
	Fast
	Capable
)

func (t ModelTier) String() string {
	switch t {
	case Fast:
		return "fast"
	case Capable:
		return "capable"
	default:
		return "balanced"
	}
}

// Spec is a parsed agent definition. Prompt is the markdown body, stored
// verbatim and never templated.
type Spec struct {
	Name         string
	Description  string
	Capabilities Capability
	ModelTier    ModelTier
	Skills       []string
	Prompt       string

	// SourcePath is where the AGENT.md came from; validation checks the
	// name against its directory basename.
	SourcePath string
}

// frontmatter is the raw YAML shape before enum mapping.
type frontmatter struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Capabilities string   `yaml:"capabilities"`
	ModelTier    string   `yaml:"model-tier"`
	Skills       []string `yaml:"skills"`
}

// Parse splits content on the first two --- delimiters and decodes the
// frontmatter. Unknown capability or model-tier values are parse errors;
// absent ones fall back to the defaults (read-write, balanced).
func Parse(content []byte, sourcePath string) (*Spec, error) {
	text := string(content)

	if !strings.HasPrefix(text, "---") {
		return nil, &infra.ParseError{Source: sourcePath, Message: "missing YAML frontmatter delimited by ---"}
	}

	rest := strings.TrimPrefix(text[3:], "\n")
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return nil, &infra.ParseError{Source: sourcePath, Message: "unterminated YAML frontmatter"}
	}

	yamlContent := rest[:idx]
	body := strings.TrimPrefix(rest[idx+len("\n---"):], "\n")

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, &infra.ParseError{Source: sourcePath, Message: err.Error()}
	}

	capability, err := parseCapability(fm.Capabilities, sourcePath)
	if err != nil {
		return nil, err
	}
	tier, err := parseModelTier(fm.ModelTier, sourcePath)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Name:         fm.Name,
		Description:  fm.Description,
		Capabilities: capability,
		ModelTier:    tier,
		Skills:       fm.Skills,
		Prompt:       strings.TrimSpace(body),
		SourcePath:   sourcePath,
	}, nil
}

func parseCapability(s, source string) (Capability, error) {
	switch strings.ToLower(s) {
	case "":
		return ReadWrite, nil
	case "read-only", "readonly":
		return ReadOnly, nil
	case "read-write", "readwrite":
		return ReadWrite, nil
	default:
		return ReadWrite, &infra.ParseError{
			Source:  source,
			Message: fmt.Sprintf("invalid capabilities %q (expected read-only or read-write)", s),
		}
	}
}

func parseModelTier(s, source string) (ModelTier, error) {
	switch strings.ToLower(s) {
	case "":
		return Balanced, nil
	case "fast":
		return Fast, nil
	case "balanced":
		return Balanced, nil
	case "capable":
		return Capable, nil
	default:
		return Balanced, &infra.ParseError{
			Source:  source,
			Message: fmt.Sprintf("invalid model-tier %q (expected fast, balanced, or capable)", s),
		}
	}
}
