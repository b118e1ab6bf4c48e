package agentspec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kindred-labs/grimoire/internal/infra"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// Validate checks every rule and returns all violations at once, so a
// broken spec is fixed in one pass instead of error-by-error. Each entry
// in the returned multierror is a *infra.ValidationError.
func Validate(spec *Spec, knownSkills map[string]bool) error {
	var result *multierror.Error
	label := spec.Name
	if label == "" {
		label = spec.SourcePath
	}

	add := func(field, message string) {
		result = multierror.Append(result, &infra.ValidationError{
			Spec:    label,
			Field:   field,
			Message: message,
		})
	}

	validateName(spec, add)

	if spec.Description == "" {
		add("description", "description is required")
	} else if len(spec.Description) > maxDescriptionLength {
		add("description", fmt.Sprintf("description exceeds %d characters", maxDescriptionLength))
	}

	for _, skill := range spec.Skills {
		if !knownSkills[skill] {
			add("skills", fmt.Sprintf("referenced skill %q does not exist", skill))
		}
	}

	return result.ErrorOrNil()
}

func validateName(spec *Spec, add func(field, message string)) {
	name := spec.Name
	if name == "" {
		add("name", "name is required")
		return
	}

	if len(name) > maxNameLength {
		add("name", fmt.Sprintf("name exceeds %d characters", maxNameLength))
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			add("name", "name must contain only lowercase letters, digits, and hyphens")
			break
		}
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		add("name", "name cannot start or end with a hyphen")
	}
	if strings.Contains(name, "--") {
		add("name", "name cannot contain consecutive hyphens")
	}

	// The name doubles as the output directory, so it must match the
	// directory the spec lives in.
	if spec.SourcePath != "" {
		dir := filepath.Base(filepath.Dir(spec.SourcePath))
		if dir != "." && dir != string(filepath.Separator) && name != dir {
			add("name", fmt.Sprintf("name %q does not match directory name %q", name, dir))
		}
	}
}
