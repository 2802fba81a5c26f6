package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a blueprint, site or class name.
// It rejects names that could break ids, file names or XML attributes.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path separators or XML metacharacters
//   - Maximum length of 128 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "%s name cannot be empty", kind)
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidConfig, "%s name too long (max 128 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "%s name %q contains whitespace or control characters", kind, name)
		}
	}

	if strings.ContainsAny(name, `/\<>&"'`) {
		return New(ErrCodeInvalidConfig, "%s name %q contains invalid characters", kind, name)
	}

	return nil
}

// sceneIDRegex matches ids produced by the pipeline (UUIDs) and other
// simple slugs.
var sceneIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateSceneID validates a stored scene id before it is used as a file
// name or database key.
func ValidateSceneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "scene id cannot be empty")
	}
	if !sceneIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid scene id: %q", id)
	}
	return nil
}
