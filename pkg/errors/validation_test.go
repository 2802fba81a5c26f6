package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Tree", false},
		{"valid with dash", "pine-tree", false},
		{"valid with underscore", "Area_1", false},
		{"valid with dot", "rock.small", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"space", "big tree", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"xml angle", "<tree>", true},
		{"quote", `tree"`, true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("blueprint", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateName(%q) code = %v, want INVALID_CONFIG", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateSceneID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f1c2a7e-9b0d-4c55-8d2e-7f1a6b3c9e10", false},
		{"slug", "demo_scene", false},

		{"empty", "", true},
		{"traversal", "../etc", true},
		{"leading dash", "-abc", true},
		{"too long", strings.Repeat("a", 65), true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSceneID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
