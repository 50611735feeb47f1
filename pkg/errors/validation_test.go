package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	shapeExts := func(s string) error { return ValidateExtension(s, ".dia", ".shape") }

	tests := []struct {
		name  string
		check func(string) error
		input string
		want  Code // "" means valid
	}{
		{"shape name", ValidateShapeName, "Box", ""},
		{"shape name with sheet", ValidateShapeName, "Flowchart - Box", ""},
		{"shape name unicode", ValidateShapeName, "Réseau - Routeur", ""},
		{"shape name empty", ValidateShapeName, "", ErrCodeInvalidInput},
		{"shape name blank", ValidateShapeName, "   ", ErrCodeInvalidInput},
		{"shape name long", ValidateShapeName, strings.Repeat("x", MaxShapeNameLen+1), ErrCodeInvalidInput},
		{"shape name NUL", ValidateShapeName, "a\x00b", ErrCodeInvalidInput},
		{"shape name newline", ValidateShapeName, "a\nb", ErrCodeInvalidInput},

		{"file", ValidateFilename, "network.dia", ""},
		{"file with space", ValidateFilename, "my diagram.dia", ""},
		{"file empty", ValidateFilename, "", ErrCodeInvalidPath},
		{"file slash", ValidateFilename, "dir/a.dia", ErrCodeInvalidPath},
		{"file backslash", ValidateFilename, `dir\a.dia`, ErrCodeInvalidPath},
		{"file hidden", ValidateFilename, ".a.dia", ErrCodeInvalidPath},
		{"file bell", ValidateFilename, "a\x07.dia", ErrCodeInvalidPath},

		{"ext dia", shapeExts, "a.dia", ""},
		{"ext upper", shapeExts, "A.DIA", ""},
		{"ext shape", shapeExts, "box.shape", ""},
		{"ext none", shapeExts, "diagram", ErrCodeInvalidFormat},
		{"ext svg", shapeExts, "diagram.svg", ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.input)
			if got := GetCode(err); err != nil && got != tt.want || err == nil && tt.want != "" {
				t.Errorf("check(%q) = %v, want code %q", tt.input, err, tt.want)
			}
		})
	}
}
