package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxShapeNameLen bounds template names in bytes.
const MaxShapeNameLen = 256

// ValidateShapeName accepts template names such as "Flowchart - Box".
// Names reach log lines, cache keys and HTTP responses, so blank names,
// overlong names and names with control characters are rejected.
func ValidateShapeName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return New(ErrCodeInvalidInput, "shape name is blank")
	case len(name) > MaxShapeNameLen:
		return New(ErrCodeInvalidInput, "shape name is longer than %d bytes", MaxShapeNameLen)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidInput, "shape name %q has control characters", name)
	}
	return nil
}

// ValidateFilename accepts a bare, visible file name: no directory part,
// no leading dot and no control characters.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPath, "file name is empty")
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidPath, "file name %q has a directory part", name)
	case name[0] == '.':
		return New(ErrCodeInvalidPath, "file name %q is hidden", name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "file name %q has control characters", name)
	}
	return nil
}

// ValidateExtension checks that name ends in one of exts, ignoring case.
// Each ext includes its dot.
func ValidateExtension(name string, exts ...string) error {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension %q (want one of %s)", ext, strings.Join(exts, ", "))
}
