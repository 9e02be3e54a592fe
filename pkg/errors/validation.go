package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNodeIDLength bounds city identifiers, counted in runes.
const maxNodeIDLength = 64

// ValidateNodeID validates a city identifier supplied by a user.
//
// The rules are deliberately loose because identifiers are display labels
// in any script:
//   - No empty or whitespace-only identifiers
//   - No control characters
//   - Maximum length of 64 runes
//
// Whether the identifier exists in a graph is checked by the engine.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "city name cannot be empty")
	}

	if utf8.RuneCountInString(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "city name too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "city name contains invalid control characters")
		}
	}

	return nil
}

// networkNameRegex matches built-in and file-declared network names.
var networkNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateNetworkName validates a network name (e.g. "china", "compact").
func ValidateNetworkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "network name cannot be empty")
	}
	if !networkNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid network name: %q", name)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
