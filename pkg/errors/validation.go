package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePath validates a chart reference inside a collection document.
// References are resolved relative to the collection file, so they must stay
// inside its directory tree.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// cssIdentRegex matches names usable as a CSS class or custom property suffix.
var cssIdentRegex = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// ValidateAliasName checks that an alias name can be emitted as a CSS class
// (attribute aliases) or custom property (color aliases).
func ValidateAliasName(name string) error {
	if name == "" {
		return New(ErrCodeSchemaViolation, "alias name cannot be empty")
	}
	if !cssIdentRegex.MatchString(name) {
		return New(ErrCodeSchemaViolation, "invalid alias name %q: must be a CSS identifier", name)
	}
	return nil
}
