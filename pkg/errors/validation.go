package errors

import (
	"strings"
	"unicode"
)

// ValidateResourceID validates a resource identifier for safety and
// correctness before it is handed to a provider. The rules are
// intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 256 characters
//
// Provider-specific validation (ARN shapes, URI formats) is done by the
// individual providers.
func ValidateResourceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidResource, "resource ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidResource, "resource ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidResource, "resource ID contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidResource, "resource ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDepth validates a traversal depth. Only direct neighbors
// (depth 1) and two-hop neighborhoods (depth 2) are supported.
func ValidateDepth(depth int) error {
	if depth != 1 && depth != 2 {
		return New(ErrCodeInvalidDepth, "depth must be 1 or 2, got %d", depth)
	}
	return nil
}
