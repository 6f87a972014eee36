package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCrateName validates a crate name before it is spliced into a
// request path. It rejects names that could be used for path traversal
// or injection attacks, then applies the crates.io naming rules.
//
// The generic validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, backslash)
//   - Maximum length of 64 characters (the crates.io limit)
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCrate, "crate name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidCrate, "crate name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCrate, "crate name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidCrate, "crate name contains invalid characters: %q", pattern)
		}
	}

	if !crateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCrate, "invalid crate name: %q", name)
	}

	return nil
}

// crateNameRegex matches valid crates.io package names.
var crateNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateHost validates a registry host name from configuration.
// It ensures the host is a bare name without scheme, port, or path.
func ValidateHost(host string) error {
	if host == "" {
		return New(ErrCodeInvalidInput, "host cannot be empty")
	}
	if strings.Contains(host, "://") {
		return New(ErrCodeInvalidInput, "host must not include a scheme")
	}
	if strings.ContainsAny(host, "/ \t") {
		return New(ErrCodeInvalidInput, "host must be a bare host name")
	}
	return nil
}
