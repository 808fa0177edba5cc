package errors

import (
	"strings"
	"unicode"
)

// MaxIterations caps the iteration budget accepted from untrusted callers.
const MaxIterations = 1_000_000

// ValidateNetworkName validates a network name for safety.
// Network names end up in report file names, so they must be simple
// basenames:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateNetworkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "network name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "network name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "network name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "network name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "network name cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateIterations validates an MSA iteration budget.
// The budget must be a positive integer no larger than MaxIterations.
func ValidateIterations(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "iterations must be a positive integer (got %d)", n)
	}
	if n > MaxIterations {
		return New(ErrCodeInvalidInput, "iterations too large (max %d)", MaxIterations)
	}
	return nil
}

// ValidateRunID validates a run identifier received from an API path.
// Run IDs are canonical UUID strings; this only rejects obviously bad input
// before it reaches a storage backend.
func ValidateRunID(id string) error {
	if len(id) != 36 {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}
	for i, r := range id {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return New(ErrCodeInvalidInput, "invalid run id: %q", id)
			}
		default:
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return New(ErrCodeInvalidInput, "invalid run id: %q", id)
			}
		}
	}
	return nil
}
