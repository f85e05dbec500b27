// Package sanitizer normalizes inbound strings before validation and storage.
// All functions are idempotent and never return errors; invalid input
// collapses to the empty string and is caught by validation downstream.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans customer and resource names.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeType lowercases resource types so "Room" and "room" filter the same.
func NormalizeType(resourceType string) string {
	return strings.ToLower(TrimAndNormalize(resourceType))
}
