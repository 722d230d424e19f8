package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
)

// NormalizeForStorage converts an image code into a storage-safe slug:
// trimmed, whitespace collapsed to hyphens, anything outside [A-Za-z0-9_-]
// replaced with a hyphen, hyphen runs collapsed, lowercased. Applying it
// twice yields the same result.
func NormalizeForStorage(value string) string {
	s := strings.TrimSpace(value)
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = unsafeRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}
