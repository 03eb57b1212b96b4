package transform

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes angle-bracket tag markup. It is a plain tag strip for
// cleaning up description columns, not an HTML parser.
func StripHTML(value string) string {
	return htmlTagPattern.ReplaceAllString(value, "")
}

// ParseBool reports whether a raw cell value represents an affirmative
// flag. German exports commonly use "ja" and "1".
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "ja", "yes", "y":
		return true
	default:
		return false
	}
}

// CleanString trims whitespace and optionally caps the length.
func CleanString(value string, maxLength int) string {
	result := strings.TrimSpace(value)
	if maxLength > 0 && len(result) > maxLength {
		result = result[:maxLength]
	}
	return result
}
