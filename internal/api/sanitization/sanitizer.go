package sanitization

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// maxLogValue bounds user-supplied values written to logs
const maxLogValue = 200

// NormalizeEmail trims surrounding whitespace and lowercases the address
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ForLog collapses whitespace, including newlines that could forge log
// lines, and truncates long values.
func ForLog(input string) string {
	safe := strings.TrimSpace(whitespaceRun.ReplaceAllString(input, " "))
	if utf8.RuneCountInString(safe) <= maxLogValue {
		return safe
	}
	runes := []rune(safe)
	return string(runes[:maxLogValue]) + "..."
}

// OrDefault returns fallback when input is empty
func OrDefault(input, fallback string) string {
	if input == "" {
		return fallback
	}
	return input
}
