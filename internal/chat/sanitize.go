package chat

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeText normalizes a message body the way the host platform filters
// text input: markup tags are stripped and runs of whitespace (including
// line breaks) collapse to single spaces. Bodies are stored and rendered
// as plain text.
func SanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
