package strings

import (
	"strings"
)

// MaxSnippetLen bounds how much of an upstream response body is quoted back in
// failure details.
const MaxSnippetLen = 200

// MinTruncateLen is the minimum maxLen accepted by Snippet.
// Smaller values would not leave room for content plus "...".
const MinTruncateLen = 4

// Snippet returns a single-line excerpt of s at most maxLen runes long.
//
// Whitespace runs (including newlines in HTML error pages) collapse to single
// spaces. When the result is cut, the last three runes are replaced by "...".
// Slicing is rune based so multi-byte characters are never split.
//
// If maxLen is less than MinTruncateLen it is clamped to MinTruncateLen.
func Snippet(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// BodySnippet is Snippet with MaxSnippetLen applied to a raw response body.
// An empty body yields "(empty response body)".
func BodySnippet(body []byte) string {
	s := Snippet(string(body), MaxSnippetLen)
	if s == "" {
		return "(empty response body)"
	}
	return s
}
