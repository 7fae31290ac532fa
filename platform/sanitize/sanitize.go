// Package sanitize provides text sanitization utilities for user-provided queries.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxQueryLength is the longest sanitized query accepted for a search.
const MaxQueryLength = 500

var (
	// whitespaceRegex matches runs of whitespace, including newlines and tabs
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// injectionMarkers are matched case-insensitively against the sanitized query
	injectionMarkers = []string{"<script", "javascript:"}
)

// Query trims a raw query and collapses internal whitespace runs to a single
// space. It never rejects input; see Check for that.
func Query(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// HasInjectionMarker reports whether s contains an obvious script-injection marker.
func HasInjectionMarker(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Problem describes why a sanitized query was refused. The zero value means ok.
type Problem string

const (
	ProblemNone      Problem = ""
	ProblemTooLong   Problem = "query too long"
	ProblemInjection Problem = "query contains disallowed content"
)

// Check validates an already sanitized query. Length is counted in runes.
func Check(q string) Problem {
	if len([]rune(q)) > MaxQueryLength {
		return ProblemTooLong
	}
	if HasInjectionMarker(q) {
		return ProblemInjection
	}
	return ProblemNone
}
