// File: pkg/ignore/patterns.go
package ignore

import (
	"regexp"
	"strings"
)

// Placeholders keep '**' expansions out of the single '*' rewrite.
const (
	phMiddle   = "\x00M\x00"
	phTrailing = "\x00T\x00"
	phLeading  = "\x00L\x00"
)

// Precompiled regular expressions used in pattern parsing.
var (
	DoubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	DoubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	DoubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
)

// escapeSpecialChars escapes regex special characters except for '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	specialChars := `\.+()|^$[]{}`
	var b strings.Builder
	for _, char := range pattern {
		if strings.ContainsRune(specialChars, char) {
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// handleDoubleStarPatterns swaps '**' forms for placeholders.
func handleDoubleStarPatterns(pattern string) string {
	pattern = DoubleStarMiddlePattern.ReplaceAllString(pattern, phMiddle)
	pattern = DoubleStarTrailingPattern.ReplaceAllString(pattern, phTrailing)
	pattern = DoubleStarLeadingPattern.ReplaceAllString(pattern, phLeading)
	return pattern
}

// wildcardToRegex converts '*' and '?' and then expands the '**' placeholders.
func wildcardToRegex(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)
	pattern = strings.ReplaceAll(pattern, phMiddle, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, phTrailing, `/.*`)
	pattern = strings.ReplaceAll(pattern, phLeading, `(.*/)?`)
	return pattern
}

// anchorPattern anchors the regex to the whole path. Patterns containing a
// slash other than a trailing one are relative to the root; others match at
// any depth. Directory-only patterns (trailing '/') match the directory and
// everything below it.
func anchorPattern(pattern string, dirOnly, rooted bool) string {
	if dirOnly {
		pattern += "/.*$"
	} else {
		pattern += "(/.*)?$"
	}
	if rooted {
		return "^" + pattern
	}
	return "^(|.*/)" + pattern
}
