package util

import (
	"regexp"
	"strings"
)

var (
	reQuotes = regexp.MustCompile(`["'` + "`" + `«»“”‘’]`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeLine lowercases, blanks out quote marks and collapses whitespace.
// It is the only canonicalization applied before coverage matching.
func NormalizeLine(input string) string {
	s := strings.ToLower(input)
	s = reQuotes.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeLines normalizes every non-blank line and drops duplicates, keeping first-seen order.
func NormalizeLines(lines []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		norm := NormalizeLine(line)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// ContainsEither reports whether either string contains the other. Empty strings never match.
func ContainsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
