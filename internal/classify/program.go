package classify

import (
	"regexp"
	"strings"
)

// Program name patterns, tried in order. Each captures a capitalized
// phrase next to a trigger word like "program" or "facility".
var programPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:for|to|in)\s+([A-Z][^.\n]{10,50}?)\s+(?i:program|initiative|service)`),
	regexp.MustCompile(`([A-Z][^.\n]{10,50}?)\s+(?i:program|initiative|service|centre|facility)`),
	regexp.MustCompile(`(?i)(?:youth justice|youth)\s+([^.\n]{10,50}?)\s+(?:funding|allocation)`),
}

var departmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)department of ([^,.\n]+)`),
	regexp.MustCompile(`(?i)([^,.\n]+) department`),
	regexp.MustCompile(`(?i)ministry of ([^,.\n]+)`),
}

// numericToken matches tokens that are amounts or years rather than
// name material.
var numericToken = regexp.MustCompile(`^\$?[\d,.%]+[mkb]?$`)

// ProgramName recovers a program name from a budget fragment. The
// result is always non-empty: pattern match first, then the leading run
// of non-numeric words, then a prefix of the raw text, then a constant.
func ProgramName(text string) string {
	text = strings.TrimSpace(text)

	for _, p := range programPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}

	if name := leadingWords(text); name != "" {
		return name
	}

	if prefix := strings.TrimSpace(truncate(text, 100)); prefix != "" {
		return prefix
	}
	return "unspecified"
}

// Department recovers a department name, falling back to "Unknown".
func Department(text string) string {
	for _, p := range departmentPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name
			}
		}
	}
	return "Unknown"
}

// leadingWords returns the first run of non-numeric tokens, capped at
// eight words.
func leadingWords(text string) string {
	var words []string
	for _, tok := range strings.Fields(text) {
		if numericToken.MatchString(tok) {
			break
		}
		words = append(words, tok)
		if len(words) == 8 {
			break
		}
	}
	return strings.TrimRight(strings.Join(words, " "), " .,:;|")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
