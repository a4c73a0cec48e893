// Package textnorm cleans text extracted from resumes and job descriptions.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	digitsOnly      = regexp.MustCompile(`^\d+$`)
	sentenceBreak   = regexp.MustCompile(`[.!?]+`)
)

// allowedPunct lists the non-alphanumeric characters kept by Clean.
const allowedPunct = ".,;:!?-()[]{}\"'/@#$%&*+=<>|~`_•◦"

// Clean normalizes raw extracted text. Horizontal whitespace is collapsed,
// control and unsupported characters are dropped, and junk lines (page numbers,
// one or two letter upper-case fragments, blank lines) are removed. Line
// structure is otherwise preserved.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	filtered := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return r
		case strings.ContainsRune(allowedPunct, r):
			return r
		default:
			return -1
		}
	}, raw)

	lines := strings.Split(filtered, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line == "" || isJunkLine(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

func isJunkLine(line string) bool {
	if digitsOnly.MatchString(line) {
		return true
	}
	return len([]rune(line)) < 3 && IsUpper(line)
}

// IsUpper reports whether s has at least one cased letter and no lower-case ones.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// Sentences splits text on runs of sentence-ending punctuation. Empty
// fragments are kept so callers can rely on positional stability.
func Sentences(text string) []string {
	return sentenceBreak.Split(text, -1)
}

// Lines returns the trimmed non-empty lines of text.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
