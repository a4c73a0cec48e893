package skills

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-scorer/internal/catalog"
)

var (
	mustHaveCues = []string{
		"required", "must have", "essential", "mandatory", "necessary",
		"prerequisite", "minimum", "at least", "should have", "need",
		"critical", "important", "key", "core", "fundamental",
	}

	goodToHaveCues = []string{
		"preferred", "nice to have", "bonus", "advantage", "plus",
		"desirable", "beneficial", "helpful", "would be great",
		"optional", "additional", "extra", "welcome",
	}

	placeholderSkills = []string{"Communication", "Problem Solving", "Teamwork"}

	techPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:react|angular|vue|node\.?js|express|django|flask|spring|laravel)\b`),
		regexp.MustCompile(`(?i)\b(?:aws|azure|gcp|docker|kubernetes|jenkins|git|github|gitlab)\b`),
		regexp.MustCompile(`(?i)\b(?:sql|mysql|postgresql|mongodb|redis|elasticsearch)\b`),
		regexp.MustCompile(`(?i)\b(?:python|java|javascript|typescript|c\+\+|c#|go|rust|php|ruby)\b`),
		regexp.MustCompile(`(?i)\b(?:machine learning|ml|ai|artificial intelligence|deep learning|nlp)\b`),
		regexp.MustCompile(`(?i)\b(?:agile|scrum|kanban|devops|ci/cd|microservices|api|rest|graphql)\b`),
		regexp.MustCompile(`(?i)\b(?:tableau|power bi|excel|sql server|oracle|sap|salesforce)\b`),
		regexp.MustCompile(`(?i)\b(?:linux|unix|windows|macos|bash|powershell|shell scripting)\b`),
	}

	capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	versionedToken    = regexp.MustCompile(`(?i)\b\w+\s*\d+(?:\.\d+)*\b`)

	commonWords = map[string]struct{}{
		"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
		"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "a": {}, "an": {},
	}
)

// additionalKeywords finds likely skills the catalog does not know about:
// well-known technology names, capitalized phrases and versioned tokens.
// Cue words such as "Required" or "Preferred" are never reported as skills.
func additionalKeywords(text string) []string {
	var keywords []string

	lower := strings.ToLower(text)
	for _, pattern := range techPatterns {
		for _, match := range pattern.FindAllString(lower, -1) {
			keywords = append(keywords, catalog.TitleCase(match))
		}
	}

	keywords = append(keywords, capitalizedPhrase.FindAllString(text, -1)...)
	keywords = append(keywords, versionedToken.FindAllString(text, -1)...)

	filtered := keywords[:0]
	for _, kw := range keywords {
		lowerKw := strings.ToLower(kw)
		if _, common := commonWords[lowerKw]; common {
			continue
		}
		if utf8.RuneCountInString(kw) <= 2 || isCueWord(lowerKw) {
			continue
		}
		filtered = append(filtered, kw)
	}

	return dedupe(filtered)
}

func isCueWord(lower string) bool {
	for _, cue := range mustHaveCues {
		if lower == cue {
			return true
		}
	}
	for _, cue := range goodToHaveCues {
		if lower == cue {
			return true
		}
	}
	return false
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

// dedupe removes case-insensitive duplicates, keeping the first spelling seen.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// appendUnique appends item unless list already holds it, ignoring case.
func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, item) {
			return list
		}
	}
	return append(list, item)
}
