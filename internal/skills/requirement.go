package skills

import "strings"

const (
	// MaxMustHave is the maximum number of must-have skills in a requirement.
	MaxMustHave = 5
	// MaxGoodToHave is the maximum number of good-to-have skills in a requirement.
	MaxGoodToHave = 8
)

// Requirement is the structured skill set derived from a job description.
type Requirement struct {
	MustHave   []string `json:"must_have" mapstructure:"must_have"`
	GoodToHave []string `json:"good_to_have" mapstructure:"good_to_have"`
}

// Empty reports whether the requirement names no skills.
func (r Requirement) Empty() bool {
	return len(r.MustHave) == 0 && len(r.GoodToHave) == 0
}

// Text joins every required skill into one lower-cased string.
func (r Requirement) Text() string {
	all := make([]string, 0, len(r.MustHave)+len(r.GoodToHave))
	all = append(all, r.MustHave...)
	all = append(all, r.GoodToHave...)
	return strings.ToLower(strings.Join(all, " "))
}

func (r Requirement) truncate() Requirement {
	if len(r.MustHave) > MaxMustHave {
		r.MustHave = r.MustHave[:MaxMustHave]
	}
	if len(r.GoodToHave) > MaxGoodToHave {
		r.GoodToHave = r.GoodToHave[:MaxGoodToHave]
	}
	return r
}

// MatchStats compares resume skills against a requirement, case-insensitively.
// Skill names in the result are lower-cased.
type MatchStats struct {
	MustHaveMatches    []string `json:"must_have_matches"`
	GoodToHaveMatches  []string `json:"good_to_have_matches"`
	MissingMustHave    []string `json:"missing_must_have"`
	MissingGoodToHave  []string `json:"missing_good_to_have"`
	MustHaveCoverage   float64  `json:"must_have_score"`
	GoodToHaveCoverage float64  `json:"good_to_have_score"`
}

// Match computes the coverage of req by resumeSkills.
func Match(resumeSkills []string, req Requirement) MatchStats {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, skill := range resumeSkills {
		have[strings.ToLower(skill)] = struct{}{}
	}

	var stats MatchStats
	stats.MustHaveMatches, stats.MissingMustHave = split(req.MustHave, have)
	stats.GoodToHaveMatches, stats.MissingGoodToHave = split(req.GoodToHave, have)

	if len(req.MustHave) > 0 {
		stats.MustHaveCoverage = float64(len(stats.MustHaveMatches)) / float64(len(req.MustHave))
	}
	if len(req.GoodToHave) > 0 {
		stats.GoodToHaveCoverage = float64(len(stats.GoodToHaveMatches)) / float64(len(req.GoodToHave))
	}

	return stats
}

func split(required []string, have map[string]struct{}) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	for _, skill := range required {
		lower := strings.ToLower(skill)
		if _, ok := have[lower]; ok {
			matched = append(matched, lower)
		} else {
			missing = append(missing, lower)
		}
	}
	return matched, missing
}
