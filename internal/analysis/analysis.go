// Package analysis holds the per-resume output of the scoring pipeline.
package analysis

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-scorer/internal/ats"
	"github.com/spigell/resume-scorer/internal/feedback"
	"github.com/spigell/resume-scorer/internal/performance"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/strength"
)

// Mode selects which derived analysis runs for each resume.
type Mode string

const (
	ModeStandard    Mode = "standard"
	ModeATS         Mode = "ats"
	ModePerformance Mode = "performance"
	ModeStrength    Mode = "strength"
)

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeStandard, ModeATS, ModePerformance, ModeStrength}
}

// ParseMode converts s into a Mode. An empty string selects the standard mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStandard, nil
	}
	for _, m := range Modes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown analysis mode %q (expected one of %v)", s, Modes())
}

// Record is the full result for one resume. Exactly one of ATS, Performance
// and Strength is set, matching Mode; none is set in the standard mode.
type Record struct {
	Name string `json:"resume_file"`
	scoring.Result
	Feedback    string                  `json:"feedback"`
	Mode        Mode                    `json:"analysis_mode"`
	Details     *feedback.Detailed      `json:"details,omitempty"`
	ATS         *ats.Report             `json:"ats,omitempty"`
	Performance *performance.Prediction `json:"performance,omitempty"`
	Strength    *strength.Report        `json:"strength,omitempty"`
}

// Score returns the scoring part of the record.
func (r Record) Score() scoring.Result {
	return r.Result
}
