package analysis

import (
	"encoding/json"
	"testing"

	"github.com/spigell/resume-scorer/internal/ats"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":            ModeStandard,
		"standard":    ModeStandard,
		" ATS ":       ModeATS,
		"Performance": ModePerformance,
		"strength":    ModeStrength,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("heatmap")
	assert.ErrorContains(t, err, `unknown analysis mode "heatmap"`)
}

func TestRecordJSONFlattensScore(t *testing.T) {
	rec := Record{
		Name:     "alice.pdf",
		Result:   scoring.Result{FinalScore: 81.5, Verdict: scoring.VerdictHigh, MissingSkills: []string{"Go"}},
		Feedback: "Ship a Go service.",
		Mode:     ModeATS,
		ATS:      &ats.Report{ATSScore: 70, Grade: ats.GradeGood},
	}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "alice.pdf", decoded["resume_file"])
	assert.Equal(t, 81.5, decoded["final_score"])
	assert.Equal(t, "High", decoded["verdict"])
	assert.Equal(t, "ats", decoded["analysis_mode"])
	assert.Contains(t, decoded, "ats")
	assert.NotContains(t, decoded, "performance")
	assert.NotContains(t, decoded, "strength")
	assert.Equal(t, rec.Result, rec.Score())
}
