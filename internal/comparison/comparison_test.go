package comparison

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spigell/resume-scorer/internal/analysis"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, final float64, verdict scoring.Verdict, missing ...string) analysis.Record {
	return analysis.Record{
		Name: name,
		Result: scoring.Result{
			FinalScore:    final,
			HardPct:       final + 5,
			SoftPct:       final - 5,
			Verdict:       verdict,
			MissingSkills: missing,
		},
	}
}

func freezeTime(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
	return at
}

func TestCompareTwoCandidates(t *testing.T) {
	at := freezeTime(t)
	records := []analysis.Record{
		record("resume1.pdf", 85, scoring.VerdictHigh, "AWS", "Docker"),
		record("resume2.pdf", 65, scoring.VerdictMedium, "Python", "Machine Learning"),
	}

	report := Compare(records, "Python developer with ML experience")

	assert.Equal(t, 2, report.TotalResumes)
	assert.Equal(t, at, report.ComparedAt)
	assert.Equal(t, "Python developer with ML experience", report.JobExcerpt)
	assert.Equal(t, ScoreStats{Average: 75, Highest: 85, Lowest: 65, StdDev: 10, Range: 20}, report.Scores)
	assert.Equal(t, map[scoring.Verdict]int{scoring.VerdictHigh: 1, scoring.VerdictMedium: 1}, report.Verdicts)
	assert.Equal(t, "resume1.pdf", report.Rankings[0].Name)
	assert.Equal(t, 2, report.Rankings[1].Rank)
	assert.Equal(t, []string{
		"Strong candidate pool: 1 resumes scored 75+",
		"Most common missing skill: AWS",
	}, report.Insights)
	assert.Equal(t, []string{"Consider resume1.pdf for immediate interview"}, report.Recommendations)
}

func TestCompareKeepsSourceOrderOnTies(t *testing.T) {
	freezeTime(t)
	records := []analysis.Record{
		record("a", 50, scoring.VerdictMedium, "X", "Y"),
		record("b", 70, scoring.VerdictMedium, "Y"),
		record("c", 50, scoring.VerdictMedium, "Z", "X"),
	}

	report := Compare(records, strings.Repeat("j", 250))

	names := make([]string, 0, len(report.Rankings))
	for _, r := range report.Rankings {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, []SkillCount{{Skill: "X", Count: 2}, {Skill: "Y", Count: 2}, {Skill: "Z", Count: 1}}, report.CommonMissing)
	assert.InDelta(t, 56.67, report.Scores.Average, 1e-9)
	assert.InDelta(t, 9.43, report.Scores.StdDev, 1e-9)
	assert.Equal(t, strings.Repeat("j", 200)+"...", report.JobExcerpt)
	assert.Equal(t, []string{
		"No high-scoring candidates found - consider revising job requirements",
		"Low score variance - candidates are similarly qualified",
		"Most common missing skill: X",
	}, report.Insights)
	assert.Equal(t, []string{
		"b shows promise - schedule interview",
		"Consider expanding candidate search or adjusting requirements",
	}, report.Recommendations)
}

func TestCompareWeakPool(t *testing.T) {
	freezeTime(t)
	records := []analysis.Record{
		record("a", 10, scoring.VerdictLow, "A", "B", "C"),
		record("b", 90, scoring.VerdictHigh, "D", "E", "F"),
		record("c", 20, scoring.VerdictLow),
	}

	report := Compare(records, "jd")

	assert.Contains(t, report.Insights, "Many candidates need improvement: 2 scored below 45")
	assert.Contains(t, report.Insights, "High score variance - significant differences in candidate quality")
	assert.Equal(t, "Consider b for immediate interview", report.Recommendations[0])
	assert.Contains(t, report.Recommendations, "Consider providing training for common missing skills")
	assert.NotContains(t, report.Recommendations, "Consider expanding candidate search or adjusting requirements")
}

func TestCompareEmpty(t *testing.T) {
	report := Compare(nil, "jd")
	assert.True(t, report.Empty())
	assert.Equal(t, Report{}, report)
}

type stubEmbedder struct {
	vectors [][]float64
}

func (s stubEmbedder) Embed(context.Context, []string) [][]float64 {
	return s.vectors
}

func TestSimilarity(t *testing.T) {
	emb := stubEmbedder{vectors: [][]float64{{1, 0}, {1, 0}, {0, 1}}}

	got := Similarity(context.Background(), emb, []string{"a", "b", "c"})

	require.Len(t, got.Pairs, 3)
	assert.Equal(t, Pair{First: 0, Second: 2, Similarity: 0}, got.Pairs[1])
	assert.InDelta(t, 1.0/3, got.Average, 1e-9)
	assert.InDelta(t, 1.0, got.Max, 1e-9)
	assert.Zero(t, got.Min)

	assert.Empty(t, Similarity(context.Background(), emb, []string{"only"}).Pairs)
	assert.Empty(t, Similarity(context.Background(), stubEmbedder{}, []string{"a", "b"}).Pairs)
}

func TestRender(t *testing.T) {
	freezeTime(t)
	records := []analysis.Record{
		record("resume1.pdf", 85, scoring.VerdictHigh, "AWS"),
		record("resume2.pdf", 65, scoring.VerdictMedium),
	}
	report := Compare(records, "jd")
	report.RunID = "run-1"

	out := Render(report)

	assert.True(t, strings.HasPrefix(out, "# Resume Comparison Report\n"))
	assert.Contains(t, out, "Generated: 2024-06-01T09:30:00Z")
	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "- Total Resumes Analyzed: 2\n")
	assert.Contains(t, out, "- Score Range: 65.0% - 85.0%\n")
	assert.Contains(t, out, "\n1. resume1.pdf\n   - Score: 85.0%\n   - Verdict: High\n   - Hard Match: 90.0%\n")
	assert.Contains(t, out, "## Key Insights\n- Strong candidate pool: 1 resumes scored 75+\n")
	assert.Contains(t, out, "## Recommendations\n")
}
