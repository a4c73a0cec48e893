package strength

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subcategory(t *testing.T, category, name string) Subcategory {
	t.Helper()
	for _, c := range Categories() {
		if c.Name != category {
			continue
		}
		for _, sub := range c.Subcategories {
			if sub.Name == name {
				return sub
			}
		}
	}
	t.Fatalf("subcategory %s/%s not found", category, name)
	return Subcategory{}
}

func TestCategoryStrength(t *testing.T) {
	text := "python and sql on aws"
	technical := Categories()[0]

	score, detail := categoryStrength(text, text, technical, 0, false)

	// 30 keyword points + 4 subcategory points out of 150.
	assert.InDelta(t, 22.67, score, 1e-9)
	assert.Equal(t, []string{"python", "sql", "aws"}, detail.KeywordMatches)
	assert.Equal(t, map[string]float64{"programming": 20, "databases": 10, "cloud": 10, "ai_ml": 0, "devops": 0}, detail.SubcategoryScores)
	assert.Zero(t, detail.JDAlignment)

	req := skills.Requirement{MustHave: []string{"Python", "Go"}, GoodToHave: []string{"AWS"}}
	alignment := Alignment(text, req)
	require.InDelta(t, 55.0, alignment, 1e-9)

	score, detail = categoryStrength(text, text, technical, alignment, true)
	assert.InDelta(t, 30.0, score, 1e-9)
	assert.InDelta(t, 55.0, detail.JDAlignment, 1e-9)
}

func TestSubcategoryScoreCountsMatches(t *testing.T) {
	years := "5 years of Go, 3+ yrs Rust"
	assert.Equal(t, 10.0, SubcategoryScore(years, strings.ToLower(years), subcategory(t, "experience", "years_experience")))

	results := "Increased revenue 40% and cut costs by $200, 3x faster; decreased churn"
	assert.Equal(t, 25.0, SubcategoryScore(results, strings.ToLower(results), subcategory(t, "achievements", "quantified_results")))

	many := strings.Repeat("10% ", 30)
	assert.Equal(t, 100.0, SubcategoryScore(many, many, subcategory(t, "achievements", "quantified_results")))
}

func TestAnalyzeEmptyResume(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })

	report := NewAnalyzer(nil).Analyze("", nil)

	assert.Zero(t, report.OverallStrength)
	assert.Equal(t, []string{"technical_skills", "soft_skills", "experience", "education", "achievements"}, report.Matrix.Categories)
	assert.Len(t, report.Matrix.Breakdown, 5)
	assert.Equal(t, []string{
		"Strongest area: Technical Skills (0.0%)",
		"Area for improvement: Technical Skills (0.0%)",
		"Resume needs significant improvement",
	}, report.Insights)
	assert.Len(t, report.Recommendations, 5)
	assert.Equal(t, "Focus on improving Technical Skills (current: 0.0%)", report.Recommendations[0])
	assert.Equal(t, at, report.AnalyzedAt)
}

func TestAnalyzeWithRequirement(t *testing.T) {
	resume := `Senior engineer, 7 years experience in fintech industry.
Led and managed a cross-functional team; presented to the board.
Python, SQL, AWS, Docker, Kubernetes, machine learning.
Bachelor of Computer Science, State University.
Increased throughput 3x and cut costs 20%. Published a research paper. AWS certified.`
	req := &skills.Requirement{MustHave: []string{"Python", "AWS", "Go", "Leadership"}, GoodToHave: []string{"Docker"}}

	report := NewAnalyzer(nil).Analyze(resume, req)

	require.Len(t, report.Detailed, 5)
	for _, d := range report.Detailed {
		// Python and AWS of four must-haves, Docker of one good-to-have.
		assert.InDelta(t, 55.0, d.JDAlignment, 1e-9, d.Category)
	}
	for _, cs := range report.CategoryScores {
		assert.Greater(t, cs.Score, 0.0, cs.Category)
		assert.LessOrEqual(t, cs.Score, 100.0, cs.Category)
	}
	assert.InDelta(t, Overall(report.CategoryScores), report.OverallStrength, 0.005)
	assert.Equal(t, "Ensure all must-have skills are highlighted: Python, AWS, Go", report.Recommendations[len(report.Recommendations)-1])
	assert.Equal(t, report.Matrix.Scores[2], report.Score("experience"))
	assert.Zero(t, report.Score("unknown"))
}

func TestOverall(t *testing.T) {
	assert.InDelta(t, 62.5, Overall([]CategoryScore{{Category: "technical_skills", Score: 100}, {Category: "education", Score: 0}}), 1e-9)
	assert.InDelta(t, 50.0, Overall([]CategoryScore{{Category: "custom", Score: 50}}), 1e-9)
	assert.Zero(t, Overall(nil))
}

func TestCategoryWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, c := range Categories() {
		total += c.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
