// Package comparison ranks and summarizes a batch of analyzed resumes.
package comparison

import (
	"fmt"
	"sort"
	"time"

	"github.com/spigell/resume-scorer/internal/analysis"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/utils"
	"gonum.org/v1/gonum/stat"
)

const (
	jobExcerptLength = 200
	topMissingSkills = 10
)

var now = time.Now

// ScoreStats describes the distribution of final scores.
type ScoreStats struct {
	Average float64 `json:"average_score"`
	Highest float64 `json:"highest_score"`
	Lowest  float64 `json:"lowest_score"`
	StdDev  float64 `json:"score_std"`
	Range   float64 `json:"score_range"`
}

// Ranking is one row of the ranked candidate list.
type Ranking struct {
	Rank       int             `json:"rank"`
	Name       string          `json:"resume_file"`
	FinalScore float64         `json:"final_score"`
	Verdict    scoring.Verdict `json:"verdict"`
	HardPct    float64         `json:"hard_pct"`
	SoftPct    float64         `json:"soft_pct"`
}

// SkillCount is how many resumes miss a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Report compares every resume of a batch.
type Report struct {
	RunID           string                  `json:"run_id,omitempty"`
	TotalResumes    int                     `json:"total_resumes"`
	ComparedAt      time.Time               `json:"comparison_date"`
	JobExcerpt      string                  `json:"job_description"`
	Scores          ScoreStats              `json:"score_analysis"`
	Rankings        []Ranking               `json:"rankings"`
	Verdicts        map[scoring.Verdict]int `json:"verdict_distribution"`
	CommonMissing   []SkillCount            `json:"common_missing_skills"`
	Insights        []string                `json:"insights"`
	Recommendations []string                `json:"recommendations"`
}

// Empty reports whether the report covers no resumes.
func (r Report) Empty() bool {
	return r.TotalResumes == 0
}

// Compare ranks records by final score and derives pool-level insights.
// An empty input yields an empty report.
func Compare(records []analysis.Record, jd string) Report {
	if len(records) == 0 {
		return Report{}
	}

	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.FinalScore
	}
	stats := scoreStats(scores)
	missing := missingFrequency(records)
	rankings := rank(records)

	return Report{
		TotalResumes:    len(records),
		ComparedAt:      now(),
		JobExcerpt:      excerpt(jd),
		Scores:          stats,
		Rankings:        rankings,
		Verdicts:        verdicts(records),
		CommonMissing:   head(missing, topMissingSkills),
		Insights:        insights(records, stats, missing),
		Recommendations: recommendations(records, rankings[0].Name, stats, missing),
	}
}

func scoreStats(scores []float64) ScoreStats {
	mean, std := stat.PopMeanStdDev(scores, nil)
	hi, lo := scores[0], scores[0]
	for _, s := range scores[1:] {
		hi = max(hi, s)
		lo = min(lo, s)
	}
	return ScoreStats{
		Average: utils.Round(mean, 2),
		Highest: hi,
		Lowest:  lo,
		StdDev:  utils.Round(std, 2),
		Range:   hi - lo,
	}
}

func rank(records []analysis.Record) []Ranking {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].FinalScore > records[order[b]].FinalScore
	})

	out := make([]Ranking, len(order))
	for pos, idx := range order {
		r := records[idx]
		out[pos] = Ranking{
			Rank:       pos + 1,
			Name:       r.Name,
			FinalScore: r.FinalScore,
			Verdict:    r.Verdict,
			HardPct:    r.HardPct,
			SoftPct:    r.SoftPct,
		}
	}
	return out
}

func verdicts(records []analysis.Record) map[scoring.Verdict]int {
	out := make(map[scoring.Verdict]int)
	for _, r := range records {
		out[r.Verdict]++
	}
	return out
}

// missingFrequency counts missing skills across records, most frequent
// first. Ties keep the order in which skills were first seen.
func missingFrequency(records []analysis.Record) []SkillCount {
	index := make(map[string]int)
	counts := []SkillCount{}
	for _, r := range records {
		for _, skill := range r.MissingSkills {
			if i, ok := index[skill]; ok {
				counts[i].Count++
				continue
			}
			index[skill] = len(counts)
			counts = append(counts, SkillCount{Skill: skill, Count: 1})
		}
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

func head(counts []SkillCount, n int) []SkillCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

func insights(records []analysis.Record, stats ScoreStats, missing []SkillCount) []string {
	out := []string{}
	total := float64(len(records))

	high, low := 0, 0
	for _, r := range records {
		switch {
		case r.FinalScore >= 75:
			high++
		case r.FinalScore < 45:
			low++
		}
	}

	switch {
	case float64(high) > 0.3*total:
		out = append(out, fmt.Sprintf("Strong candidate pool: %d resumes scored 75+", high))
	case high == 0:
		out = append(out, "No high-scoring candidates found - consider revising job requirements")
	}
	if float64(low) > 0.5*total {
		out = append(out, fmt.Sprintf("Many candidates need improvement: %d scored below 45", low))
	}

	switch {
	case stats.StdDev < 10:
		out = append(out, "Low score variance - candidates are similarly qualified")
	case stats.StdDev > 25:
		out = append(out, "High score variance - significant differences in candidate quality")
	}

	if len(missing) > 0 {
		out = append(out, "Most common missing skill: "+missing[0].Skill)
	}

	return out
}

// recommendations names the rank-1 candidate top in its tier-based action.
func recommendations(records []analysis.Record, top string, stats ScoreStats, missing []SkillCount) []string {
	var out []string

	switch {
	case stats.Highest >= 80:
		out = append(out, fmt.Sprintf("Consider %s for immediate interview", top))
	case stats.Highest >= 60:
		out = append(out, fmt.Sprintf("%s shows promise - schedule interview", top))
	default:
		out = append(out, "Consider revising job requirements or candidate criteria")
	}

	if len(missing) > 5 {
		out = append(out, "Consider providing training for common missing skills")
	}

	high := 0
	for _, r := range records {
		if r.Verdict == scoring.VerdictHigh {
			high++
		}
	}
	if float64(high) < 0.2*float64(len(records)) {
		out = append(out, "Consider expanding candidate search or adjusting requirements")
	}

	return out
}

func excerpt(jd string) string {
	if len([]rune(jd)) > jobExcerptLength {
		return utils.Excerpt(jd, jobExcerptLength) + "..."
	}
	return jd
}
