// Package strength profiles a resume across fixed strength dimensions.
package strength

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

const (
	keywordPoints     = 10.0
	termPoints        = 10.0
	matchPoints       = 5.0
	subcategoryFactor = 0.1
	alignmentFactor   = 0.2
	alignmentCeiling  = 20.0
	weakThreshold     = 60.0
)

var now = time.Now

// CategoryScore is the normalized score of one category.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Detail explains how a category score was reached.
type Detail struct {
	Category          string             `json:"category"`
	KeywordMatches    []string           `json:"keyword_matches"`
	SubcategoryScores map[string]float64 `json:"subcategory_scores"`
	JDAlignment       float64            `json:"jd_alignment"`
}

// Matrix is the category by subcategory view used for heatmaps.
type Matrix struct {
	Categories []string                      `json:"categories"`
	Scores     []float64                     `json:"scores"`
	Breakdown  map[string]map[string]float64 `json:"subcategory_breakdown"`
}

// Report is the strength profile of one resume.
type Report struct {
	OverallStrength float64         `json:"overall_strength"`
	CategoryScores  []CategoryScore `json:"category_scores"`
	Detailed        []Detail        `json:"detailed_analysis"`
	Matrix          Matrix          `json:"strength_matrix"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
	AnalyzedAt      time.Time       `json:"analysis_date"`
}

// Score returns the score of the named category, or zero.
func (r Report) Score(category string) float64 {
	for _, cs := range r.CategoryScores {
		if cs.Category == category {
			return cs.Score
		}
	}
	return 0
}

// Analyzer computes strength profiles.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze profiles resume. A non-nil req adds job alignment to every
// category. It never fails.
func (a *Analyzer) Analyze(resume string, req *skills.Requirement) Report {
	report, err := analyze(resume, req)
	if err != nil {
		a.logger.Error("analyzing resume strengths", zap.Error(err))
		return Report{
			CategoryScores:  []CategoryScore{},
			Detailed:        []Detail{},
			Insights:        []string{"Error in strength analysis"},
			Recommendations: []string{"Unable to generate recommendations"},
			AnalyzedAt:      now(),
		}
	}
	return report
}

func analyze(resume string, req *skills.Requirement) (report Report, err error) {
	defer fault.Recover("strength analysis", &err)

	lower := strings.ToLower(resume)
	alignment := 0.0
	if req != nil {
		alignment = Alignment(lower, *req)
	}

	report = Report{
		Matrix: Matrix{Breakdown: make(map[string]map[string]float64, len(categories))},
	}
	for _, c := range categories {
		score, detail := categoryStrength(resume, lower, c, alignment, req != nil)
		report.CategoryScores = append(report.CategoryScores, CategoryScore{Category: c.Name, Score: score})
		report.Detailed = append(report.Detailed, detail)
		report.Matrix.Categories = append(report.Matrix.Categories, c.Name)
		report.Matrix.Scores = append(report.Matrix.Scores, score)
		report.Matrix.Breakdown[c.Name] = detail.SubcategoryScores
	}

	overall := Overall(report.CategoryScores)
	report.OverallStrength = utils.Round(overall, 2)
	report.Insights = insights(report.CategoryScores, overall)
	report.Recommendations = recommendations(report.CategoryScores, req)
	report.AnalyzedAt = now()

	return report, nil
}

func categoryStrength(resume, lower string, c Category, alignment float64, aligned bool) (float64, Detail) {
	detail := Detail{
		Category:          c.Name,
		KeywordMatches:    []string{},
		SubcategoryScores: make(map[string]float64, len(c.Subcategories)),
	}

	score := 0.0
	for _, kw := range c.Keywords {
		if strings.Contains(lower, kw) {
			detail.KeywordMatches = append(detail.KeywordMatches, kw)
			score += keywordPoints
		}
	}

	for _, sub := range c.Subcategories {
		s := SubcategoryScore(resume, lower, sub)
		detail.SubcategoryScores[sub.Name] = s
		score += s * subcategoryFactor
	}

	if aligned {
		detail.JDAlignment = alignment
		score += alignment * alignmentFactor
	}

	maxPossible := keywordPoints*float64(len(c.Keywords)) + termPoints*float64(len(c.Subcategories)) + alignmentCeiling
	return utils.Round(min(score/maxPossible*100, 100), 2), detail
}

// SubcategoryScore scores sub against the resume, capped at 100.
func SubcategoryScore(resume, lower string, sub Subcategory) float64 {
	score := 0.0
	for _, term := range sub.Terms {
		if strings.Contains(lower, term) {
			score += termPoints
		}
	}
	for _, p := range sub.Patterns {
		score += matchPoints * float64(len(p.FindAllStringIndex(resume, -1)))
	}
	return min(score, 100)
}

// Alignment rates how many requirement skills appear in the lower-cased
// resume: 50 points for must-haves and 30 for good-to-haves, pro rata.
func Alignment(lower string, req skills.Requirement) float64 {
	score := 50*containedFraction(lower, req.MustHave) + 30*containedFraction(lower, req.GoodToHave)
	return min(score, 100)
}

// Overall is the weight-normalized average of the category scores.
func Overall(scores []CategoryScore) float64 {
	total, weights := 0.0, 0.0
	for _, cs := range scores {
		w := weightOf(cs.Category)
		total += cs.Score * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

func weightOf(name string) float64 {
	for _, c := range categories {
		if c.Name == name {
			return c.Weight
		}
	}
	return 0.2
}

func labelOf(name string) string {
	for _, c := range categories {
		if c.Name == name {
			return c.Label
		}
	}
	return name
}

func insights(scores []CategoryScore, overall float64) []string {
	var out []string

	if len(scores) > 0 {
		strongest, weakest := scores[0], scores[0]
		for _, cs := range scores[1:] {
			if cs.Score > strongest.Score {
				strongest = cs
			}
			if cs.Score < weakest.Score {
				weakest = cs
			}
		}
		out = append(out,
			fmt.Sprintf("Strongest area: %s (%.1f%%)", labelOf(strongest.Category), strongest.Score),
			fmt.Sprintf("Area for improvement: %s (%.1f%%)", labelOf(weakest.Category), weakest.Score),
		)
	}

	switch {
	case overall >= 80:
		out = append(out, "Excellent overall resume strength")
	case overall >= 70:
		out = append(out, "Good overall resume strength")
	case overall >= 60:
		out = append(out, "Average resume strength")
	default:
		out = append(out, "Resume needs significant improvement")
	}

	return out
}

func recommendations(scores []CategoryScore, req *skills.Requirement) []string {
	out := []string{}
	for _, cs := range scores {
		if cs.Score < weakThreshold {
			out = append(out, fmt.Sprintf("Focus on improving %s (current: %.1f%%)", labelOf(cs.Category), cs.Score))
		}
	}

	if req != nil && len(req.MustHave) > 0 {
		top := req.MustHave
		if len(top) > 3 {
			top = top[:3]
		}
		out = append(out, "Ensure all must-have skills are highlighted: "+strings.Join(top, ", "))
	}

	return out
}

func containedFraction(lower string, list []string) float64 {
	if len(list) == 0 {
		return 0
	}
	n := 0
	for _, s := range list {
		if strings.Contains(lower, strings.ToLower(s)) {
			n++
		}
	}
	return float64(n) / float64(len(list))
}
