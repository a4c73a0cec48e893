// Package performance predicts interview and hiring outcomes from a score.
package performance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultIndustry = "default"

	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"

	gradeUnknown = "Unknown"

	// defaultProjectsWeight applies to industries whose table has no projects weight.
	defaultProjectsWeight = 0.2
)

var now = time.Now

var (
	techRequirementKeywords    = []string{"python", "java", "javascript", "machine learning", "data science"}
	financeRequirementKeywords = []string{"finance", "accounting", "cfa", "cpa", "financial modeling"}

	verdictMultipliers = map[scoring.Verdict]float64{
		scoring.VerdictHigh:   1.2,
		scoring.VerdictMedium: 1.0,
		scoring.VerdictLow:    0.8,
	}
)

// Factors are the success-factor weights of an industry. A zero Projects or
// Certifications weight means the industry does not list that factor.
type Factors struct {
	HighImpact     []string `json:"high_impact"`
	MediumImpact   []string `json:"medium_impact"`
	Experience     float64  `json:"experience_weight"`
	Skills         float64  `json:"skills_weight"`
	Projects       float64  `json:"projects_weight,omitempty"`
	Education      float64  `json:"education_weight"`
	Certifications float64  `json:"certifications_weight,omitempty"`
}

func (f Factors) projectsWeight() float64 {
	if f.Projects == 0 {
		return defaultProjectsWeight
	}
	return f.Projects
}

var successFactors = map[string]Factors{
	"technology": {
		HighImpact:   []string{"python", "machine learning", "aws", "docker", "kubernetes", "git"},
		MediumImpact: []string{"sql", "javascript", "react", "node.js", "api", "database"},
		Experience:   0.4,
		Skills:       0.3,
		Projects:     0.2,
		Education:    0.1,
	},
	"finance": {
		HighImpact:     []string{"excel", "sql", "python", "financial modeling", "risk analysis", "cfa"},
		MediumImpact:   []string{"vba", "power bi", "tableau", "statistics", "economics"},
		Experience:     0.5,
		Skills:         0.25,
		Certifications: 0.15,
		Education:      0.1,
	},
	"marketing": {
		HighImpact:   []string{"digital marketing", "seo", "google analytics", "social media", "content creation"},
		MediumImpact: []string{"adobe creative suite", "email marketing", "campaign management", "data analysis"},
		Experience:   0.4,
		Skills:       0.3,
		Education:    0.1,
	},
	"default": {
		HighImpact:   []string{"leadership", "project management", "communication", "problem solving"},
		MediumImpact: []string{"teamwork", "analytical skills", "time management", "adaptability"},
		Experience:   0.4,
		Skills:       0.3,
		Education:    0.1,
	},
}

// FactorsFor returns the success factors of industry, or the default ones.
func FactorsFor(industry string) Factors {
	if f, ok := successFactors[industry]; ok {
		return f
	}
	return successFactors[DefaultIndustry]
}

// Prediction is the performance outlook for one candidate.
type Prediction struct {
	BaseScore            float64   `json:"base_performance_score"`
	InterviewProbability float64   `json:"interview_probability"`
	HiringLikelihood     float64   `json:"hiring_likelihood"`
	Confidence           string    `json:"confidence_level"`
	Grade                string    `json:"performance_grade"`
	Insights             []string  `json:"insights"`
	Recommendations      []string  `json:"recommendations"`
	Industry             string    `json:"industry"`
	PredictedAt          time.Time `json:"prediction_date"`
}

// Predictor computes performance predictions.
type Predictor struct {
	logger *zap.Logger
}

// NewPredictor creates a Predictor.
func NewPredictor(logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{logger: logger}
}

// Predict estimates interview probability and hiring likelihood from a score
// and the requirement it was computed against. It never fails.
func (p *Predictor) Predict(score scoring.Result, req skills.Requirement, industry string) Prediction {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		industry = DefaultIndustry
	}

	pred, err := predict(score, req, industry)
	if err != nil {
		p.logger.Error("predicting performance", zap.Error(err))
		return Prediction{
			Confidence:      ConfidenceLow,
			Grade:           gradeUnknown,
			Insights:        []string{"Error in performance prediction"},
			Recommendations: []string{"Unable to generate recommendations"},
			Industry:        industry,
			PredictedAt:     now(),
		}
	}
	return pred
}

func predict(score scoring.Result, req skills.Requirement, industry string) (pred Prediction, err error) {
	defer fault.Recover("predict performance", &err)

	factors := FactorsFor(industry)
	base := BaseScore(score, factors)
	if math.IsNaN(base) {
		return Prediction{}, fault.Internal("predict performance", fmt.Errorf("non-numeric base score"))
	}

	return Prediction{
		BaseScore:            utils.Round(base, 2),
		InterviewProbability: utils.Round(InterviewProbability(score, base), 2),
		HiringLikelihood:     utils.Round(HiringLikelihood(score, req, base), 2),
		Confidence:           Confidence(score, req),
		Grade:                Grade(base),
		Insights:             insights(score, base, industry),
		Recommendations:      recommendations(score, factors),
		Industry:             industry,
		PredictedAt:          now(),
	}, nil
}

// BaseScore is the weighted sum of experience (hard match), skills (soft
// match) and the projects, education and certification estimates.
func BaseScore(score scoring.Result, f Factors) float64 {
	total := min(score.HardPct, 100)*f.Experience +
		min(score.SoftPct, 100)*f.Skills +
		projectsScore(score.FinalScore)*f.projectsWeight() +
		educationScore(score.FinalScore)*f.Education
	if f.Certifications > 0 {
		total += certificationsScore(score.FinalScore) * f.Certifications
	}
	return min(total, 100)
}

// InterviewProbability penalizes missing skills and scales by the verdict.
func InterviewProbability(score scoring.Result, base float64) float64 {
	penalty := min(5*float64(len(score.MissingSkills)), 30)
	multiplier, ok := verdictMultipliers[score.Verdict]
	if !ok {
		multiplier = verdictMultipliers[scoring.VerdictLow]
	}
	return utils.Clamp((0.8*base-penalty)*multiplier, 0, 100)
}

// HiringLikelihood blends the base and final scores, boosted for technical
// and finance requirements.
func HiringLikelihood(score scoring.Result, req skills.Requirement, base float64) float64 {
	return utils.Clamp((0.7*base+0.3*score.FinalScore)*IndustryMultiplier(req), 0, 100)
}

// IndustryMultiplier is 1.1 for technical must-haves, 1.05 for finance ones
// and 1 otherwise.
func IndustryMultiplier(req skills.Requirement) float64 {
	joined := strings.ToLower(strings.Join(req.MustHave, " "))
	switch {
	case containsAny(joined, techRequirementKeywords):
		return 1.1
	case containsAny(joined, financeRequirementKeywords):
		return 1.05
	default:
		return 1
	}
}

// Confidence rates how much the prediction can be trusted.
func Confidence(score scoring.Result, req skills.Requirement) string {
	points := 0

	switch {
	case score.FinalScore > 70:
		points += 30
	case score.FinalScore > 50:
		points += 20
	default:
		points += 10
	}

	switch missing := len(score.MissingSkills); {
	case missing <= 3:
		points += 25
	case missing <= 5:
		points += 15
	default:
		points += 5
	}

	if len(req.MustHave) >= 3 {
		points += 25
	} else {
		points += 10
	}

	if math.Abs(score.HardPct-score.SoftPct) < 20 {
		points += 20
	} else {
		points += 10
	}

	switch {
	case points >= 80:
		return ConfidenceHigh
	case points >= 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Grade maps a base score to a letter grade.
func Grade(base float64) string {
	grades := []struct {
		min   float64
		grade string
	}{
		{85, "A+"}, {80, "A"}, {75, "A-"}, {70, "B+"}, {65, "B"}, {60, "B-"}, {55, "C+"}, {50, "C"},
	}
	for _, g := range grades {
		if base >= g.min {
			return g.grade
		}
	}
	return "D"
}

func projectsScore(final float64) float64 {
	return tiered(final, 85, 70, 50)
}

func educationScore(final float64) float64 {
	return tiered(final, 90, 75, 60)
}

func certificationsScore(final float64) float64 {
	return tiered(final, 80, 65, 50)
}

func tiered(final, high, mid, low float64) float64 {
	switch {
	case final >= 80:
		return high
	case final >= 60:
		return mid
	default:
		return low
	}
}

func insights(score scoring.Result, base float64, industry string) []string {
	var out []string

	switch {
	case base >= 80:
		out = append(out, "Excellent candidate with high potential for success")
	case base >= 70:
		out = append(out, "Strong candidate with good potential")
	case base >= 60:
		out = append(out, "Average candidate with room for improvement")
	default:
		out = append(out, "Candidate needs significant development")
	}

	switch missing := len(score.MissingSkills); {
	case missing <= 2:
		out = append(out, "Well-rounded candidate with minimal skill gaps")
	case missing <= 4:
		out = append(out, "Good candidate with some skill gaps to address")
	default:
		out = append(out, "Candidate has significant skill gaps")
	}

	switch industry {
	case "technology":
		out = append(out, "Consider technical interview to assess coding skills")
	case "finance":
		out = append(out, "Consider case study or financial modeling assessment")
	}

	return out
}

func recommendations(score scoring.Result, f Factors) []string {
	out := []string{}

	if score.FinalScore < 70 {
		out = append(out, "Focus on developing core skills mentioned in job description")
	}
	if len(score.MissingSkills) > 0 {
		top := score.MissingSkills
		if len(top) > 3 {
			top = top[:3]
		}
		out = append(out, "Prioritize learning: "+strings.Join(top, ", "))
	}
	if f.Projects > 0 {
		out = append(out, "Build and showcase relevant projects")
	}
	if f.Certifications > 0 {
		out = append(out, "Consider obtaining industry certifications")
	}

	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
