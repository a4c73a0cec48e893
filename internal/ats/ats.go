// Package ats estimates how well a resume survives applicant tracking systems.
package ats

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/textnorm"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

const (
	formattingWeight = 0.25
	contentWeight    = 0.30
	keywordsWeight   = 0.20
	contactWeight    = 0.15
	sectionsWeight   = 0.10

	suggestionThreshold = 70.0

	GradeExcellent        = "Excellent"
	GradeGood             = "Good"
	GradeAverage          = "Average"
	GradeNeedsImprovement = "Needs Improvement"
	GradeError            = "Error"

	DefaultIndustry = "default"
)

var (
	phonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`github\.com/[\w-]+`)
	yearPattern     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	metricPattern   = regexp.MustCompile(`\b\d+%|\$\d+|\d+\+|\d+x\b`)

	requiredSections  = []string{"experience", "education", "skills"}
	preferredSections = []string{"summary", "projects", "certifications", "achievements"}
	experienceWords   = []string{"experience", "work", "employment", "career"}
	sectionHeaders    = []string{"experience", "education", "skills", "summary", "objective"}

	actionVerbs = []string{
		"achieved", "developed", "implemented", "managed", "led", "created",
		"designed", "built", "improved", "increased", "reduced", "optimized",
		"collaborated", "coordinated", "delivered", "executed", "facilitated",
	}
	quantifiers = []string{
		"increased", "decreased", "improved", "reduced", "saved", "generated",
		"managed", "led", "supervised", "trained", "mentored",
	}
	techKeywords = []string{"python", "java", "sql", "machine learning", "data analysis", "project management"}

	bulletMarkers = []string{"•", "-", "*", "◦"}
)

// Benchmark holds the grade thresholds of one industry.
type Benchmark struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Average   float64 `json:"average"`
}

var benchmarks = map[string]Benchmark{
	"technology": {Excellent: 85, Good: 70, Average: 55},
	"finance":    {Excellent: 80, Good: 65, Average: 50},
	"healthcare": {Excellent: 82, Good: 67, Average: 52},
	"education":  {Excellent: 78, Good: 63, Average: 48},
	"marketing":  {Excellent: 80, Good: 65, Average: 50},
	"default":    {Excellent: 80, Good: 65, Average: 50},
}

// BenchmarkFor returns the thresholds of industry, or the default ones.
func BenchmarkFor(industry string) Benchmark {
	if b, ok := benchmarks[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return b
	}
	return benchmarks[DefaultIndustry]
}

// Grade maps score onto the benchmark tiers.
func (b Benchmark) Grade(score float64) string {
	switch {
	case score >= b.Excellent:
		return GradeExcellent
	case score >= b.Good:
		return GradeGood
	case score >= b.Average:
		return GradeAverage
	default:
		return GradeNeedsImprovement
	}
}

// Scores are the five sub-scores, each in [0, 100].
type Scores struct {
	Formatting float64 `json:"formatting"`
	Content    float64 `json:"content"`
	Keywords   float64 `json:"keywords"`
	Contact    float64 `json:"contact"`
	Sections   float64 `json:"sections"`
}

// Total combines the sub-scores with their fixed weights.
func (s Scores) Total() float64 {
	return s.Formatting*formattingWeight +
		s.Content*contentWeight +
		s.Keywords*keywordsWeight +
		s.Contact*contactWeight +
		s.Sections*sectionsWeight
}

// Report is the ATS analysis of one resume.
type Report struct {
	ATSScore    float64   `json:"ats_score"`
	Grade       string    `json:"ats_grade"`
	Benchmark   Benchmark `json:"industry_benchmark"`
	Detailed    Scores    `json:"detailed_scores"`
	Suggestions []string  `json:"suggestions"`
	Industry    string    `json:"industry"`
}

// Analyzer computes ATS reports.
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

// Analyze scores resume for ATS compatibility, graded against the benchmark
// of industry. It never fails: an unexpected error yields a zero report with
// the Error grade.
func (a *Analyzer) Analyze(resume, industry string) Report {
	if industry == "" {
		industry = DefaultIndustry
	}

	report, err := analyze(resume, industry)
	if err != nil {
		a.logger.Error("calculating ats score", zap.Error(err))
		return Report{
			Grade:       GradeError,
			Benchmark:   benchmarks[DefaultIndustry],
			Suggestions: []string{"Error in ATS analysis"},
			Industry:    industry,
		}
	}
	return report
}

func analyze(resume, industry string) (report Report, err error) {
	defer fault.Recover("ats score", &err)

	lines := textnorm.Lines(resume)
	lower := strings.ToLower(resume)
	years := yearPattern.FindAllString(resume, -1)

	scores := Scores{
		Formatting: FormattingScore(lines, resume),
		Content:    ContentScore(lower),
		Keywords:   KeywordScore(lower),
		Contact:    ContactScore(resume),
		Sections:   SectionScore(lower, lines, years),
	}

	total := scores.Total()
	bench := BenchmarkFor(industry)

	return Report{
		ATSScore:    utils.Round(total, 1),
		Grade:       bench.Grade(total),
		Benchmark:   bench,
		Detailed:    scores,
		Suggestions: Suggestions(scores),
		Industry:    industry,
	}, nil
}

// FormattingScore rewards a resume with enough lines, bullets, header lines,
// dated entries and quantified results. lines must be the trimmed non-empty lines.
func FormattingScore(lines []string, resume string) float64 {
	score := 0.0

	if len(lines) >= 10 {
		score += 20
	}

	bullets, headers := 0, 0
	for _, line := range lines {
		if hasAnyPrefix(line, bulletMarkers) {
			bullets++
		}
		if textnorm.IsUpper(line) && len([]rune(line)) > 3 {
			headers++
		}
	}
	if bullets >= 5 {
		score += 20
	}
	if headers >= 3 {
		score += 20
	}

	if len(yearPattern.FindAllString(resume, -1)) >= 2 {
		score += 20
	}
	if len(metricPattern.FindAllString(resume, -1)) >= 3 {
		score += 20
	}

	return utils.Clamp(score, 0, 100)
}

// ContentScore measures section completeness of the lower-cased resume.
func ContentScore(lower string) float64 {
	score := 40*fraction(lower, requiredSections) + 30*fraction(lower, preferredSections)
	if countContained(lower, experienceWords) > 0 {
		score += 30
	}
	return utils.Clamp(score, 0, 100)
}

// KeywordScore rewards action verbs, quantifier words and common technical
// keywords in the lower-cased resume.
func KeywordScore(lower string) float64 {
	score := min(5*float64(countContained(lower, actionVerbs)), 40)
	score += min(5*float64(countContained(lower, quantifiers)), 30)
	score += min(3*float64(countContained(lower, techKeywords)), 30)
	return utils.Clamp(score, 0, 100)
}

// ContactScore gives 25 points for each of phone, email, LinkedIn and GitHub.
func ContactScore(resume string) float64 {
	score := 0.0
	for _, p := range []*regexp.Regexp{phonePattern, emailPattern, linkedinPattern, githubPattern} {
		if p.MatchString(resume) {
			score += 25
		}
	}
	return score
}

// SectionScore rewards header keywords, a dated timeline and length.
func SectionScore(lower string, lines, years []string) float64 {
	score := min(15*float64(countContained(lower, sectionHeaders)), 60)

	if len(years) >= 2 && yearSpan(years) > 0 {
		score += 20
	}
	if len(lines) > 10 {
		score += 20
	}

	return utils.Clamp(score, 0, 100)
}

// Suggestions returns one message per sub-score below 70, or a single
// congratulation when none is.
func Suggestions(s Scores) []string {
	var out []string
	if s.Formatting < suggestionThreshold {
		out = append(out, "Improve resume formatting with consistent bullet points and clear section headers")
	}
	if s.Content < suggestionThreshold {
		out = append(out, "Add missing sections like Experience, Education, and Skills")
	}
	if s.Keywords < suggestionThreshold {
		out = append(out, "Include more action verbs and quantified achievements")
	}
	if s.Contact < suggestionThreshold {
		out = append(out, "Add complete contact information including phone, email, and LinkedIn")
	}
	if s.Sections < suggestionThreshold {
		out = append(out, "Organize content into clear sections with proper headers")
	}
	if len(out) == 0 {
		out = append(out, "Your resume has excellent ATS compatibility!")
	}
	return out
}

// Summary aggregates ATS scores across several resumes.
type Summary struct {
	Average      float64      `json:"average_score"`
	Highest      float64      `json:"highest_score"`
	Lowest       float64      `json:"lowest_score"`
	Distribution Distribution `json:"score_distribution"`
}

// Distribution counts resumes per fixed score band.
type Distribution struct {
	Excellent        int `json:"excellent"`
	Good             int `json:"good"`
	Average          int `json:"average"`
	NeedsImprovement int `json:"needs_improvement"`
}

// Compare summarizes reports. An empty input yields an empty summary.
func Compare(reports []Report) Summary {
	if len(reports) == 0 {
		return Summary{}
	}

	s := Summary{Highest: reports[0].ATSScore, Lowest: reports[0].ATSScore}
	sum := 0.0
	for _, r := range reports {
		score := r.ATSScore
		sum += score
		s.Highest = max(s.Highest, score)
		s.Lowest = min(s.Lowest, score)

		switch {
		case score >= 85:
			s.Distribution.Excellent++
		case score >= 70:
			s.Distribution.Good++
		case score >= 55:
			s.Distribution.Average++
		default:
			s.Distribution.NeedsImprovement++
		}
	}
	s.Average = sum / float64(len(reports))

	return s
}

func fraction(lower string, words []string) float64 {
	return float64(countContained(lower, words)) / float64(len(words))
}

func countContained(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func yearSpan(years []string) int {
	lo, hi := 0, 0
	for i, y := range years {
		v, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return hi - lo
}
