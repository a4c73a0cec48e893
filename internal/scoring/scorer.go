// Package scoring computes how well a resume matches a job description.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/embeddings"
	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

const (
	mustHaveWeight   = 0.7
	goodToHaveWeight = 0.3

	maxMissingSkills    = 5
	missingPadThreshold = 3
	missingPadCount     = 3
)

// Weights balances the hard (skill) and soft (semantic) match scores. The
// scorer does not normalize them; callers should keep Hard+Soft at 1.
type Weights struct {
	Hard float64 `json:"hard_weight" mapstructure:"hard-weight" validate:"gte=0,lte=1"`
	Soft float64 `json:"soft_weight" mapstructure:"soft-weight" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the 0.6/0.4 split.
func DefaultWeights() Weights {
	return Weights{Hard: 0.6, Soft: 0.4}
}

// Balanced reports whether the weights sum to one.
func (w Weights) Balanced() bool {
	return math.Abs(w.Hard+w.Soft-1) < 1e-9
}

// Result is the outcome of scoring one resume against one job description.
type Result struct {
	HardPct       float64  `json:"hard_pct"`
	SoftPct       float64  `json:"soft_pct"`
	FinalScore    float64  `json:"final_score"`
	Verdict       Verdict  `json:"verdict"`
	MissingSkills []string `json:"missing_skills"`
	HardWeight    float64  `json:"hard_weight"`
	SoftWeight    float64  `json:"soft_weight"`
}

// SoftMatcher embeds texts for the semantic part of the score.
type SoftMatcher interface {
	EmbedWithTier(ctx context.Context, texts []string) ([][]float64, embeddings.Tier)
}

// Scorer combines skill coverage and semantic similarity into one score.
type Scorer struct {
	extractor *skills.Extractor
	soft      SoftMatcher
	logger    *zap.Logger
}

// NewScorer creates a Scorer. A nil soft matcher makes the scorer use a direct
// TF-IDF comparison of the two texts.
func NewScorer(extractor *skills.Extractor, soft SoftMatcher, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = skills.NewExtractor(nil, nil, logger)
	}
	return &Scorer{extractor: extractor, soft: soft, logger: logger}
}

// Score rates resume against jd. It never fails: an unexpected error yields a
// zero result with a Low verdict.
func (s *Scorer) Score(ctx context.Context, jd, resume string, req skills.Requirement, w Weights) Result {
	res, err := s.score(ctx, jd, resume, req, w)
	if err != nil {
		s.logger.Error("scoring resume", zap.Error(err))
		return zeroResult(w)
	}
	return res
}

func zeroResult(w Weights) Result {
	return Result{
		Verdict:       VerdictLow,
		MissingSkills: []string{},
		HardWeight:    w.Hard,
		SoftWeight:    w.Soft,
	}
}

func (s *Scorer) score(ctx context.Context, jd, resume string, req skills.Requirement, w Weights) (res Result, err error) {
	defer fault.Recover("score", &err)

	if !w.Balanced() {
		s.logger.Warn("score weights do not sum to one", zap.Float64("hard_weight", w.Hard), zap.Float64("soft_weight", w.Soft))
	}

	var stats skills.MatchStats
	if strings.TrimSpace(resume) != "" {
		stats = skills.Match(s.extractor.ExtractResumeSkills(resume), req)
	}

	hard := HardScore(stats)
	soft := s.SoftScore(ctx, jd, resume)
	if math.IsNaN(hard) || math.IsNaN(soft) {
		return Result{}, fault.Internal("score", fmt.Errorf("non-numeric sub-score: hard=%v soft=%v", hard, soft))
	}

	final := utils.Round(w.Hard*hard+w.Soft*soft, 2)

	return Result{
		HardPct:       hard,
		SoftPct:       soft,
		FinalScore:    final,
		Verdict:       VerdictFor(final),
		MissingSkills: MissingSkills(stats),
		HardWeight:    w.Hard,
		SoftWeight:    w.Soft,
	}, nil
}

// HardScore weights must-have coverage at 0.7 and good-to-have coverage at
// 0.3, on a 0-100 scale.
func HardScore(stats skills.MatchStats) float64 {
	score := 100 * (mustHaveWeight*stats.MustHaveCoverage + goodToHaveWeight*stats.GoodToHaveCoverage)
	return utils.Clamp(score, 0, 100)
}

// SoftScore returns the semantic similarity of jd and resume on a 0-100
// scale. Both texts are embedded in one batch. When no embedding tier beyond
// the constant one is available, the texts are compared with TF-IDF directly.
func (s *Scorer) SoftScore(ctx context.Context, jd, resume string) float64 {
	if strings.TrimSpace(jd) == "" || strings.TrimSpace(resume) == "" {
		return 0
	}

	if s.soft != nil {
		vectors, tier := s.soft.EmbedWithTier(ctx, []string{jd, resume})
		if tier != embeddings.TierConstant && len(vectors) == 2 {
			return 100 * embeddings.Similarity(vectors[0], vectors[1])
		}
		s.logger.Debug("similarity provider unavailable, using direct tf-idf")
	}

	return 100 * embeddings.TFIDFSimilarity(jd, resume)
}

// MissingSkills lists the unmatched must-have skills, padded with up to three
// unmatched good-to-have skills when fewer than three must-haves are missing.
// At most five skills are returned.
func MissingSkills(stats skills.MatchStats) []string {
	missing := append([]string{}, stats.MissingMustHave...)
	if len(missing) < missingPadThreshold {
		pad := stats.MissingGoodToHave
		if len(pad) > missingPadCount {
			pad = pad[:missingPadCount]
		}
		missing = append(missing, pad...)
	}
	if len(missing) > maxMissingSkills {
		missing = missing[:maxMissingSkills]
	}
	return missing
}

// Coverage summarizes how much of a requirement a resume covers.
type Coverage struct {
	MustHave          float64 `json:"must_have_coverage"`
	GoodToHave        float64 `json:"good_to_have_coverage"`
	Total             float64 `json:"total_coverage"`
	MustHaveMatches   int     `json:"must_have_matches"`
	GoodToHaveMatches int     `json:"good_to_have_matches"`
}

// SkillCoverage computes coverage ratios of req by resumeSkills.
func SkillCoverage(resumeSkills []string, req skills.Requirement) Coverage {
	stats := skills.Match(resumeSkills, req)
	c := Coverage{
		MustHave:          stats.MustHaveCoverage,
		GoodToHave:        stats.GoodToHaveCoverage,
		MustHaveMatches:   len(stats.MustHaveMatches),
		GoodToHaveMatches: len(stats.GoodToHaveMatches),
	}
	if total := len(req.MustHave) + len(req.GoodToHave); total > 0 {
		c.Total = float64(c.MustHaveMatches+c.GoodToHaveMatches) / float64(total)
	}
	return c
}

// Normalize rescales score from [min, max] to [0, 100], clamping the result.
func Normalize(score, min, max float64) float64 {
	if max == min {
		return 0
	}
	return utils.Clamp((score-min)/(max-min)*100, 0, 100)
}
