// Package skills derives skill requirements from job descriptions and skill
// sets from resumes.
package skills

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/catalog"
	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/textnorm"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	aiMaxTokens   = 300
	aiTemperature = 0.2
	maxLogLength  = 200
)

// Extractor pulls skills out of free text. The generator is optional; without
// it only the deterministic keyword path is used.
type Extractor struct {
	catalog   *catalog.Catalog
	generator ai.Generator
	logger    *zap.Logger
}

// NewExtractor creates an Extractor. A nil catalog selects catalog.Default.
func NewExtractor(c *catalog.Catalog, generator ai.Generator, logger *zap.Logger) *Extractor {
	if c == nil {
		c = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{catalog: c, generator: generator, logger: logger}
}

// Catalog returns the catalog used by the extractor.
func (e *Extractor) Catalog() *catalog.Catalog {
	return e.catalog
}

// ExtractRequirements derives must-have and good-to-have skills from a job
// description. It never fails: an AI failure falls back to keyword matching
// and an unexpected error yields an empty requirement.
func (e *Extractor) ExtractRequirements(ctx context.Context, jd string) Requirement {
	req, err := e.requirements(ctx, jd)
	if err != nil {
		e.logger.Error("extracting requirements", zap.Error(err))
		return Requirement{MustHave: []string{}, GoodToHave: []string{}}
	}
	return req
}

func (e *Extractor) requirements(ctx context.Context, jd string) (req Requirement, err error) {
	defer fault.Recover("extract requirements", &err)

	if strings.TrimSpace(jd) == "" {
		return Requirement{MustHave: []string{}, GoodToHave: []string{}}, nil
	}

	if e.generator != nil {
		req, err := e.extractWithAI(ctx, jd)
		if err == nil {
			e.logger.Debug("requirements extracted with ai",
				zap.Strings("must_have", req.MustHave),
				zap.Strings("good_to_have", req.GoodToHave),
			)
			return req, nil
		}
		if errors.Is(err, ai.ErrUnconfigured) {
			e.logger.Debug("ai extraction skipped", zap.String("reason", "not configured"))
		} else {
			e.logger.Warn("ai extraction failed, falling back to keyword matching", zap.Error(err))
		}
	}

	return e.KeywordRequirements(jd), nil
}

func (e *Extractor) extractWithAI(ctx context.Context, jd string) (Requirement, error) {
	prompt := strings.ReplaceAll(promptTemplate, "{{JOB_DESCRIPTION}}", jd)

	raw, err := e.generator.Generate(ctx, prompt, ai.GenerateOptions{MaxTokens: aiMaxTokens, Temperature: aiTemperature})
	if err != nil {
		if errors.Is(err, ai.ErrUnconfigured) {
			return Requirement{}, err
		}
		return Requirement{}, fault.Service("generate requirements", err)
	}

	e.logger.Debug("ai requirements response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
	)

	req, err := parseRequirement(raw)
	if err != nil {
		return Requirement{}, fault.Service("parse requirements", err)
	}
	return req, nil
}

// KeywordRequirements is the deterministic extraction path: catalog and
// pattern matching followed by sentence-level cue classification.
func (e *Extractor) KeywordRequirements(jd string) Requirement {
	candidates := e.candidates(jd)

	mustHave := []string{}
	goodToHave := []string{}

	for _, sentence := range textnorm.Sentences(jd) {
		lower := strings.ToLower(sentence)
		isMust := containsAny(lower, mustHaveCues)
		isGood := containsAny(lower, goodToHaveCues)
		if !isMust && !isGood {
			continue
		}

		for _, skill := range candidates {
			if !strings.Contains(lower, strings.ToLower(skill)) {
				continue
			}
			if isMust && !isGood {
				mustHave = appendUnique(mustHave, skill)
			} else {
				goodToHave = appendUnique(goodToHave, skill)
			}
		}
	}

	if len(mustHave) == 0 && len(goodToHave) == 0 {
		mustHave = append(mustHave, window(candidates, 0, MaxMustHave)...)
		goodToHave = append(goodToHave, window(candidates, MaxMustHave, MaxMustHave+MaxGoodToHave)...)
	}

	if len(mustHave) < 3 {
		for _, skill := range placeholderSkills {
			if len(mustHave) >= MaxMustHave {
				break
			}
			mustHave = appendUnique(mustHave, skill)
		}
	}

	return Requirement{MustHave: mustHave, GoodToHave: goodToHave}.truncate()
}

func (e *Extractor) candidates(text string) []string {
	found := e.catalog.Match(text)
	found = append(found, additionalKeywords(text)...)
	return dedupe(found)
}

// ExtractResumeSkills returns the title-cased catalog skills mentioned in a
// resume. It never fails; an unexpected error yields an empty list.
func (e *Extractor) ExtractResumeSkills(resume string) []string {
	found, err := e.resumeSkills(resume)
	if err != nil {
		e.logger.Error("extracting resume skills", zap.Error(err))
		return []string{}
	}
	return found
}

func (e *Extractor) resumeSkills(resume string) (found []string, err error) {
	defer fault.Recover("extract resume skills", &err)

	found = e.catalog.Match(resume)
	if found == nil {
		found = []string{}
	}
	return found, nil
}

func window(list []string, from, to int) []string {
	if from >= len(list) {
		return nil
	}
	if to > len(list) {
		to = len(list)
	}
	return list[from:to]
}
