// Package feedback turns scoring gaps into improvement advice for a candidate.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	excerptLength  = 500
	promptSkills   = 5
	templateSkills = 3
	maxTokens      = 100
	temperature    = 0.3

	strongResume = "Your resume looks strong! Consider adding more specific achievements and metrics."
)

var (
	technicalKeywords = []string{"python", "java", "javascript", "sql", "machine learning", "data"}
	toolKeywords      = []string{"git", "docker", "aws", "kubernetes", "jenkins"}
)

// Generator writes feedback sentences. The AI generator is optional.
type Generator struct {
	ai     ai.Generator
	logger *zap.Logger
}

// NewGenerator creates a feedback Generator.
func NewGenerator(generator ai.Generator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{ai: generator, logger: logger}
}

// Feedback returns one actionable sentence for the candidate. The AI answer is
// preferred; any failure falls back to a template chosen by the missing skills.
func (g *Generator) Feedback(ctx context.Context, jd, resume string, missing []string) string {
	text, err := g.aiFeedback(ctx, jd, resume, missing)
	if err == nil {
		return text
	}

	if errors.Is(err, ai.ErrUnconfigured) {
		g.logger.Debug("ai feedback skipped", zap.String("reason", "not configured"))
	} else {
		g.logger.Warn("ai feedback failed, using template", zap.Error(err))
	}
	return TemplateFeedback(missing)
}

func (g *Generator) aiFeedback(ctx context.Context, jd, resume string, missing []string) (text string, err error) {
	defer fault.Recover("ai feedback", &err)

	if g.ai == nil {
		return "", ai.ErrUnconfigured
	}

	prompt := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", utils.Excerpt(jd, excerptLength),
		"{{RESUME}}", utils.Excerpt(resume, excerptLength),
		"{{MISSING_SKILLS}}", strings.Join(head(missing, promptSkills), ", "),
	).Replace(promptTemplate)

	raw, err := g.ai.Generate(ctx, prompt, ai.GenerateOptions{MaxTokens: maxTokens, Temperature: temperature})
	if err != nil {
		if errors.Is(err, ai.ErrUnconfigured) {
			return "", err
		}
		return "", fault.Service("generate feedback", err)
	}

	text = ai.StripQuotes(raw)
	if text == "" {
		return "", fault.Service("generate feedback", errors.New("empty feedback"))
	}
	return text, nil
}

// TemplateFeedback builds a deterministic sentence from the first three
// missing skills: technical skills win over tools, tools over everything else.
func TemplateFeedback(missing []string) string {
	if len(missing) == 0 {
		return strongResume
	}

	var technical, tools, soft []string
	for _, skill := range head(missing, templateSkills) {
		lower := strings.ToLower(skill)
		switch {
		case containsAny(lower, technicalKeywords):
			technical = append(technical, skill)
		case containsAny(lower, toolKeywords):
			tools = append(tools, skill)
		default:
			soft = append(soft, skill)
		}
	}

	switch {
	case len(technical) > 0:
		return fmt.Sprintf("Complete a 2-week project demonstrating %s and showcase it on GitHub with detailed documentation.", technical[0])
	case len(tools) > 0:
		return fmt.Sprintf("Set up a personal project using %s and document the process to demonstrate hands-on experience.", tools[0])
	default:
		return fmt.Sprintf("Add a section highlighting %s with specific examples from your experience and quantify your impact.", soft[0])
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func head(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
