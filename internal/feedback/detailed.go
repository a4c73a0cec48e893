package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/utils"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed summary_prompt.md
var summaryPromptTemplate string

const (
	summaryJDExcerpt   = 300
	summaryMaxTokens   = 200
	summaryTemperature = 0.2
	maxSuggestions     = 3
)

const summarySchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": "array", "items": {"type": "string"}},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "weaknesses": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	summarySchemaLoader = gojsonschema.NewStringLoader(summarySchema)

	suggestionTech  = []string{"python", "java", "sql", "machine learning"}
	suggestionTools = []string{"git", "docker", "aws", "kubernetes"}
)

// Summary is the AI description of a candidate.
type Summary struct {
	Summary    []string `json:"summary" mapstructure:"summary"`
	Strengths  []string `json:"strengths" mapstructure:"strengths"`
	Weaknesses []string `json:"weaknesses" mapstructure:"weaknesses"`
}

// Detailed is the extended feedback for one resume.
type Detailed struct {
	OneLine     string   `json:"one_line"`
	Summary     []string `json:"summary"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// Detailed returns the one-line feedback, an AI summary when available and
// deterministic improvement suggestions.
func (g *Generator) Detailed(ctx context.Context, jd, resume string, score scoring.Result) Detailed {
	out := Detailed{
		OneLine:     g.Feedback(ctx, jd, resume, score.MissingSkills),
		Summary:     []string{},
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: Suggestions(score.MissingSkills, score.FinalScore),
	}

	summary, err := g.summarize(ctx, jd, resume)
	if err != nil {
		if !errors.Is(err, ai.ErrUnconfigured) {
			g.logger.Warn("ai summary failed", zap.Error(err))
		}
		return out
	}

	out.Summary = nonNil(summary.Summary)
	out.Strengths = nonNil(summary.Strengths)
	out.Weaknesses = nonNil(summary.Weaknesses)
	return out
}

func (g *Generator) summarize(ctx context.Context, jd, resume string) (summary Summary, err error) {
	defer fault.Recover("summarize resume", &err)

	if g.ai == nil {
		return Summary{}, ai.ErrUnconfigured
	}

	prompt := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", utils.Excerpt(jd, summaryJDExcerpt),
		"{{RESUME}}", utils.Excerpt(resume, excerptLength),
	).Replace(summaryPromptTemplate)

	raw, err := g.ai.Generate(ctx, prompt, ai.GenerateOptions{MaxTokens: summaryMaxTokens, Temperature: summaryTemperature})
	if err != nil {
		if errors.Is(err, ai.ErrUnconfigured) {
			return Summary{}, err
		}
		return Summary{}, fault.Service("generate summary", err)
	}

	cleaned := ai.ExtractJSON(raw)
	result, err := gojsonschema.Validate(summarySchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return Summary{}, fault.Service("parse summary", err)
	}
	if !result.Valid() {
		return Summary{}, fault.Service("parse summary", fmt.Errorf("summary does not match schema: %v", result.Errors()))
	}

	data, err := ai.DecodeObject(cleaned)
	if err != nil {
		return Summary{}, fault.Service("parse summary", err)
	}
	if err := mapstructure.Decode(data, &summary); err != nil {
		return Summary{}, fault.Service("decode summary", err)
	}
	return summary, nil
}

// Suggestions lists up to three improvement suggestions derived from the
// final score and the missing skills.
func Suggestions(missing []string, finalScore float64) []string {
	var out []string

	switch {
	case finalScore < 30:
		out = append(out, "Consider a complete resume overhaul focusing on relevant skills and experience")
	case finalScore < 60:
		out = append(out, "Add more relevant projects and quantify your achievements")
	}

	if len(missing) > 0 {
		var tech, tools, soft []string
		for _, skill := range missing {
			lower := strings.ToLower(skill)
			isTech := containsAny(lower, suggestionTech)
			isTool := containsAny(lower, suggestionTools)
			if isTech {
				tech = append(tech, skill)
			}
			if isTool {
				tools = append(tools, skill)
			}
			if !isTech && !isTool {
				soft = append(soft, skill)
			}
		}

		if len(tech) > 0 {
			out = append(out, fmt.Sprintf("Complete online courses in %s and build projects", strings.Join(head(tech, 2), ", ")))
		}
		if len(tools) > 0 {
			out = append(out, fmt.Sprintf("Get hands-on experience with %s through personal projects", strings.Join(head(tools, 2), ", ")))
		}
		if len(soft) > 0 {
			out = append(out, fmt.Sprintf("Highlight %s with specific examples and metrics", strings.Join(head(soft, 2), ", ")))
		}
	}

	if len(out) == 0 {
		out = append(out, "Add more specific achievements and quantify your impact")
	}

	return head(out, maxSuggestions)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
