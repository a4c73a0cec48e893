package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	responses []string
	err       error
	prompts   []string
	opts      []ai.GenerateOptions
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func TestFeedbackWithAI(t *testing.T) {
	stub := &stubGenerator{responses: []string{"  \"Build a Kafka pipeline demo in two weeks.\"\n"}}
	g := NewGenerator(stub, zap.NewNop())

	got := g.Feedback(context.Background(), "Need Kafka and Go", "Go developer", []string{"Kafka", "Go", "A", "B", "C", "D"})

	assert.Equal(t, "Build a Kafka pipeline demo in two weeks.", got)
	assert.Contains(t, stub.prompts[0], "Missing skills: Kafka, Go, A, B, C\n")
	assert.NotContains(t, stub.prompts[0], "{{")
	assert.Equal(t, ai.GenerateOptions{MaxTokens: 100, Temperature: 0.3}, stub.opts[0])
}

func TestFeedbackFallsBackToTemplate(t *testing.T) {
	tests := []struct {
		name string
		gen  ai.Generator
		warn bool
	}{
		{name: "no generator"},
		{name: "unconfigured", gen: &stubGenerator{err: ai.ErrUnconfigured}},
		{name: "service error", gen: &stubGenerator{err: errors.New("503 unavailable")}, warn: true},
		{name: "empty answer", gen: &stubGenerator{responses: []string{" '' "}}, warn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.WarnLevel)
			g := NewGenerator(tt.gen, zap.New(core))

			got := g.Feedback(context.Background(), "jd", "resume", []string{"Docker"})

			assert.Equal(t, TemplateFeedback([]string{"Docker"}), got)
			assert.Equal(t, tt.warn, observed.FilterMessage("ai feedback failed, using template").Len() == 1)
		})
	}
}

func TestTemplateFeedback(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		want    string
	}{
		{
			name: "nothing missing",
			want: "Your resume looks strong! Consider adding more specific achievements and metrics.",
		},
		{
			name:    "technical skill wins",
			missing: []string{"Leadership", "Docker", "Machine Learning"},
			want:    "Complete a 2-week project demonstrating Machine Learning and showcase it on GitHub with detailed documentation.",
		},
		{
			name:    "tool before soft skill",
			missing: []string{"Communication", "Jenkins"},
			want:    "Set up a personal project using Jenkins and document the process to demonstrate hands-on experience.",
		},
		{
			name:    "soft skill",
			missing: []string{"Stakeholder Management"},
			want:    "Add a section highlighting Stakeholder Management with specific examples from your experience and quantify your impact.",
		},
		{
			name:    "only first three considered",
			missing: []string{"Leadership", "Teamwork", "Negotiation", "Python"},
			want:    "Add a section highlighting Leadership with specific examples from your experience and quantify your impact.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TemplateFeedback(tt.missing))
		})
	}
}

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		missing []string
		score   float64
		want    []string
	}{
		{
			name:  "strong resume",
			score: 82,
			want:  []string{"Add more specific achievements and quantify your impact"},
		},
		{
			name:    "weak resume",
			missing: []string{"SQL", "Java", "Python"},
			score:   20,
			want: []string{
				"Consider a complete resume overhaul focusing on relevant skills and experience",
				"Complete online courses in SQL, Java and build projects",
			},
		},
		{
			name:    "capped at three",
			missing: []string{"Python", "Docker", "Leadership"},
			score:   50,
			want: []string{
				"Add more relevant projects and quantify your achievements",
				"Complete online courses in Python and build projects",
				"Get hands-on experience with Docker through personal projects",
			},
		},
		{
			name:    "soft skills only",
			missing: []string{"Leadership", "Communication", "Teamwork"},
			score:   70,
			want:    []string{"Highlight Leadership, Communication with specific examples and metrics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggestions(tt.missing, tt.score))
		})
	}
}

func TestDetailed(t *testing.T) {
	stub := &stubGenerator{responses: []string{
		"Add a Python project.",
		"```json\n{\"summary\": [\"5 years of Python\"], \"strengths\": [\"Backend\"], \"weaknesses\": [\"No cloud\"]}\n```",
	}}
	g := NewGenerator(stub, nil)
	score := scoring.Result{FinalScore: 55, MissingSkills: []string{"AWS"}}

	got := g.Detailed(context.Background(), "jd", "resume", score)

	assert.Equal(t, "Add a Python project.", got.OneLine)
	assert.Equal(t, []string{"5 years of Python"}, got.Summary)
	assert.Equal(t, []string{"Backend"}, got.Strengths)
	assert.Equal(t, []string{"No cloud"}, got.Weaknesses)
	assert.Equal(t, Suggestions(score.MissingSkills, score.FinalScore), got.Suggestions)
	assert.Equal(t, ai.GenerateOptions{MaxTokens: 200, Temperature: 0.2}, stub.opts[1])
}

func TestDetailedWithoutAI(t *testing.T) {
	g := NewGenerator(nil, nil)

	got := g.Detailed(context.Background(), "jd", "resume", scoring.Result{FinalScore: 90, MissingSkills: []string{}})

	assert.Equal(t, TemplateFeedback(nil), got.OneLine)
	assert.Empty(t, got.Summary)
	assert.NotNil(t, got.Summary)
	assert.Equal(t, []string{"Add more specific achievements and quantify your impact"}, got.Suggestions)
}

func TestDetailedRejectsMalformedSummary(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{responses: []string{"Do more.", `{"summary": "not a list"}`}}
	g := NewGenerator(stub, zap.New(core))

	got := g.Detailed(context.Background(), "jd", "resume", scoring.Result{})

	assert.Equal(t, "Do more.", got.OneLine)
	assert.Empty(t, got.Summary)
	assert.Equal(t, 1, observed.FilterMessage("ai summary failed").Len())
}
