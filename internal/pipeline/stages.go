package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/resume-scorer/internal/analysis"
	"go.uber.org/zap"
)

// Stage is a single analysis step applied to one resume.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	// Applies reports whether the stage runs in the given mode.
	Applies(mode analysis.Mode) bool
	Apply(ctx context.Context, deps Deps, job *Job) error
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status(opts Options) Status
}

// switchable carries the enable state shared by every stage.
type switchable struct {
	disabled bool
	reason   string
}

func (s *switchable) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *switchable) IsEnabled() bool { return !s.disabled }

// DefaultStages returns the stages in execution order.
func DefaultStages() []Stage {
	return []Stage{
		&scoreStage{},
		&feedbackStage{},
		&atsStage{},
		&performanceStage{},
		&strengthStage{},
	}
}

// DisableByName marks the stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Describe returns status entries for stages under opts.
func Describe(stages []Stage, opts Options) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		status := Status{Name: stage.Name(), Enabled: stage.IsEnabled()}
		if reporter, ok := stage.(statusProvider); ok {
			status = reporter.Status(opts)
		}
		if status.Enabled && !stage.Applies(opts.Mode) {
			status.Enabled = false
			status.Reason = fmt.Sprintf("not used in %s mode", opts.Mode)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

type scoreStage struct{ switchable }

func (s *scoreStage) Name() string { return "score" }

func (s *scoreStage) Applies(analysis.Mode) bool { return true }

func (s *scoreStage) Apply(ctx context.Context, deps Deps, job *Job) error {
	if deps.Scorer == nil {
		return fmt.Errorf("scorer is required")
	}
	job.Record.Result = deps.Scorer.Score(ctx, job.JD, job.Resume, job.Requirement, job.Options.Weights)

	deps.Logger.Info("resume scored",
		zap.Float64("final_score", job.Record.FinalScore),
		zap.String("verdict", string(job.Record.Verdict)),
		zap.Strings("missing_skills", job.Record.MissingSkills),
	)
	return nil
}

func (s *scoreStage) Status(opts Options) Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{
			"hard_weight": strconv.FormatFloat(opts.Weights.Hard, 'f', 2, 64),
			"soft_weight": strconv.FormatFloat(opts.Weights.Soft, 'f', 2, 64),
		},
	}
}

type feedbackStage struct{ switchable }

func (s *feedbackStage) Name() string { return "feedback" }

func (s *feedbackStage) Applies(analysis.Mode) bool { return true }

func (s *feedbackStage) Apply(ctx context.Context, deps Deps, job *Job) error {
	if deps.Feedback == nil {
		return fmt.Errorf("feedback generator is required")
	}

	if job.Options.Detailed {
		details := deps.Feedback.Detailed(ctx, job.JD, job.Resume, job.Record.Result)
		job.Record.Details = &details
		job.Record.Feedback = details.OneLine
		return nil
	}

	job.Record.Feedback = deps.Feedback.Feedback(ctx, job.JD, job.Resume, job.Record.MissingSkills)
	return nil
}

func (s *feedbackStage) Status(opts Options) Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"detailed": strconv.FormatBool(opts.Detailed)},
	}
}

type atsStage struct{ switchable }

func (s *atsStage) Name() string { return "ats" }

func (s *atsStage) Applies(mode analysis.Mode) bool { return mode == analysis.ModeATS }

func (s *atsStage) Apply(_ context.Context, deps Deps, job *Job) error {
	if deps.ATS == nil {
		return fmt.Errorf("ats analyzer is required")
	}
	report := deps.ATS.Analyze(job.Resume, job.Options.Industry)
	job.Record.ATS = &report
	return nil
}

func (s *atsStage) Status(opts Options) Status {
	return industryStatus(s.Name(), &s.switchable, opts)
}

type performanceStage struct{ switchable }

func (s *performanceStage) Name() string { return "performance" }

func (s *performanceStage) Applies(mode analysis.Mode) bool { return mode == analysis.ModePerformance }

func (s *performanceStage) Apply(_ context.Context, deps Deps, job *Job) error {
	if deps.Performance == nil {
		return fmt.Errorf("performance predictor is required")
	}
	prediction := deps.Performance.Predict(job.Record.Result, job.Requirement, job.Options.Industry)
	job.Record.Performance = &prediction
	return nil
}

func (s *performanceStage) Status(opts Options) Status {
	return industryStatus(s.Name(), &s.switchable, opts)
}

type strengthStage struct{ switchable }

func (s *strengthStage) Name() string { return "strength" }

func (s *strengthStage) Applies(mode analysis.Mode) bool { return mode == analysis.ModeStrength }

func (s *strengthStage) Apply(_ context.Context, deps Deps, job *Job) error {
	if deps.Strength == nil {
		return fmt.Errorf("strength analyzer is required")
	}
	req := job.Requirement
	report := deps.Strength.Analyze(job.Resume, &req)
	job.Record.Strength = &report
	return nil
}

func industryStatus(name string, s *switchable, opts Options) Status {
	industry := opts.Industry
	if industry == "" {
		industry = "default"
	}
	return Status{
		Name:    name,
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"industry": industry},
	}
}
