// Package pipeline scores a batch of resumes against one job description.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/resume-scorer/internal/analysis"
	"github.com/spigell/resume-scorer/internal/ats"
	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/feedback"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/performance"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/spigell/resume-scorer/internal/strength"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Deps aggregates the components shared by every stage.
type Deps struct {
	Scorer      *scoring.Scorer
	Feedback    *feedback.Generator
	ATS         *ats.Analyzer
	Performance *performance.Predictor
	Strength    *strength.Analyzer
	Logger      *zap.Logger
}

// Options tune one run.
type Options struct {
	Mode     analysis.Mode
	Industry string
	Weights  scoring.Weights
	Detailed bool
}

// Job is the state of one resume moving through the stages.
type Job struct {
	JD          string
	Resume      string
	Requirement skills.Requirement
	Options     Options
	Record      analysis.Record
}

// Failure is a resume that could not be analyzed.
type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Batch is the outcome of scoring several resumes against one job description.
type Batch struct {
	RunID       string             `json:"run_id"`
	Requirement skills.Requirement `json:"requirement"`
	Records     []analysis.Record  `json:"records"`
	Failures    []Failure          `json:"failures"`
	// Texts holds the extracted text of each record, aligned with Records.
	Texts []string `json:"-"`
}

// Runner executes the analysis stages for every resume.
type Runner struct {
	extractor *skills.Extractor
	deps      Deps
	stages    []Stage
	workers   int
	logger    *zap.Logger
}

// NewRunner creates a Runner. workers below one are treated as one.
func NewRunner(extractor *skills.Extractor, deps Deps, stages []Stage, workers int) *Runner {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = skills.NewExtractor(nil, nil, deps.Logger)
	}
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		extractor: extractor,
		deps:      deps,
		stages:    stages,
		workers:   workers,
		logger:    deps.Logger,
	}
}

// Stages returns the configured stages.
func (r *Runner) Stages() []Stage {
	return r.stages
}

// Prepare extracts the skill requirement of jd.
func (r *Runner) Prepare(ctx context.Context, jd string) skills.Requirement {
	req := r.extractor.ExtractRequirements(ctx, jd)
	r.logger.Info("job requirements extracted",
		zap.Strings("must_have", req.MustHave),
		zap.Strings("good_to_have", req.GoodToHave),
	)
	return req
}

// ScoreOne runs every enabled stage that applies to opts.Mode on one resume.
// A failing stage is logged and skipped; the record is always returned.
func (r *Runner) ScoreOne(ctx context.Context, name, jd, resume string, req skills.Requirement, opts Options) analysis.Record {
	if opts.Mode == "" {
		opts.Mode = analysis.ModeStandard
	}

	log := logger.WithDocument(r.logger, name, string(opts.Mode))
	deps := r.deps
	deps.Logger = log

	job := &Job{
		JD:          jd,
		Resume:      resume,
		Requirement: req,
		Options:     opts,
		Record:      analysis.Record{Name: name, Mode: opts.Mode},
	}

	for _, stage := range r.stages {
		if !stage.IsEnabled() {
			log.Debug("stage disabled", zap.String("name", stage.Name()))
			continue
		}
		if !stage.Applies(opts.Mode) {
			continue
		}

		started := time.Now()
		if err := stage.Apply(ctx, deps, job); err != nil {
			log.Error("stage failed", zap.String("name", stage.Name()), zap.Error(err))
			continue
		}
		log.Debug("pipeline step",
			zap.String("name", stage.Name()),
			zap.Duration("took", time.Since(started)),
		)
	}

	if job.Record.MissingSkills == nil {
		job.Record.MissingSkills = []string{}
	}
	return job.Record
}

// ScoreBatch extracts every source and scores it against jd. Records keep
// the order of sources; sources that cannot be extracted become failures and
// never abort the batch.
func (r *Runner) ScoreBatch(ctx context.Context, jd string, sources []document.Source, opts Options) Batch {
	batch := Batch{
		RunID:    uuid.NewString(),
		Records:  []analysis.Record{},
		Failures: []Failure{},
		Texts:    []string{},
	}
	log := r.logger.With(zap.String("run_id", batch.RunID))

	if strings.TrimSpace(jd) == "" {
		log.Warn("job description is empty; every score will be zero")
	}
	batch.Requirement = r.Prepare(ctx, jd)

	records := make([]*analysis.Record, len(sources))
	texts := make([]string, len(sources))
	failures := make([]*Failure, len(sources))

	process := func(i int) {
		src := sources[i]
		name := document.DisplayName(src)

		if err := ctx.Err(); err != nil {
			failures[i] = &Failure{Name: name, Error: err.Error()}
			return
		}

		text, err := document.Extract(ctx, src)
		if err != nil {
			log.Warn("skipping resume", zap.String(logger.FieldDocument, name), zap.Error(err))
			failures[i] = &Failure{Name: name, Error: err.Error()}
			return
		}

		rec := r.ScoreOne(ctx, name, jd, text, batch.Requirement, opts)
		records[i] = &rec
		texts[i] = text
	}

	if r.workers == 1 || len(sources) < 2 {
		for i := range sources {
			process(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.workers)
		for i := range sources {
			g.Go(func() error {
				process(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i := range sources {
		switch {
		case records[i] != nil:
			batch.Records = append(batch.Records, *records[i])
			batch.Texts = append(batch.Texts, texts[i])
		case failures[i] != nil:
			batch.Failures = append(batch.Failures, *failures[i])
		}
	}

	log.Info("batch scored",
		zap.Int("resumes", len(sources)),
		zap.Int("scored", len(batch.Records)),
		zap.Int("failed", len(batch.Failures)),
		zap.Int("workers", r.workers),
	)

	return batch
}
