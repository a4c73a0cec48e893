package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/analysis"
	"github.com/spigell/resume-scorer/internal/ats"
	"github.com/spigell/resume-scorer/internal/catalog"
	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/embeddings"
	"github.com/spigell/resume-scorer/internal/feedback"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/performance"
	"github.com/spigell/resume-scorer/internal/pipeline"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/secrets"
	"github.com/spigell/resume-scorer/internal/skills"
	"github.com/spigell/resume-scorer/internal/strength"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// services holds every component built from the configuration.
type services struct {
	config     *Config
	logger     *zap.Logger
	client     *gemini.Client
	extractor  *skills.Extractor
	embeddings *embeddings.Provider
	runner     *pipeline.Runner
}

// setup builds the logger, reads the config and wires the components.
// Any failure here is fatal.
func setup(ctx context.Context) *services {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	weights := scoring.Weights{Hard: config.Scoring.HardWeight, Soft: config.Scoring.SoftWeight}
	if !weights.Balanced() {
		logger.Warn("scoring weights do not sum to 1",
			zap.Float64("hard_weight", weights.Hard),
			zap.Float64("soft_weight", weights.Soft),
		)
	}

	client, err := newAIClient(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai client", zap.Error(err))
	}

	var (
		generator ai.Generator
		embedder  ai.Embedder
	)
	if client.Configured() {
		generator, embedder = client, client
	}

	skillCatalog, err := catalog.LoadFile(configuredCatalog(config))
	if err != nil {
		logger.Fatal("loading skill catalog", zap.Error(err))
	}

	var models *embeddings.ModelCache
	if config.Embeddings.ModelsDir != "" {
		models = embeddings.NewModelCache(config.Embeddings.ModelsDir)
	}

	provider := embeddings.NewProvider(embedder, models, embeddings.Config{
		LocalModel: config.Embeddings.LocalModel,
		Dimension:  config.Embeddings.Dimension,
	}, logger)

	extractor := skills.NewExtractor(skillCatalog, generator, logger)

	deps := pipeline.Deps{
		Scorer:      scoring.NewScorer(extractor, provider, logger),
		Feedback:    feedback.NewGenerator(generator, logger),
		ATS:         ats.NewAnalyzer(logger),
		Performance: performance.NewPredictor(logger),
		Strength:    strength.NewAnalyzer(logger),
		Logger:      logger,
	}

	return &services{
		config:     config,
		logger:     logger,
		client:     client,
		extractor:  extractor,
		embeddings: provider,
		runner:     pipeline.NewRunner(extractor, deps, pipeline.DefaultStages(), config.Scoring.Workers),
	}
}

func newAIClient(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Client, error) {
	var apiKey string
	if cfg.Enabled {
		key, err := secrets.LoadOptional(secrets.Source{
			Name:  "ai api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.api-key-file or GEMINI_API_KEY_FILE)", err)
		}
		apiKey = key
	}

	if apiKey == "" {
		logger.Info("ai is not configured, using deterministic fallbacks")
	}

	return gemini.NewClient(ctx, gemini.Config{
		APIKey:         apiKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
		MaxRetries:     cfg.MaxRetries,
		Timeout:        cfg.Timeout,
		MaxLogLength:   cfg.MaxLogLength,
	}, logger)
}

func configuredCatalog(config *Config) string {
	if config.Catalog == nil {
		return ""
	}
	return config.Catalog.File
}

// options turns the analysis and scoring sections into pipeline options.
func (s *services) options(detailed bool) (pipeline.Options, error) {
	mode, err := analysis.ParseMode(s.config.Analysis.Mode)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Mode:     mode,
		Industry: s.config.Analysis.Industry,
		Weights:  scoring.Weights{Hard: s.config.Scoring.HardWeight, Soft: s.config.Scoring.SoftWeight},
		Detailed: detailed,
	}, nil
}

// source picks a URL source for http(s) locations and a file source otherwise.
func source(location string, logger *zap.Logger) document.Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return document.URLSource(location, logger)
	}
	return document.FileSource(location)
}

func sources(locations []string, logger *zap.Logger) []document.Source {
	out := make([]document.Source, 0, len(locations))
	for _, location := range locations {
		out = append(out, source(location, logger))
	}
	return out
}

// readJD extracts the job description text from a file or URL.
func readJD(ctx context.Context, location string, logger *zap.Logger) (string, error) {
	if location == "" {
		return "", fmt.Errorf("--jd is required")
	}
	text, err := document.Extract(ctx, source(location, logger))
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	return text, nil
}
