package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-scorer"
)

type Config struct {
	Scoring    *ScoringConfig    `mapstructure:"scoring" validate:"required"`
	Analysis   *AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	AI         *AIConfig         `mapstructure:"ai" validate:"required"`
	Embeddings *EmbeddingsConfig `mapstructure:"embeddings" validate:"required"`
	Catalog    *CatalogConfig    `mapstructure:"catalog"`
}

type ScoringConfig struct {
	HardWeight float64 `mapstructure:"hard-weight" validate:"gte=0,lte=1"`
	SoftWeight float64 `mapstructure:"soft-weight" validate:"gte=0,lte=1"`
	Workers    int     `mapstructure:"workers" validate:"gte=1"`
}

type AnalysisConfig struct {
	Mode     string `mapstructure:"mode" validate:"oneof=standard ats performance strength"`
	Industry string `mapstructure:"industry"`
}

type AIConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	APIKey         string        `mapstructure:"api-key" json:"-"`
	APIKeyFile     string        `mapstructure:"api-key-file"`
	BaseURL        string        `mapstructure:"base-url" validate:"omitempty,url"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding-model"`
	MaxRetries     int           `mapstructure:"max-retries" validate:"gte=1,lte=10"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxLogLength   int           `mapstructure:"max-log-length" validate:"gte=0"`
}

type EmbeddingsConfig struct {
	LocalModel string `mapstructure:"local-model"`
	ModelsDir  string `mapstructure:"models-dir"`
	Dimension  int    `mapstructure:"dimension" validate:"gte=0"`
}

type CatalogConfig struct {
	File string `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-scorer rates resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.api-key":      "RESUME_SCORER_AI_API_KEY",
		"ai.base-url":     "RESUME_SCORER_AI_BASE_URL",
		"ai.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("scoring.hard-weight", 0.6)
	viper.SetDefault("scoring.soft-weight", 0.4)
	viper.SetDefault("scoring.workers", 1)
	viper.SetDefault("analysis.mode", "standard")
	viper.SetDefault("analysis.industry", "default")
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.max-retries", 3)
	viper.SetDefault("ai.timeout", 30*time.Second)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("embeddings.dimension", 384)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file the defaults and environment are enough.
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
	}
}

// bindFlags binds command flags to config keys. Commands sharing a key bind
// it when they run, so the flag of the running command wins.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			log.Fatalf("binding --%s flag: %v", name, err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the value ranges of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
