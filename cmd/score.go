package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/pipeline"
	"github.com/spigell/resume-scorer/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// batchFlags maps config keys to the flags shared by score and compare.
var batchFlags = map[string]string{
	"analysis.mode":     "mode",
	"analysis.industry": "industry",
	"scoring.workers":   "workers",
}

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
)

var scoreCmd = &cobra.Command{
	Use:   "score RESUME...",
	Short: "Score resumes against a job description",
	Long: fmt.Sprintf("Score resumes against a job description.\n\nResumes and the job description are files or http(s) URLs. Supported file types: %s.",
		strings.Join(document.Supported(), ", ")),
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("jd", "", "job description file or URL")
	scoreCmd.Flags().StringP("mode", "m", "", "analysis mode: standard, ats, performance or strength")
	scoreCmd.Flags().StringP("industry", "i", "", "industry used by the ats and performance modes")
	scoreCmd.Flags().Float64("hard-weight", 0, "weight of the skill match; the semantic match gets the rest")
	scoreCmd.Flags().StringP("output", "o", OutputTable, "output format: table, json or csv")
	scoreCmd.Flags().IntP("workers", "w", 0, "number of resumes scored concurrently")
	scoreCmd.Flags().Bool("detailed", false, "add a summary with strengths, weaknesses and suggestions")
	scoreCmd.Flags().Bool("skip-feedback", false, "do not generate feedback")
}

func score(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	bindFlags(cmd, batchFlags)
	applyHardWeight(cmd)

	svc := setup(ctx)
	logger := svc.logger

	_, batch, err := runBatch(ctx, cmd, svc, args)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := write(os.Stdout, output, batch); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}

	if len(batch.Failures) > 0 {
		logger.Warn("some resumes were skipped", zap.Int("count", len(batch.Failures)))
	}
}

// runBatch reads the job description and scores every resume location.
// It returns the job description text with the batch.
func runBatch(ctx context.Context, cmd *cobra.Command, svc *services, locations []string) (string, pipeline.Batch, error) {
	location, _ := cmd.Flags().GetString("jd")
	jd, err := readJD(ctx, location, svc.logger)
	if err != nil {
		return "", pipeline.Batch{}, err
	}

	detailed, _ := cmd.Flags().GetBool("detailed")
	opts, err := svc.options(detailed)
	if err != nil {
		return "", pipeline.Batch{}, err
	}

	if skip, _ := cmd.Flags().GetBool("skip-feedback"); skip {
		pipeline.DisableByName(svc.runner.Stages(), "feedback", "disabled with --skip-feedback")
	}

	for _, status := range pipeline.Describe(svc.runner.Stages(), opts) {
		svc.logger.Debug("stage",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return jd, svc.runner.ScoreBatch(ctx, jd, sources(locations, svc.logger), opts), nil
}

// applyHardWeight turns --hard-weight into a complementary weight pair.
func applyHardWeight(cmd *cobra.Command) {
	flag := cmd.Flags().Lookup("hard-weight")
	if flag == nil || !flag.Changed {
		return
	}
	hard, _ := cmd.Flags().GetFloat64("hard-weight")
	viper.Set("scoring.hard-weight", hard)
	viper.Set("scoring.soft-weight", 1-hard)
}

func write(w io.Writer, output string, batch pipeline.Batch) error {
	switch output {
	case OutputJSON:
		return report.JSON(w, batch)
	case OutputCSV:
		return report.CSV(w, batch.Records)
	case OutputTable, "":
		return report.Table(w, batch.Records)
	default:
		return fmt.Errorf("invalid output format: %s", output)
	}
}
