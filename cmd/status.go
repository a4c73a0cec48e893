package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/pipeline"
	"github.com/spigell/resume-scorer/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type statusReport struct {
	AI     ai.Status         `json:"ai"`
	Check  *checkResult      `json:"check,omitempty"`
	Stages []pipeline.Status `json:"stages"`
}

type checkResult struct {
	Generate string `json:"generate"`
	Embed    string `json:"embed"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the ai configuration and the analysis stages",
	Run: func(cmd *cobra.Command, _ []string) {
		status(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("check", false, "call the ai service to verify the configuration")
}

func status(cmd *cobra.Command) {
	ctx := context.Background()

	svc := setup(ctx)
	logger := svc.logger

	opts, err := svc.options(false)
	if err != nil {
		logger.Fatal("reading analysis options", zap.Error(err))
	}

	out := statusReport{
		AI:     svc.client.Status(),
		Stages: pipeline.Describe(svc.runner.Stages(), opts),
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		_, genErr := svc.client.Generate(ctx, "Reply with the single word OK.", ai.GenerateOptions{MaxTokens: 5})
		_, embedErr := svc.client.Embed(ctx, []string{"status check"})
		out.Check = &checkResult{
			Generate: outcome(genErr),
			Embed:    outcome(embedErr),
		}
	}

	if err := report.JSON(os.Stdout, out); err != nil {
		logger.Fatal("writing status", zap.Error(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ai.ErrUnconfigured):
		return "not configured"
	default:
		return err.Error()
	}
}
