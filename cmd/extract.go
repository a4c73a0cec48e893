package cmd

import (
	"context"
	"os"

	"github.com/spigell/resume-scorer/internal/document"
	"github.com/spigell/resume-scorer/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the skill requirements of a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("jd", "", "job description file or URL")
	extractCmd.Flags().String("save", "", "directory to save the extracted job description text to")
}

func extract(cmd *cobra.Command) {
	ctx := context.Background()

	svc := setup(ctx)
	logger := svc.logger

	location, _ := cmd.Flags().GetString("jd")
	jd, err := readJD(ctx, location, logger)
	if err != nil {
		logger.Fatal("extracting", zap.Error(err))
	}

	if dir, _ := cmd.Flags().GetString("save"); dir != "" {
		filename, err := document.SaveText(dir, document.DisplayName(source(location, logger)), jd)
		if err != nil {
			logger.Fatal("saving extracted text", zap.Error(err))
		}
		logger.Info("saved extracted text", zap.String("filename", filename))
	}

	req := svc.runner.Prepare(ctx, jd)
	if err := report.JSON(os.Stdout, req); err != nil {
		logger.Fatal("writing requirements", zap.Error(err))
	}
}
