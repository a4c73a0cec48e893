package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spigell/resume-scorer/internal/ats"
	"github.com/spigell/resume-scorer/internal/comparison"
	"github.com/spigell/resume-scorer/internal/pipeline"
	"github.com/spigell/resume-scorer/internal/report"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptShowReport = "Show report"
	PromptExportCSV  = "Export CSV"
	PromptExportJSON = "Export JSON"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptExportCSV, PromptExportJSON, PromptExit},
}

// comparisonExport is the JSON document written by the export action.
type comparisonExport struct {
	Comparison comparison.Report          `json:"comparison"`
	Similarity comparison.SimilarityStats `json:"similarity"`
	ATS        *ats.Summary               `json:"ats_summary,omitempty"`
	Batch      pipeline.Batch             `json:"batch"`
}

var compareCmd = &cobra.Command{
	Use:   "compare RESUME...",
	Short: "Rank several resumes for one job description",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		compare(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("jd", "", "job description file or URL")
	compareCmd.Flags().StringP("mode", "m", "", "analysis mode: standard, ats, performance or strength")
	compareCmd.Flags().StringP("industry", "i", "", "industry used by the ats and performance modes")
	compareCmd.Flags().IntP("workers", "w", 0, "number of resumes scored concurrently")
	compareCmd.Flags().Bool("detailed", false, "add a summary with strengths, weaknesses and suggestions")
	compareCmd.Flags().Bool("skip-feedback", false, "do not generate feedback")
	compareCmd.Flags().BoolP("yes", "y", false, "print the ranking and exit without the interactive menu")
}

func compare(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	bindFlags(cmd, batchFlags)

	svc := setup(ctx)
	logger := svc.logger

	jd, batch, err := runBatch(ctx, cmd, svc, args)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	export := comparisonExport{
		Comparison: comparison.Compare(batch.Records, jd),
		Similarity: comparison.Similarity(ctx, svc.embeddings, batch.Texts),
		Batch:      batch,
	}
	export.Comparison.RunID = batch.RunID
	export.ATS = atsSummary(batch)

	if export.Comparison.Empty() {
		logger.Info("exiting", zap.String("reason", "no resumes could be scored"))
		return
	}

	if err := report.RankingTable(os.Stdout, export.Comparison); err != nil {
		logger.Fatal("writing ranking", zap.Error(err))
	}
	logger.Info("resume similarity",
		zap.Float64("average", export.Similarity.Average),
		zap.Float64("max", export.Similarity.Max),
		zap.Float64("min", export.Similarity.Min),
	)

	if export.ATS != nil {
		logger.Info("ats scores",
			zap.Float64("average", export.ATS.Average),
			zap.Float64("highest", export.ATS.Highest),
			zap.Float64("lowest", export.ATS.Lowest),
		)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		fmt.Fprint(os.Stdout, comparison.Render(export.Comparison))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, os.Stdout, export); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// atsSummary compares the ATS reports of a batch scored in the ats mode.
func atsSummary(batch pipeline.Batch) *ats.Summary {
	reports := make([]ats.Report, 0, len(batch.Records))
	for _, rec := range batch.Records {
		if rec.ATS != nil {
			reports = append(reports, *rec.ATS)
		}
	}
	if len(reports) == 0 {
		return nil
	}
	summary := ats.Compare(reports)
	return &summary
}

func handleAction(action string, logger *zap.Logger, out io.Writer, export comparisonExport) error {
	switch action {
	case PromptShowReport:
		_, err := fmt.Fprint(out, comparison.Render(export.Comparison))
		return err
	case PromptExportCSV:
		filename, err := report.DumpToTmpFile("resume_scores_*.csv", func(w io.Writer) error {
			return report.CSV(w, export.Batch.Records)
		})
		if err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("exported scores", zap.String("filename", filename))
		return nil
	case PromptExportJSON:
		filename, err := report.DumpToTmpFile("resume_comparison_*.json", func(w io.Writer) error {
			return report.JSON(w, export)
		})
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		logger.Info("exported comparison", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
