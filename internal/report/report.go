// Package report renders scored records for the terminal and for export.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spigell/resume-scorer/internal/analysis"
	"github.com/spigell/resume-scorer/internal/comparison"
)

// CSVHeader is the first row written by CSV.
var CSVHeader = []string{"name", "final_score", "hard_pct", "soft_pct", "verdict", "missing_skills", "feedback"}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes one row per record.
func Table(w io.Writer, records []analysis.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("Resume", "Final", "Hard", "Soft", "Verdict", "Missing skills")

	for _, rec := range records {
		err := table.Append(
			rec.Name,
			score(rec.FinalScore),
			score(rec.HardPct),
			score(rec.SoftPct),
			string(rec.Verdict),
			strings.Join(rec.MissingSkills, ", "),
		)
		if err != nil {
			return fmt.Errorf("append %s: %w", rec.Name, err)
		}
	}

	return table.Render()
}

// RankingTable writes the ranked candidates of a comparison report.
func RankingTable(w io.Writer, report comparison.Report) error {
	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Resume", "Final", "Hard", "Soft", "Verdict")

	for _, r := range report.Rankings {
		err := table.Append(
			strconv.Itoa(r.Rank),
			r.Name,
			score(r.FinalScore),
			score(r.HardPct),
			score(r.SoftPct),
			string(r.Verdict),
		)
		if err != nil {
			return fmt.Errorf("append %s: %w", r.Name, err)
		}
	}

	return table.Render()
}

// CSV writes records with CSVHeader as the first row.
func CSV(w io.Writer, records []analysis.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.Name,
			score(rec.FinalScore),
			score(rec.HardPct),
			score(rec.SoftPct),
			string(rec.Verdict),
			strings.Join(rec.MissingSkills, "; "),
			rec.Feedback,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// DumpToTmpFile creates a temporary file matching pattern, fills it with
// write and returns its name.
func DumpToTmpFile(pattern string, write func(io.Writer) error) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := write(file); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
