package comparison

import (
	"fmt"
	"strings"
	"time"
)

const renderedCandidates = 5

// Render formats report as a markdown document with the top candidates,
// insights and recommendations.
func Render(report Report) string {
	var b strings.Builder

	b.WriteString("# Resume Comparison Report\n\n")
	if !report.ComparedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", report.ComparedAt.Format(time.RFC3339))
	}
	if report.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n\n", report.RunID)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total Resumes Analyzed: %d\n", report.TotalResumes)
	fmt.Fprintf(&b, "- Average Score: %.1f%%\n", report.Scores.Average)
	fmt.Fprintf(&b, "- Score Range: %.1f%% - %.1f%%\n", report.Scores.Lowest, report.Scores.Highest)

	if len(report.Rankings) > 0 {
		b.WriteString("\n## Top Candidates\n")
		for i, c := range report.Rankings {
			if i == renderedCandidates {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s\n", c.Rank, c.Name)
			fmt.Fprintf(&b, "   - Score: %.1f%%\n", c.FinalScore)
			fmt.Fprintf(&b, "   - Verdict: %s\n", c.Verdict)
			fmt.Fprintf(&b, "   - Hard Match: %.1f%%\n", c.HardPct)
			fmt.Fprintf(&b, "   - Soft Match: %.1f%%\n", c.SoftPct)
		}
	}

	writeList(&b, "Key Insights", report.Insights)
	writeList(&b, "Recommendations", report.Recommendations)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
