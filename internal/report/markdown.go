package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/summary"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders run as a Markdown document with the full candidate table.
func Markdown(run *models.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Optimization Results for %s\n\n", escape(run.Label))
	fmt.Fprintf(&b, "**Budget:** %s\n\n", escape(money(float64(run.Budget))))

	switch {
	case run.Summary != nil:
		writeGenericMarkdown(&b, run)
	case run.DatasetSummary != nil:
		writeDatasetMarkdown(&b, run.DatasetSummary)
	default:
		b.WriteString(noSolutionText + "\n")
	}
	return b.String()
}

// HTML renders Markdown(run) to an HTML fragment.
func HTML(run *models.Run) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(run)), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

func writeGenericMarkdown(b *strings.Builder, run *models.Run) {
	s := run.Summary
	if s.Status == models.StatusFailed {
		b.WriteString(noSolutionText + "\n")
		return
	}
	if s.Status == models.StatusNoneSelected {
		b.WriteString(noneSelectedText + "\n\n")
	}

	if run.Instance != nil {
		b.WriteString("| Location | Impact | Cost | Selected |\n")
		b.WriteString("|---|---:|---:|:---:|\n")
		for i, c := range run.Instance.Candidates() {
			mark := ""
			if s.Selection[i] == 1 {
				mark = "✓"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", escape(c.Name), summary.FormatNumber(c.Impact), escape(money(c.Cost)), mark)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "- **Total Cost:** %s\n", escape(money(s.TotalCost)))
	fmt.Fprintf(b, "- **Total Impact:** %s\n", summary.FormatNumber(s.TotalImpact))
	fmt.Fprintf(b, "- **Remaining Budget:** %s\n", escape(money(s.RemainingBudget)))
	fmt.Fprintf(b, "- **Budget Utilization:** %.1f%%\n", s.UtilizationPct)

	if c := s.Comparison; c != nil {
		fmt.Fprintf(b, "\n### %s vs %s\n\n", c.Label, c.PrimaryLabel)
		b.WriteString("| Method | Selection | Impact | Cost |\n|---|---|---:|---:|\n")
		fmt.Fprintf(b, "| %s | `%s` | %s | %s |\n", c.Label, joinSelection(c.Selection), summary.FormatNumber(c.TotalImpact), escape(money(c.TotalCost)))
		fmt.Fprintf(b, "| %s | `%s` | %s | %s |\n", c.PrimaryLabel, joinSelection(c.PrimarySelection), summary.FormatNumber(s.TotalImpact), escape(money(s.TotalCost)))
	}

	for _, w := range s.Warnings {
		fmt.Fprintf(b, "\n> **Warning:** %s\n", escape(w))
	}
}

func writeDatasetMarkdown(b *strings.Builder, s *models.DatasetSummary) {
	if s.Status == models.StatusFailed {
		b.WriteString(noSolutionText + "\n")
		return
	}
	if s.Status == models.StatusNoneSelected {
		b.WriteString(noneSelectedText + "\n\n")
	}

	b.WriteString("| Hospital | City | Selected |\n|---|---|:---:|\n")
	for _, r := range s.Rows {
		mark := ""
		if r.Selected {
			mark = "✓"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", escape(r.Location), escape(r.City), mark)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "- **Total Cost:** %s\n", escape(money(s.TotalCost)))
	fmt.Fprintf(b, "- **Total Impact:** %s\n", summary.FormatNumber(s.TotalImpact))
	b.WriteString(printer.Sprintf("- **Population Reached:** %d people\n", s.PopulationReached))
	fmt.Fprintf(b, "- **Budget Utilization:** %.1f%%\n", s.UtilizationPct)
	fmt.Fprintf(b, "- **Remaining Budget:** %s\n", escape(money(s.RemainingBudget)))
	if s.MethodUsed != "" {
		fmt.Fprintf(b, "- **Method Used:** %s\n", escape(s.MethodUsed))
	}
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "$", `\$`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
