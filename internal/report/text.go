// Package report renders run summaries for people: a plain text block for the
// terminal, Markdown/HTML for the web page and an .xlsx workbook of the table.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/summary"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	noSolutionText   = "No optimal solution found within the given budget."
	noneSelectedText = "Zero candidates selected."
)

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return "$" + summary.FormatNumber(v)
}

func joinSelection(sel []int) string {
	parts := make([]string, len(sel))
	for i, v := range sel {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Text renders a generic-mode summary. label is the criteria's display name.
func Text(s *models.Summary, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimization Results for %s\n", label)
	fmt.Fprintf(&b, "Budget: %s\n\n", money(s.Budget))

	switch s.Status {
	case models.StatusFailed:
		b.WriteString(noSolutionText)
		return b.String()
	case models.StatusNoneSelected:
		b.WriteString(noneSelectedText + "\n")
	default:
		b.WriteString("Selected Locations:\n")
		for _, c := range s.Selected {
			fmt.Fprintf(&b, "✓ %s - Impact: %s, Cost: %s\n", c.Name, summary.FormatNumber(c.Impact), money(c.Cost))
		}
	}

	fmt.Fprintf(&b, "\nTotal Cost: %s", money(s.TotalCost))
	fmt.Fprintf(&b, "\nTotal Impact: %s", summary.FormatNumber(s.TotalImpact))
	fmt.Fprintf(&b, "\nRemaining Budget: %s", money(s.RemainingBudget))
	fmt.Fprintf(&b, "\nBudget Utilization: %.1f%%", s.UtilizationPct)

	if c := s.Comparison; c != nil {
		fmt.Fprintf(&b, "\n\n%s vs %s Comparison:\n", c.Label, c.PrimaryLabel)
		fmt.Fprintf(&b, "%s Solution: %s (impact %s, cost %s)\n", c.Label, joinSelection(c.Selection),
			summary.FormatNumber(c.TotalImpact), money(c.TotalCost))
		fmt.Fprintf(&b, "%s Solution: %s (impact %s, cost %s)", c.PrimaryLabel, joinSelection(c.PrimarySelection),
			summary.FormatNumber(s.TotalImpact), money(s.TotalCost))
	}

	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s", w)
	}
	return b.String()
}

// DatasetText renders a dataset-mode summary.
func DatasetText(s *models.DatasetSummary, label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimization Results for %s\n", label)
	fmt.Fprintf(&b, "Budget: %s\n\n", money(s.Budget))

	switch s.Status {
	case models.StatusFailed:
		b.WriteString(noSolutionText)
		return b.String()
	case models.StatusNoneSelected:
		b.WriteString(noneSelectedText + "\n")
	default:
		b.WriteString("Selected Locations:\n")
		for _, r := range s.Rows {
			if !r.Selected {
				continue
			}
			if r.City != "" {
				fmt.Fprintf(&b, "✓ %s (%s)\n", r.Location, r.City)
			} else {
				fmt.Fprintf(&b, "✓ %s\n", r.Location)
			}
		}
	}

	fmt.Fprintf(&b, "\nTotal Cost: %s", money(s.TotalCost))
	fmt.Fprintf(&b, "\nTotal Impact: %s", summary.FormatNumber(s.TotalImpact))
	b.WriteString(printer.Sprintf("\nPopulation Reached: %d people", s.PopulationReached))
	fmt.Fprintf(&b, "\nBudget Utilization: %.1f%%", s.UtilizationPct)
	fmt.Fprintf(&b, "\nRemaining Budget: %s", money(s.RemainingBudget))
	if s.MethodUsed != "" {
		fmt.Fprintf(&b, "\nMethod Used: %s", s.MethodUsed)
	}
	return b.String()
}

// RunText renders whichever summary run carries.
func RunText(run *models.Run) string {
	if run.DatasetSummary != nil {
		return DatasetText(run.DatasetSummary, run.Label)
	}
	if run.Summary != nil {
		return Text(run.Summary, run.Label)
	}
	return noSolutionText
}

// RunCSV renders the selection-annotated table for run.
func RunCSV(run *models.Run) (string, error) {
	if run.DatasetSummary != nil {
		return summary.DatasetCSV(run.DatasetSummary)
	}
	if run.Summary != nil && run.Instance != nil {
		return summary.ToCSV(run.Instance, run.Summary.Selection)
	}
	return "", fmt.Errorf("run %s has no table", run.ID)
}
