package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/report"
)

// Output formats accepted by --format.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatCSV, formatHTML, formatMarkdown:
		return nil
	}
	return fmt.Errorf("unsupported format %q: must be text, json, csv, html or markdown", format)
}

// runOutput is the JSON rendering of a run.
type runOutput struct {
	Run *models.Run `json:"run"`
	CSV string      `json:"csv"`
}

func writeRun(w io.Writer, run *models.Run, format string) error {
	switch format {
	case formatJSON:
		csvText, err := report.RunCSV(run)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runOutput{Run: run, CSV: csvText})
	case formatCSV:
		csvText, err := report.RunCSV(run)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, csvText)
		return err
	case formatHTML:
		html, err := report.HTML(run)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case formatMarkdown:
		_, err := io.WriteString(w, report.Markdown(run))
		return err
	default:
		_, err := fmt.Fprintln(w, report.RunText(run))
		return err
	}
}

func writeXLSXFile(path string, run *models.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.WriteXLSX(f, run); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}

// outcomeError maps a finished run to the command's exit status.
func outcomeError(run *models.Run) error {
	if run.Status() == models.StatusFailed {
		return &NoSolutionError{Message: "No optimal solution found within the given budget."}
	}
	return nil
}
