package report

import (
	"fmt"
	"io"

	"github.com/spboyer/siteselect/internal/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Selection"

// WriteXLSX writes run's selection table as a workbook to w.
func WriteXLSX(w io.Writer, run *models.Run) error {
	var (
		headers []string
		rows    [][]any
		marks   []bool
	)

	switch {
	case run.DatasetSummary != nil:
		headers = []string{"Hospital", "City", "Selected"}
		for _, r := range run.DatasetSummary.Rows {
			rows = append(rows, []any{r.Location, r.City, r.Selected})
			marks = append(marks, r.Selected)
		}
	case run.Instance != nil:
		headers = []string{"Location", "Impact", "Cost", "Selected"}
		var sel []int
		if run.Summary != nil {
			sel = run.Summary.Selection
		}
		for i, c := range run.Instance.Candidates() {
			selected := sel != nil && sel[i] == 1
			rows = append(rows, []any{c.Name, c.Impact, c.Cost, selected})
			marks = append(marks, selected)
		}
	default:
		return fmt.Errorf("run %s has no table", run.ID)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	selectedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C6F6D5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
		}
		if marks[r] {
			if err := f.SetRowStyle(sheetName, r+2, r+2, selectedStyle); err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
