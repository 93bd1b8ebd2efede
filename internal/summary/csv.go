package summary

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spboyer/siteselect/internal/models"
)

// CSVHeader is the header row of the selection table.
var CSVHeader = []string{"Location", "Impact", "Cost", "Selected"}

// DatasetCSVHeader is the header row of the dataset-mode selection table.
var DatasetCSVHeader = []string{"Hospital", "City", "Selected"}

// ToCSV renders one row per candidate in input order. A nil selection
// renders every row as not selected.
func ToCSV(instance *models.ProblemInstance, selection []int) (string, error) {
	if instance == nil {
		return "", fmt.Errorf("%w: no problem instance", models.ErrInvalidInput)
	}
	if selection != nil {
		if err := instance.CheckSelection(selection); err != nil {
			return "", err
		}
	}

	records := make([][]string, 0, instance.Len()+1)
	records = append(records, CSVHeader)
	for i, c := range instance.Candidates() {
		selected := selection != nil && selection[i] == 1
		records = append(records, []string{
			c.Name,
			FormatNumber(c.Impact),
			FormatNumber(c.Cost),
			strconv.FormatBool(selected),
		})
	}
	return writeRecords(records)
}

// DatasetCSV renders a dataset-mode summary. Row i is the i-th location.
func DatasetCSV(s *models.DatasetSummary) (string, error) {
	records := make([][]string, 0, len(s.Rows)+1)
	records = append(records, DatasetCSVHeader)
	for _, r := range s.Rows {
		city := r.City
		if city == "" {
			city = "N/A"
		}
		records = append(records, []string{r.Location, city, strconv.FormatBool(r.Selected)})
	}
	return writeRecords(records)
}

func writeRecords(records [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("csv: write: %w", err)
	}
	return sb.String(), nil
}
