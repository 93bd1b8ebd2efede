package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spboyer/siteselect/internal/models"
)

// Row represents a single CSV row with column name to value mapping.
// Column names are lower-cased and trimmed.
type Row map[string]string

// Accepted column names, lower-cased. The first match wins.
var (
	nameColumns   = []string{"location", "name", "hospital", "site"}
	impactColumns = []string{"impact", "population impact", "score"}
	costColumns   = []string{"cost", "costs"}
)

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadCSVRange reads rows in the given range [start, end] (1-based, inclusive).
// Row 1 is the first data row (after headers).
func LoadCSVRange(path string, start, end int) ([]Row, error) {
	if start < 1 {
		return nil, fmt.Errorf("csv: range start must be >= 1, got %d", start)
	}
	if end < start {
		return nil, fmt.Errorf("csv: range end (%d) must be >= start (%d)", end, start)
	}

	allRows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	if end > len(allRows) {
		end = len(allRows)
	}
	if start > len(allRows) {
		return []Row{}, nil
	}

	return allRows[start-1 : end], nil
}

// ParseRange parses "start-end" or a single row number.
func ParseRange(s string) (start, end int, err error) {
	lo, hi, found := strings.Cut(s, "-")
	start, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("csv: invalid range %q", s)
	}
	if !found {
		return start, start, nil
	}
	end, err = strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("csv: invalid range %q", s)
	}
	return start, end, nil
}

// Candidates converts CSV rows into candidates, keeping row order.
func Candidates(rows []Row) ([]models.Candidate, error) {
	out := make([]models.Candidate, 0, len(rows))
	for i, row := range rows {
		name, ok := lookup(row, nameColumns)
		if !ok {
			return nil, fmt.Errorf("csv: row %d: missing location column", i+2)
		}
		impact, err := number(row, impactColumns, i)
		if err != nil {
			return nil, err
		}
		cost, err := number(row, costColumns, i)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Candidate{Name: name, Impact: impact, Cost: cost})
	}
	return out, nil
}

// LoadInstance reads a Location,Impact,Cost CSV into a problem instance.
func LoadInstance(path, criteria string, budget float64) (*models.ProblemInstance, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return instanceFromRows(rows, criteria, budget)
}

// LoadInstanceRange is LoadInstance restricted to data rows [start, end].
func LoadInstanceRange(path, criteria string, budget float64, start, end int) (*models.ProblemInstance, error) {
	rows, err := LoadCSVRange(path, start, end)
	if err != nil {
		return nil, err
	}
	return instanceFromRows(rows, criteria, budget)
}

func instanceFromRows(rows []Row, criteria string, budget float64) (*models.ProblemInstance, error) {
	candidates, err := Candidates(rows)
	if err != nil {
		return nil, err
	}
	return models.NewProblemInstance(criteria, candidates, budget)
}

func lookup(row Row, columns []string) (string, bool) {
	for _, c := range columns {
		if v, ok := row[c]; ok {
			return v, true
		}
	}
	return "", false
}

func number(row Row, columns []string, i int) (float64, error) {
	raw, ok := lookup(row, columns)
	if !ok {
		return 0, fmt.Errorf("csv: row %d: missing %s column", i+2, columns[0])
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil {
		return 0, fmt.Errorf("csv: row %d: %s %q is not a number", i+2, columns[0], raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: csv: row %d: %s %q is not a finite number", models.ErrInvalidInput, i+2, columns[0], raw)
	}
	return v, nil
}
