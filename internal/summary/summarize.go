// Package summary reduces a solver's selection vector against the problem
// instance it was computed for: totals, budget utilization, the chosen subset
// and a selection-annotated CSV table. Everything here is pure.
package summary

import (
	"fmt"
	"strconv"

	"github.com/spboyer/siteselect/internal/models"
)

const (
	// ComparisonLabel names the baseline method in a comparison.
	ComparisonLabel = "Classical"
	// PrimaryLabel names the solver's main method in a comparison.
	PrimaryLabel = "Quantum"
)

// Summarize computes totals for result against instance. An explicit solver
// failure yields a failed summary, not an error. A selection that does not
// line up with the candidates is ErrShapeMismatch.
func Summarize(instance *models.ProblemInstance, result *models.SelectionResult) (*models.Summary, error) {
	if instance == nil || instance.Budget() <= 0 {
		return nil, fmt.Errorf("%w: problem instance requires a positive budget", models.ErrInvalidInput)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: no solver result", models.ErrShapeMismatch)
	}

	s := &models.Summary{
		Criteria:        instance.Criteria(),
		Budget:          instance.Budget(),
		RemainingBudget: instance.Budget(),
		Selected:        []models.Candidate{},
		SelectedNames:   []string{},
	}

	if result.Failed() {
		s.Status = models.StatusFailed
		return s, nil
	}

	if err := instance.CheckSelection(result.Selection); err != nil {
		return nil, err
	}

	s.Selection = append([]int(nil), result.Selection...)
	s.TotalCost, s.TotalImpact = totals(instance, result.Selection)
	for i, v := range result.Selection {
		if v == 1 {
			c := instance.Candidate(i)
			s.Selected = append(s.Selected, c)
			s.SelectedNames = append(s.SelectedNames, c.Name)
		}
	}
	s.SelectedCount = len(s.Selected)
	s.RemainingBudget = instance.Budget() - s.TotalCost
	s.UtilizationPct = 100 * s.TotalCost / instance.Budget()

	if s.SelectedCount == 0 {
		s.Status = models.StatusNoneSelected
	} else {
		s.Status = models.StatusSelected
	}

	if result.TotalCost != nil && *result.TotalCost != s.TotalCost {
		s.Warnings = append(s.Warnings, fmt.Sprintf("solver reported total cost %s, computed %s",
			FormatNumber(*result.TotalCost), FormatNumber(s.TotalCost)))
	}
	if result.TotalImpact != nil && *result.TotalImpact != s.TotalImpact {
		s.Warnings = append(s.Warnings, fmt.Sprintf("solver reported total impact %s, computed %s",
			FormatNumber(*result.TotalImpact), FormatNumber(s.TotalImpact)))
	}
	if s.RemainingBudget < 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("selection is over budget by %s", FormatNumber(-s.RemainingBudget)))
	}

	if result.Comparison != nil {
		if err := instance.CheckSelection(result.Comparison); err != nil {
			return nil, fmt.Errorf("comparison: %w", err)
		}
		cost, impact := totals(instance, result.Comparison)
		s.Comparison = &models.ComparisonSummary{
			Label:            ComparisonLabel,
			Selection:        append([]int(nil), result.Comparison...),
			TotalCost:        cost,
			TotalImpact:      impact,
			PrimaryLabel:     PrimaryLabel,
			PrimarySelection: s.Selection,
		}
	}

	return s, nil
}

func totals(instance *models.ProblemInstance, sel []int) (cost, impact float64) {
	for i, v := range sel {
		if v == 1 {
			c := instance.Candidate(i)
			cost += c.Cost
			impact += c.Impact
		}
	}
	return cost, impact
}

// SummarizeDataset reduces a dataset-mode result. The client holds no per-row
// costs there, so the solver's totals are reported as given.
func SummarizeDataset(budget float64, result *models.DatasetResult) (*models.DatasetSummary, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive, got %v", models.ErrInvalidInput, budget)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: no solver result", models.ErrShapeMismatch)
	}

	s := &models.DatasetSummary{
		Criteria:        result.Criteria,
		Budget:          budget,
		RemainingBudget: budget,
		Rows:            []models.DatasetRow{},
	}
	if !result.Success {
		s.Status = models.StatusFailed
		return s, nil
	}

	n := result.TotalLocations
	if n == 0 {
		n = len(result.Solution)
	}
	if err := models.CheckSelection(result.Solution, n); err != nil {
		return nil, err
	}
	if len(result.Locations) != n {
		return nil, fmt.Errorf("%w: got %d locations for %d rows; locations must list every row", models.ErrShapeMismatch, len(result.Locations), n)
	}
	if result.Cities != nil && len(result.Cities) != n {
		return nil, fmt.Errorf("%w: got %d cities for %d rows; cities must list every row", models.ErrShapeMismatch, len(result.Cities), n)
	}

	for i, v := range result.Solution {
		row := models.DatasetRow{Location: result.Locations[i], Selected: v == 1}
		if result.Cities != nil {
			row.City = result.Cities[i]
		}
		if row.Selected {
			s.SelectedCount++
		}
		s.Rows = append(s.Rows, row)
	}

	s.TotalCost = result.TotalCost
	s.TotalImpact = result.TotalImpact
	s.PopulationReached = result.PopulationReached
	s.MethodUsed = result.MethodUsed
	s.RemainingBudget = budget - result.TotalCost
	if result.BudgetUtilization != nil {
		s.UtilizationPct = *result.BudgetUtilization
	} else {
		s.UtilizationPct = 100 * result.TotalCost / budget
	}

	if s.SelectedCount == 0 {
		s.Status = models.StatusNoneSelected
	} else {
		s.Status = models.StatusSelected
	}
	return s, nil
}

// FormatNumber renders v without trailing zeros, so whole amounts print as integers.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
