package models

import "time"

// Status is the outcome of a single optimization run.
type Status string

const (
	// StatusSelected means at least one candidate was chosen.
	StatusSelected Status = "selected"
	// StatusNoneSelected is a valid, all-zero selection.
	StatusNoneSelected Status = "none_selected"
	// StatusFailed means the solver explicitly reported that it found no solution.
	StatusFailed Status = "failed"
)

// Mode selects which request/response shape a run uses.
type Mode string

const (
	// ModeGeneric sends the candidate table with the request.
	ModeGeneric Mode = "generic"
	// ModeDataset asks the solver to optimize a dataset it already holds.
	ModeDataset Mode = "dataset"
)

// Summary is the reduction of a generic-mode run to totals and the chosen subset.
type Summary struct {
	Criteria        string             `json:"criteria"`
	Budget          float64            `json:"budget"`
	Status          Status             `json:"status"`
	TotalCost       float64            `json:"total_cost"`
	TotalImpact     float64            `json:"total_impact"`
	RemainingBudget float64            `json:"remaining_budget"`
	UtilizationPct  float64            `json:"utilization_pct"`
	SelectedCount   int                `json:"selected_count"`
	Selected        []Candidate        `json:"selected"`
	SelectedNames   []string           `json:"selected_names"`
	Selection       []int              `json:"selection"`
	Comparison      *ComparisonSummary `json:"comparison,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
}

// ComparisonSummary places a baseline method's selection next to the primary one.
type ComparisonSummary struct {
	Label            string  `json:"label"`
	Selection        []int   `json:"selection"`
	TotalCost        float64 `json:"total_cost"`
	TotalImpact      float64 `json:"total_impact"`
	PrimaryLabel     string  `json:"primary_label"`
	PrimarySelection []int   `json:"primary_selection"`
}

// DatasetRow is one row of a dataset-mode result.
type DatasetRow struct {
	Location string `json:"location"`
	City     string `json:"city"`
	Selected bool   `json:"selected"`
}

// DatasetSummary is the reduction of a dataset-mode run.
type DatasetSummary struct {
	Criteria          string       `json:"criteria"`
	Budget            float64      `json:"budget"`
	Status            Status       `json:"status"`
	TotalCost         float64      `json:"total_cost"`
	TotalImpact       float64      `json:"total_impact"`
	RemainingBudget   float64      `json:"remaining_budget"`
	UtilizationPct    float64      `json:"utilization_pct"`
	PopulationReached int64        `json:"population_reached"`
	MethodUsed        string       `json:"method_used,omitempty"`
	Rows              []DatasetRow `json:"rows"`
	SelectedCount     int          `json:"selected_count"`
}

// Run is one completed request/response exchange with the solver.
type Run struct {
	ID             string           `json:"id"`
	Mode           Mode             `json:"mode"`
	Criteria       string           `json:"criteria"`
	Label          string           `json:"label"`
	Budget         int              `json:"budget"`
	Instance       *ProblemInstance `json:"instance,omitempty"`
	Summary        *Summary         `json:"summary,omitempty"`
	DatasetSummary *DatasetSummary  `json:"dataset_summary,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
	DurationMs     int64            `json:"duration_ms"`
}

// Status returns the status of whichever summary the run carries.
func (r *Run) Status() Status {
	switch {
	case r.Summary != nil:
		return r.Summary.Status
	case r.DatasetSummary != nil:
		return r.DatasetSummary.Status
	}
	return StatusFailed
}
