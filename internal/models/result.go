package models

// SelectionResult is the solver's answer in generic mode.
type SelectionResult struct {
	Selection []int `json:"solution" mapstructure:"solution"`
	// Success is nil when the solver did not say; only an explicit false is a failure.
	Success     *bool    `json:"success,omitempty" mapstructure:"success"`
	TotalCost   *float64 `json:"total_cost,omitempty" mapstructure:"total_cost"`
	TotalImpact *float64 `json:"total_impact,omitempty" mapstructure:"total_impact"`
	// Comparison is the baseline (classical) method's selection, when the solver ran one.
	Comparison []int  `json:"classical_solution,omitempty" mapstructure:"classical_solution"`
	Message    string `json:"message,omitempty" mapstructure:"message"`
}

// Failed reports whether the solver explicitly signalled failure.
func (r *SelectionResult) Failed() bool {
	return r.Success != nil && !*r.Success
}

// DatasetResult is the solver's answer when it optimized a server-resident
// dataset. Locations, Cities and Solution are index-aligned.
type DatasetResult struct {
	Success           bool     `json:"success" mapstructure:"success"`
	Criteria          string   `json:"criteria,omitempty" mapstructure:"criteria"`
	Budget            float64  `json:"budget,omitempty" mapstructure:"budget"`
	Locations         []string `json:"locations" mapstructure:"locations"`
	Cities            []string `json:"cities" mapstructure:"cities"`
	Solution          []int    `json:"solution" mapstructure:"solution"`
	TotalCost         float64  `json:"total_cost" mapstructure:"total_cost"`
	TotalImpact       float64  `json:"total_impact" mapstructure:"total_impact"`
	PopulationReached int64    `json:"population_reached" mapstructure:"population_reached"`
	// BudgetUtilization is a percentage; nil when the solver omitted it.
	BudgetUtilization *float64 `json:"budget_utilization,omitempty" mapstructure:"budget_utilization"`
	MethodUsed        string   `json:"method_used,omitempty" mapstructure:"method_used"`
	TotalLocations    int      `json:"total_locations" mapstructure:"total_locations"`
	SelectedCount     int      `json:"selected_count,omitempty" mapstructure:"selected_count"`
	Message           string   `json:"message,omitempty" mapstructure:"message"`
}
