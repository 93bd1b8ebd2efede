package solver

import (
	"fmt"
	"math"

	"github.com/spboyer/siteselect/internal/models"
)

// Path is the optimization backend's endpoint.
const Path = "/run_knapsack"

// Request is the body posted to the optimization backend. The candidate
// arrays are omitted when the backend optimizes its own dataset.
type Request struct {
	Criteria  string    `json:"criteria"`
	Budget    int       `json:"budget"`
	Impact    []float64 `json:"impact,omitempty"`
	Costs     []float64 `json:"costs,omitempty"`
	Locations []string  `json:"locations,omitempty"`

	mode models.Mode
}

// Mode reports which response shape the request asks for.
func (r *Request) Mode() models.Mode {
	if r.mode == "" {
		return models.ModeGeneric
	}
	return r.mode
}

// NewGenericRequest sends the instance's candidate table to the backend.
func NewGenericRequest(instance *models.ProblemInstance) (*Request, error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: no problem instance", models.ErrInvalidInput)
	}
	// An empty table would marshal like a dataset request.
	if instance.Len() == 0 {
		return nil, fmt.Errorf("%w: no candidates to optimize", models.ErrInvalidInput)
	}
	budget, err := wholeBudget(instance.Budget())
	if err != nil {
		return nil, err
	}
	return &Request{
		Criteria:  instance.Criteria(),
		Budget:    budget,
		Impact:    instance.Impacts(),
		Costs:     instance.Costs(),
		Locations: instance.Names(),
		mode:      models.ModeGeneric,
	}, nil
}

// NewDatasetRequest asks the backend to optimize the dataset it holds for criteria.
func NewDatasetRequest(criteria string, budget int) (*Request, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive, got %d", models.ErrInvalidInput, budget)
	}
	if criteria == "" {
		return nil, fmt.Errorf("%w: criteria is required", models.ErrInvalidInput)
	}
	return &Request{
		Criteria: criteria,
		Budget:   budget,
		mode:     models.ModeDataset,
	}, nil
}

func wholeBudget(b float64) (int, error) {
	if b <= 0 {
		return 0, fmt.Errorf("%w: budget must be positive, got %v", models.ErrInvalidInput, b)
	}
	if b != math.Trunc(b) || b > math.MaxInt32 {
		return 0, fmt.Errorf("%w: budget must be a whole amount, got %v", models.ErrInvalidInput, b)
	}
	return int(b), nil
}
