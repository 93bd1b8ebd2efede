package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidInput is returned for problem instances the solver must never see,
// such as a missing or non-positive budget.
var ErrInvalidInput = errors.New("invalid input")

// ErrShapeMismatch is returned when a selection vector does not line up with
// the candidate list it was computed for.
var ErrShapeMismatch = errors.New("selection shape mismatch")

// Candidate is a location eligible for selection.
type Candidate struct {
	Name   string  `json:"name" yaml:"name"`
	Impact float64 `json:"impact" yaml:"impact"`
	Cost   float64 `json:"cost" yaml:"cost"`
}

// ProblemInstance is one budget-constrained selection problem. Candidate order
// is significant: selection vectors are index-aligned to it.
type ProblemInstance struct {
	criteria   string
	candidates []Candidate
	budget     float64
}

// NewProblemInstance validates and copies its inputs.
func NewProblemInstance(criteria string, candidates []Candidate, budget float64) (*ProblemInstance, error) {
	if !finite(budget) || budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive, got %v", ErrInvalidInput, budget)
	}
	for i, c := range candidates {
		if !finite(c.Impact) || !finite(c.Cost) {
			return nil, fmt.Errorf("%w: candidate %d (%s) has a non-finite impact or cost", ErrInvalidInput, i, c.Name)
		}
		if c.Impact < 0 {
			return nil, fmt.Errorf("%w: candidate %d (%s) has negative impact", ErrInvalidInput, i, c.Name)
		}
		if c.Cost < 0 {
			return nil, fmt.Errorf("%w: candidate %d (%s) has negative cost", ErrInvalidInput, i, c.Name)
		}
	}
	return &ProblemInstance{
		criteria:   criteria,
		candidates: slices.Clone(candidates),
		budget:     budget,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p *ProblemInstance) Criteria() string { return p.criteria }

func (p *ProblemInstance) Budget() float64 { return p.budget }

func (p *ProblemInstance) Len() int { return len(p.candidates) }

// Candidates returns a copy of the candidate list in input order.
func (p *ProblemInstance) Candidates() []Candidate {
	return slices.Clone(p.candidates)
}

// Candidate returns the i-th candidate.
func (p *ProblemInstance) Candidate(i int) Candidate {
	return p.candidates[i]
}

// Names returns candidate names in input order.
func (p *ProblemInstance) Names() []string {
	names := make([]string, len(p.candidates))
	for i, c := range p.candidates {
		names[i] = c.Name
	}
	return names
}

// Impacts returns candidate impacts in input order.
func (p *ProblemInstance) Impacts() []float64 {
	out := make([]float64, len(p.candidates))
	for i, c := range p.candidates {
		out[i] = c.Impact
	}
	return out
}

// Costs returns candidate costs in input order.
func (p *ProblemInstance) Costs() []float64 {
	out := make([]float64, len(p.candidates))
	for i, c := range p.candidates {
		out[i] = c.Cost
	}
	return out
}

// CheckSelection verifies that sel is a 0/1 vector aligned with the candidates.
func (p *ProblemInstance) CheckSelection(sel []int) error {
	return CheckSelection(sel, len(p.candidates))
}

// CheckSelection verifies that sel has exactly n elements, each 0 or 1.
func CheckSelection(sel []int, n int) error {
	if len(sel) != n {
		return fmt.Errorf("%w: selection has %d entries, expected %d", ErrShapeMismatch, len(sel), n)
	}
	for i, v := range sel {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: selection[%d] = %d, expected 0 or 1", ErrShapeMismatch, i, v)
		}
	}
	return nil
}

type problemInstanceJSON struct {
	Criteria   string      `json:"criteria"`
	Budget     float64     `json:"budget"`
	Candidates []Candidate `json:"candidates"`
}

// MarshalJSON exposes the instance for API responses.
func (p *ProblemInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(problemInstanceJSON{
		Criteria:   p.criteria,
		Budget:     p.budget,
		Candidates: p.candidates,
	})
}
