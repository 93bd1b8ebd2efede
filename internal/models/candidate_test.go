package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemInstance_Validation(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		budget     float64
		wantErr    bool
	}{
		{name: "valid", candidates: []Candidate{{Name: "A", Impact: 1, Cost: 2}}, budget: 10},
		{name: "empty candidates", budget: 10},
		{name: "zero budget", budget: 0, wantErr: true},
		{name: "negative budget", budget: -5, wantErr: true},
		{name: "negative impact", candidates: []Candidate{{Name: "A", Impact: -1}}, budget: 10, wantErr: true},
		{name: "negative cost", candidates: []Candidate{{Name: "A", Cost: -1}}, budget: 10, wantErr: true},
		{name: "NaN impact", candidates: []Candidate{{Name: "A", Impact: math.NaN()}}, budget: 10, wantErr: true},
		{name: "infinite cost", candidates: []Candidate{{Name: "A", Cost: math.Inf(1)}}, budget: 10, wantErr: true},
		{name: "NaN budget", budget: math.NaN(), wantErr: true},
		{name: "infinite budget", budget: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewProblemInstance("x", tt.candidates, tt.budget)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.candidates), inst.Len())
		})
	}
}

func TestProblemInstance_IsImmutable(t *testing.T) {
	src := []Candidate{{Name: "A", Impact: 1, Cost: 2}, {Name: "B", Impact: 3, Cost: 4}}
	inst, err := NewProblemInstance("x", src, 10)
	require.NoError(t, err)

	src[0].Name = "changed"
	got := inst.Candidates()
	got[1].Name = "changed too"

	assert.Equal(t, []string{"A", "B"}, inst.Names())
	assert.Equal(t, []float64{1, 3}, inst.Impacts())
	assert.Equal(t, []float64{2, 4}, inst.Costs())
}

func TestCheckSelection(t *testing.T) {
	require.NoError(t, CheckSelection([]int{0, 1, 1}, 3))
	require.NoError(t, CheckSelection(nil, 0))
	require.ErrorIs(t, CheckSelection([]int{0, 1}, 3), ErrShapeMismatch)
	require.ErrorIs(t, CheckSelection([]int{0, 3, 1}, 3), ErrShapeMismatch)
}

func TestProblemInstance_MarshalJSON(t *testing.T) {
	inst, err := NewProblemInstance("rural_access", []Candidate{{Name: "Facility A", Impact: 78, Cost: 38000}}, 50000)
	require.NoError(t, err)

	data, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"criteria":"rural_access","budget":50000,"candidates":[{"name":"Facility A","impact":78,"cost":38000}]}`, string(data))
}

func TestSelectionResult_Failed(t *testing.T) {
	yes, no := true, false
	assert.False(t, (&SelectionResult{}).Failed())
	assert.False(t, (&SelectionResult{Success: &yes}).Failed())
	assert.True(t, (&SelectionResult{Success: &no}).Failed())
}

func TestRun_Status(t *testing.T) {
	assert.Equal(t, StatusSelected, (&Run{Summary: &Summary{Status: StatusSelected}}).Status())
	assert.Equal(t, StatusNoneSelected, (&Run{DatasetSummary: &DatasetSummary{Status: StatusNoneSelected}}).Status())
	assert.Equal(t, StatusFailed, (&Run{}).Status())
}
