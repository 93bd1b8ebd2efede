package solver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/metrics"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	return func() time.Time {
		calls++
		return t0.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}
}

func TestRunner_GenericRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)

	job, err := JobFromInstance(sampleInstance(t), "Child Mortality Rate")
	require.NoError(t, err)

	solver.EXPECT().Solve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *Request) (*Response, error) {
			assert.Equal(t, models.ModeGeneric, req.Mode())
			assert.Equal(t, 90000, req.Budget)
			return &Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: []int{1, 0}}}, nil
		})

	runner := NewRunner(solver, &RunnerOptions{Now: fixedClock()})
	run, err := runner.Execute(context.Background(), job)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, models.ModeGeneric, run.Mode)
	assert.Equal(t, int64(250), run.DurationMs)
	require.NotNil(t, run.Summary)
	assert.Equal(t, float64(45000), run.Summary.TotalCost)
	assert.Equal(t, float64(85), run.Summary.TotalImpact)
	assert.Equal(t, float64(45000), run.Summary.RemainingBudget)
	assert.Same(t, run, runner.Latest())
}

func TestRunner_DatasetRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)

	sample, err := dataset.Lookup("population")
	require.NoError(t, err)
	job, err := JobFromSample(sample, 100000)
	require.NoError(t, err)
	require.Equal(t, models.ModeDataset, job.Mode())

	solver.EXPECT().Solve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *Request) (*Response, error) {
			assert.Equal(t, "Population", req.Criteria)
			assert.Nil(t, req.Costs)
			return &Response{Mode: models.ModeDataset, Dataset: &models.DatasetResult{
				Success:        true,
				Locations:      []string{"General", "Mercy"},
				Solution:       []int{0, 1},
				TotalCost:      30000,
				TotalLocations: 2,
			}}, nil
		})

	run, err := NewRunner(solver, nil).Execute(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, run.DatasetSummary)
	assert.Equal(t, "Population", run.DatasetSummary.Criteria)
	assert.Equal(t, float64(70000), run.DatasetSummary.RemainingBudget)
	assert.Equal(t, models.StatusSelected, run.Status())
}

func TestRunner_InvalidBudgetNeverReachesSolver(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)

	_, err := NewRunner(solver, nil).Execute(context.Background(), Job{Criteria: "population", ServerCriteria: "Population"})
	require.ErrorIs(t, err, models.ErrInvalidInput)

	sample, err := dataset.Lookup("child_mortality")
	require.NoError(t, err)
	_, err = JobFromSample(sample, -10)
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRunner_RejectsConcurrentRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)
	rec := metrics.NewRecorder()

	started := make(chan struct{})
	release := make(chan struct{})
	solver.EXPECT().Solve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *Request) (*Response, error) {
			close(started)
			<-release
			return &Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: []int{0, 0}}}, nil
		}).Times(1)

	runner := NewRunner(solver, &RunnerOptions{Metrics: rec})
	job, err := JobFromInstance(sampleInstance(t), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = runner.Execute(context.Background(), job)
	}()

	<-started
	_, err = runner.Execute(context.Background(), job)
	require.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, models.StatusNoneSelected, runner.Latest().Status())
}

func TestRunner_ReleasesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)

	gomock.InOrder(
		solver.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(nil, &TransportError{StatusCode: 503, Err: errors.New("unavailable")}),
		solver.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(&Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: []int{1}}}, nil),
		solver.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(&Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: []int{0, 1}}}, nil),
	)

	runner := NewRunner(solver, nil)
	job, err := JobFromInstance(sampleInstance(t), "")
	require.NoError(t, err)

	_, err = runner.Execute(context.Background(), job)
	require.True(t, IsTransport(err))
	assert.Nil(t, runner.Latest())

	_, err = runner.Execute(context.Background(), job)
	require.ErrorIs(t, err, models.ErrShapeMismatch)

	run, err := runner.Execute(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hospital B"}, run.Summary.SelectedNames)
}

func TestRunner_LatestIsReplaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	solver := NewMockSolver(ctrl)
	solver.EXPECT().Solve(gomock.Any(), gomock.Any()).Return(
		&Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: []int{1, 0}}}, nil).Times(2)

	runner := NewRunner(solver, nil)
	job, err := JobFromInstance(sampleInstance(t), "")
	require.NoError(t, err)

	first, err := runner.Execute(context.Background(), job)
	require.NoError(t, err)
	second, err := runner.Execute(context.Background(), job)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, runner.Latest())
}
