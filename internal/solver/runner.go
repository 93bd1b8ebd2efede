package solver

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/metrics"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/summary"
	"golang.org/x/sync/semaphore"
)

// Job is one user-initiated optimization run.
type Job struct {
	Criteria string
	Label    string
	Budget   int
	// Instance is the candidate table sent in generic mode. It is nil in
	// dataset mode, where ServerCriteria names the backend's dataset.
	Instance       *models.ProblemInstance
	ServerCriteria string
}

// JobFromSample builds a job for a built-in sample table.
func JobFromSample(s dataset.Sample, budget int) (Job, error) {
	if budget <= 0 {
		return Job{}, fmt.Errorf("%w: please enter a valid budget amount", models.ErrInvalidInput)
	}
	job := Job{Criteria: s.Criteria, Label: s.Label, Budget: budget}
	if s.Mode() == models.ModeDataset {
		job.ServerCriteria = s.ServerCriteria
		return job, nil
	}
	inst, err := s.Instance(float64(budget))
	if err != nil {
		return Job{}, err
	}
	job.Instance = inst
	return job, nil
}

// JobFromInstance builds a generic-mode job for a caller-supplied table.
func JobFromInstance(instance *models.ProblemInstance, label string) (Job, error) {
	budget, err := wholeBudget(instance.Budget())
	if err != nil {
		return Job{}, err
	}
	if label == "" {
		label = instance.Criteria()
	}
	return Job{Criteria: instance.Criteria(), Label: label, Budget: budget, Instance: instance}, nil
}

// Mode reports which request shape the job uses.
func (j Job) Mode() models.Mode {
	if j.Instance == nil {
		return models.ModeDataset
	}
	return models.ModeGeneric
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
}

// Runner executes jobs one at a time. A job submitted while another is
// outstanding fails immediately with ErrRunInProgress.
type Runner struct {
	solver  Solver
	sem     *semaphore.Weighted
	latest  atomic.Pointer[models.Run]
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewRunner wraps s.
func NewRunner(s Solver, opts *RunnerOptions) *Runner {
	if opts == nil {
		opts = &RunnerOptions{}
	}
	r := &Runner{
		solver:  s,
		sem:     semaphore.NewWeighted(1),
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Latest returns the most recent completed run, or nil.
func (r *Runner) Latest() *models.Run {
	return r.latest.Load()
}

// Execute sends job to the solver and summarizes the answer. Invalid input
// is rejected before anything is sent.
func (r *Runner) Execute(ctx context.Context, job Job) (*models.Run, error) {
	req, err := buildRequest(job)
	if err != nil {
		return nil, err
	}

	if !r.sem.TryAcquire(1) {
		r.metrics.ObserveRejected()
		return nil, ErrRunInProgress
	}
	defer r.sem.Release(1)

	run := &models.Run{
		ID:        uuid.NewString(),
		Mode:      job.Mode(),
		Criteria:  job.Criteria,
		Label:     job.Label,
		Budget:    job.Budget,
		Instance:  job.Instance,
		StartedAt: r.now(),
	}
	logger := r.logger.With("run_id", run.ID, "criteria", job.Criteria, "mode", run.Mode)
	logger.Debug("optimization run started", "budget", job.Budget)

	resp, err := r.solver.Solve(ctx, req)
	elapsed := r.now().Sub(run.StartedAt)
	run.DurationMs = elapsed.Milliseconds()
	if err != nil {
		logger.Debug("optimization run failed", "error", err)
		r.metrics.ObserveRun(run.Mode, metrics.StatusError, elapsed)
		return nil, err
	}

	if err := summarize(run, job, resp); err != nil {
		logger.Debug("optimization response rejected", "error", err)
		r.metrics.ObserveRun(run.Mode, metrics.StatusError, elapsed)
		return nil, err
	}

	logger.Info("optimization run completed", "status", run.Status(), "duration_ms", run.DurationMs)
	r.metrics.ObserveRun(run.Mode, string(run.Status()), elapsed)
	r.latest.Store(run)
	return run, nil
}

func buildRequest(job Job) (*Request, error) {
	if job.Budget <= 0 {
		return nil, fmt.Errorf("%w: please enter a valid budget amount", models.ErrInvalidInput)
	}
	if job.Instance == nil {
		return NewDatasetRequest(job.ServerCriteria, job.Budget)
	}
	return NewGenericRequest(job.Instance)
}

func summarize(run *models.Run, job Job, resp *Response) error {
	if resp == nil {
		return fmt.Errorf("%w: empty response", models.ErrShapeMismatch)
	}
	switch run.Mode {
	case models.ModeDataset:
		if resp.Dataset == nil {
			return fmt.Errorf("%w: expected a dataset response", models.ErrShapeMismatch)
		}
		s, err := summary.SummarizeDataset(float64(job.Budget), resp.Dataset)
		if err != nil {
			return err
		}
		if s.Criteria == "" {
			s.Criteria = job.ServerCriteria
		}
		run.DatasetSummary = s
	default:
		if resp.Selection == nil {
			return fmt.Errorf("%w: expected a selection response", models.ErrShapeMismatch)
		}
		s, err := summary.Summarize(job.Instance, resp.Selection)
		if err != nil {
			return err
		}
		run.Summary = s
	}
	return nil
}
