package main

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/projectconfig"
	"github.com/spboyer/siteselect/internal/publish"
	"github.com/spboyer/siteselect/internal/solver"
	"github.com/spboyer/siteselect/internal/spinner"
	"github.com/spboyer/siteselect/internal/wizard"
	"github.com/spf13/cobra"
)

type runOptions struct {
	budget      int
	csvPath     string
	rows        string
	label       string
	format      string
	xlsxPath    string
	upload      bool
	interactive bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [criteria]",
		Short: "Run one optimization and print the selection",
		Long: `Run one optimization against the backend and print the selection.

The criteria names a built-in dataset (see "siteselect datasets"). With --csv,
candidates are read from a Location,Impact,Cost file instead and the criteria
is only used as a label. Missing criteria and budget fall back to the defaults
in .siteselect.yaml, or are asked for with --interactive.

Exit status is 0 when a selection was produced, 1 when the backend found no
solution within the budget and 2 on any error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.budget, "budget", "b", 0, "Budget in whole dollars (default from .siteselect.yaml)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Read candidates from a Location,Impact,Cost CSV file")
	cmd.Flags().StringVar(&opts.rows, "rows", "", "Only use this 1-based row range of the CSV file, e.g. 2-10")
	cmd.Flags().StringVar(&opts.label, "label", "", "Display name for the criteria")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: text, json, csv, html or markdown")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "Also write the selection table to this Excel file")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the run report to Azure Blob Storage")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Ask for missing criteria and budget")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string, opts *runOptions) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = cfg.Defaults.Format
	}
	if err := validateFormat(format); err != nil {
		return err
	}
	if opts.rows != "" && opts.csvPath == "" {
		return fmt.Errorf("--rows requires --csv")
	}

	params := wizard.RunParams{Criteria: cfg.Defaults.Criteria, Budget: cfg.Defaults.Budget}
	if len(args) == 1 {
		params.Criteria = args[0]
	}
	if cmd.Flags().Changed("budget") {
		params.Budget = opts.budget
	}
	if opts.interactive && opts.csvPath == "" && (len(args) == 0 || !cmd.Flags().Changed("budget")) {
		answered, err := wizard.RunParamsWizard(cmd.InOrStdin(), cmd.ErrOrStderr(), params)
		if err != nil {
			return err
		}
		params = *answered
	}

	job, err := buildJob(params, opts)
	if err != nil {
		return err
	}

	client := newSolverClient(cmd, cfg)
	slog.Debug("using optimization backend", "endpoint", client.Endpoint())
	runner := solver.NewRunner(client, nil)
	stop := spinner.StartIfTerminal(cmd.ErrOrStderr(), fmt.Sprintf("Optimizing %s", job.Label))
	run, err := runner.Execute(cmd.Context(), job)
	stop()
	if err != nil {
		if solver.IsTransport(err) {
			return fmt.Errorf("%w\n%s", err, solver.BackendHint)
		}
		return err
	}

	if err := writeRun(cmd.OutOrStdout(), run, format); err != nil {
		return err
	}
	if opts.xlsxPath != "" {
		if err := writeXLSXFile(opts.xlsxPath, run); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.xlsxPath)
	}
	if opts.upload {
		if err := uploadRun(cmd, cfg, run, opts.xlsxPath != ""); err != nil {
			return err
		}
	}
	return outcomeError(run)
}

func buildJob(params wizard.RunParams, opts *runOptions) (solver.Job, error) {
	if params.Budget <= 0 {
		return solver.Job{}, fmt.Errorf("%w: please enter a valid budget amount", models.ErrInvalidInput)
	}

	if opts.csvPath == "" {
		s, err := dataset.Lookup(params.Criteria)
		if err != nil {
			return solver.Job{}, err
		}
		job, err := solver.JobFromSample(s, params.Budget)
		if err != nil {
			return solver.Job{}, err
		}
		if opts.label != "" {
			job.Label = opts.label
		}
		return job, nil
	}

	var inst *models.ProblemInstance
	var err error
	if opts.rows != "" {
		start, end, rerr := dataset.ParseRange(opts.rows)
		if rerr != nil {
			return solver.Job{}, rerr
		}
		inst, err = dataset.LoadInstanceRange(opts.csvPath, params.Criteria, float64(params.Budget), start, end)
	} else {
		inst, err = dataset.LoadInstance(opts.csvPath, params.Criteria, float64(params.Budget))
	}
	if err != nil {
		return solver.Job{}, err
	}
	return solver.JobFromInstance(inst, opts.label)
}

func uploadRun(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, run *models.Run, withXLSX bool) error {
	includeXLSX := withXLSX || (cfg.Publish.IncludeXLSX != nil && *cfg.Publish.IncludeXLSX)
	artifacts, err := publish.Artifacts(run, includeXLSX)
	if err != nil {
		return err
	}
	p, err := publish.New(cfg.Publish.AccountURL, cfg.Publish.Container, nil)
	if err != nil {
		return err
	}
	names, err := p.Publish(cmd.Context(), run, artifacts)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	for _, name := range names {
		fmt.Fprintf(out, "Uploaded %s/%s\n", cfg.Publish.Container, name)
	}
	return nil
}
