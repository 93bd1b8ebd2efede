package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/solver"
	"github.com/spboyer/siteselect/internal/summary"
	"github.com/spf13/cobra"
)

type summarizeOptions struct {
	instancePath string
	resultPath   string
	criteria     string
	budget       float64
	format       string
}

func newSummarizeCommand() *cobra.Command {
	opts := &summarizeOptions{}

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a saved backend response without contacting the backend",
		Long: `Summarize a saved /run_knapsack response.

With --instance, the response is read as a selection vector over the rows of
that Location,Impact,Cost CSV file. Without it, the response is read as a
dataset-mode answer that carries its own locations and totals.

Use "-" as the --result path to read the response from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return summarizeCommandE(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.instancePath, "instance", "", "Candidate CSV file the response refers to")
	cmd.Flags().StringVar(&opts.resultPath, "result", "", "Saved backend response JSON (\"-\" for stdin)")
	cmd.Flags().StringVar(&opts.criteria, "criteria", "custom", "Criteria label")
	cmd.Flags().Float64VarP(&opts.budget, "budget", "b", 0, "Budget the response was computed for")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text, json, csv, html or markdown")
	_ = cmd.MarkFlagRequired("result")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func summarizeCommandE(cmd *cobra.Command, opts *summarizeOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	data, err := readResult(cmd.InOrStdin(), opts.resultPath)
	if err != nil {
		return err
	}

	run := &models.Run{Criteria: opts.criteria, Label: opts.criteria, Budget: int(opts.budget)}

	if opts.instancePath == "" {
		if opts.budget <= 0 {
			return fmt.Errorf("%w: please enter a valid budget amount", models.ErrInvalidInput)
		}
		resp, err := solver.DecodeResponse(models.ModeDataset, data)
		if err != nil {
			return err
		}
		s, err := summary.SummarizeDataset(opts.budget, resp.Dataset)
		if err != nil {
			return err
		}
		run.Mode = models.ModeDataset
		run.DatasetSummary = s
	} else {
		inst, err := dataset.LoadInstance(opts.instancePath, opts.criteria, opts.budget)
		if err != nil {
			return err
		}
		resp, err := solver.DecodeResponse(models.ModeGeneric, data)
		if err != nil {
			return err
		}
		s, err := summary.Summarize(inst, resp.Selection)
		if err != nil {
			return err
		}
		run.Mode = models.ModeGeneric
		run.Instance = inst
		run.Summary = s
	}

	if err := writeRun(cmd.OutOrStdout(), run, opts.format); err != nil {
		return err
	}
	return outcomeError(run)
}

func readResult(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
