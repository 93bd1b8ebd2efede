package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spboyer/siteselect/internal/projectconfig"
	"github.com/spboyer/siteselect/internal/solver"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteselect",
		Short: "siteselect - budget-constrained site selection",
		Long: `siteselect sends a site selection problem to an optimization backend and
reports which candidate locations fit the budget.

Candidates come from the built-in sample datasets or a CSV file. Results are
printed as text, JSON, CSV or HTML, can be exported to Excel, uploaded to
Azure Blob Storage, or browsed in a local web page.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("solver-url", "", "Optimization backend base URL (overrides .siteselect.yaml)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newDatasetsCommand())
	cmd.AddCommand(newSummarizeCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadProjectConfig reads .siteselect.yaml from the working directory or
// one of its parents.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", projectconfig.FileName, err)
	}
	return cfg, nil
}

// newSolverClient builds the backend client, preferring --solver-url.
func newSolverClient(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) *solver.Client {
	url := cfg.Solver.URL
	if flag, _ := cmd.Flags().GetString("solver-url"); flag != "" {
		url = flag
	}
	return solver.NewClient(url, &solver.ClientOptions{
		Timeout: time.Duration(cfg.Solver.Timeout) * time.Second,
	})
}
