package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spboyer/siteselect/internal/metrics"
	"github.com/spboyer/siteselect/internal/projectconfig"
	"github.com/spboyer/siteselect/internal/solver"
	"github.com/spboyer/siteselect/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var port int
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the selection page and JSON API",
		Long: `Serve the selection page and its JSON API on localhost.

Routes:
  GET  /api/health                  Health check
  GET  /api/datasets                Built-in datasets
  GET  /api/datasets/{criteria}/csv Preview table, nothing selected
  POST /api/run                     Run one optimization {criteria, budget}
  GET  /api/runs/latest             Most recent completed run
  GET  /metrics                     Prometheus metrics

Only one optimization runs at a time; a second POST /api/run while one is in
flight is answered with 409 Conflict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}
			if !cmd.Flags().Changed("no-browser") && cfg.Server.NoBrowser != nil {
				noBrowser = *cfg.Server.NoBrowser
			}

			srv, err := newServer(cmd, cfg, port, noBrowser)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", webserver.DefaultPort, "Port to listen on")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")

	return cmd
}

// newServer wires the backend client, run metrics and build version into the
// web server.
func newServer(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, port int, noBrowser bool) (*webserver.Server, error) {
	recorder := metrics.NewRecorder()
	runner := solver.NewRunner(newSolverClient(cmd, cfg), &solver.RunnerOptions{Metrics: recorder})
	return webserver.New(webserver.Config{
		Port:      port,
		NoBrowser: noBrowser,
		Version:   version,
		Runs:      runner,
		Metrics:   recorder,
	})
}
