package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis dashboard and JSON API",
		Long: `Serve starts an HTTP server with a form dashboard and a JSON API.

Routes:
  GET  /              form dashboard
  GET  /healthz       liveness probe
  POST /api/analyze   body {"url": "..."}, returns the JSON report
  GET  /report        ?url=...&format=html|pdf|markdown|json|text

Examples:
  # Listen on the default address
  bakeryscan serve

  # Listen on all interfaces
  bakeryscan serve --listen :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addAnalysisFlags(cmd)
	cmd.Flags().String("listen", config.DefaultListenAddress,
		"Address to listen on")
	cmd.Flags().Duration("request-timeout", server.DefaultRequestTimeout,
		"Maximum duration of one analysis request")

	return cmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if changed(cmd, "listen") {
		if cfg.ListenAddress, err = cmd.Flags().GetString("listen"); err != nil {
			return err
		}
	}
	requestTimeout, err := cmd.Flags().GetDuration("request-timeout")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	}
	analyzer, err := newAnalyzer(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := withSignals()
	defer cancel()

	srv := server.New(analyzer,
		server.WithLogger(logger),
		server.WithVersion(getVersion()),
		server.WithRequestTimeout(requestTimeout),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard available at http://%s/\n", cfg.ListenAddress)
	return srv.Run(ctx, cfg.ListenAddress)
}
