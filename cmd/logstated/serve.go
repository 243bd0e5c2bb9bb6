package main

import (
	"fmt"
	"net"
	"os"

	"github.com/aretw0/logstate"
	"github.com/aretw0/logstate/internal/cli"
	"github.com/aretw0/logstate/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the logging state service, exposing start, stop and status as a JSON API
with OpenAPI docs at /docs, a transition event stream at /events and Prometheus
metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}
		if cmd.Flags().Changed("metrics") {
			cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
		}

		if tui.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, logstate.Version)
		}

		ctx, cancel := cli.SignalContext(cmd.Context())
		defer cancel()

		rt, err := cli.NewRuntime(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		handler, err := rt.Handler()
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
		}
		return cli.Serve(ctx, ln, handler, cfg.ShutdownTimeout, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "127.0.0.1:8000", "Address to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics at /metrics")
}
