package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/logstate/internal/cli"
	"github.com/aretw0/logstate/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the logging state as MCP tools (start_logging, stop_logging,
logging_status) and the logstate://state resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		ctx, cancel := cli.SignalContext(cmd.Context())
		defer cancel()

		rt, err := cli.NewRuntime(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Controller, logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting logstate MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting logstate MCP server (SSE)", "address", addr)
			if err := srv.ServeSSE(ctx, addr); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "127.0.0.1:8081", "Address to listen on (only for SSE)")
}
