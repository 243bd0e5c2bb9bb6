package main

import (
	"os"

	"github.com/aretw0/logstate/internal/presentation/tui"
	"github.com/aretw0/logstate/pkg/client"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <path>",
	Short: "Ask a running server to start logging to path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cmd)
		return printResult(cmd, func() (domain.Result, error) {
			return c.Start(cmd.Context(), args[0])
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask a running server to stop logging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cmd)
		return printResult(cmd, func() (domain.Result, error) {
			return c.Stop(cmd.Context())
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the logging state of a running server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient(cmd)
		return printResult(cmd, func() (domain.Result, error) {
			return c.Status(cmd.Context())
		})
	},
}

func newClient(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	return client.New(server)
}

func printResult(cmd *cobra.Command, call func() (domain.Result, error)) error {
	res, err := call()
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return tui.WriteResult(os.Stdout, output, res)
}

func init() {
	for _, c := range []*cobra.Command{startCmd, stopCmd, statusCmd} {
		c.Flags().String("server", client.DefaultBaseURL, "Base URL of the logstate server")
		c.Flags().StringP("output", "o", tui.FormatText, "Output format: text, json or markdown")
		rootCmd.AddCommand(c)
	}
}
