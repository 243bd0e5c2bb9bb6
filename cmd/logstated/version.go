package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/logstate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of logstated",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logstated version %s\n", strings.TrimSpace(logstate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
