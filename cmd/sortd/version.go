package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sortd version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !jsonOutput {
			fmt.Printf("sortd %s\n", Version)
		}
		emitSuccess(map[string]interface{}{"version": Version})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
