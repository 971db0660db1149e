package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration after flag/env/file resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := map[string]interface{}{
			"host":       cfg.Host,
			"org_id":     cfg.OrgID,
			"config_dir": cfg.ConfigDir,
		}

		if !jsonOutput {
			fmt.Printf("host:       %s\n", cfg.Host)
			if cfg.OrgID != "" {
				fmt.Printf("org_id:     %s\n", cfg.OrgID)
			} else {
				fmt.Printf("org_id:     %s\n", ui.Muted("(inferred from session)"))
			}
			fmt.Printf("config_dir: %s\n", cfg.ConfigDir)
		}
		emitSuccess(data)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
