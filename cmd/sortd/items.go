package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/executor"
	"github.com/sortdhq/sortd/internal/resolver"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/ui"
)

var (
	listBucketFlag string
	listTypeFlag   string
	listLimitFlag  int
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List, inspect, and mutate task items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in the organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listBucketFlag != "" && !types.Bucket(listBucketFlag).IsValid() {
			return apierr.Usagef("unknown bucket %q", listBucketFlag)
		}
		if listTypeFlag != "" && !types.ItemType(listTypeFlag).IsValid() {
			return apierr.Usagef("unknown item type %q", listTypeFlag)
		}

		orgID, err := resolveOrgID(cmd.Context())
		if err != nil {
			return err
		}

		records, err := client.ListItems(cmd.Context(), orgID)
		if err != nil {
			return err
		}

		filtered := records[:0]
		for _, rec := range records {
			if listBucketFlag != "" && rec.Item.Bucket != types.Bucket(listBucketFlag) {
				continue
			}
			if listTypeFlag != "" && rec.Item.Type != types.ItemType(listTypeFlag) {
				continue
			}
			filtered = append(filtered, rec)
			if listLimitFlag > 0 && len(filtered) >= listLimitFlag {
				break
			}
		}

		if !jsonOutput {
			if len(filtered) == 0 {
				fmt.Println("No items found.")
			}
			for i := range filtered {
				fmt.Println(ui.ItemLine(&filtered[i]))
			}
		}
		emitSuccess(map[string]interface{}{
			"org_id": orgID,
			"items":  filtered,
			"count":  len(filtered),
		})
		return nil
	},
}

var itemsGetCmd = &cobra.Command{
	Use:   "get <identifier>",
	Short: "Show one item by id, canonical id, document URI, or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orgID, err := resolveOrgID(cmd.Context())
		if err != nil {
			return err
		}

		rec, err := resolver.ResolveItem(cmd.Context(), client, orgID, args[0])
		if err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Println(ui.ItemLine(rec))
			if rec.Item.Notes != "" {
				fmt.Printf("  %s\n", ui.Muted(rec.Item.Notes))
			}
			fmt.Printf("  %s\n", ui.Muted("canonical: "+rec.CanonicalID))
		}
		emitSuccess(map[string]interface{}{"item": rec})
		return nil
	},
}

// resolveOrgID applies the org precedence for read commands: explicit
// flag/env, then the executor's session-based inference chain.
func resolveOrgID(ctx context.Context) (string, error) {
	if cfg.OrgID != "" {
		return cfg.OrgID, nil
	}
	return executor.ResolveOrg(ctx, executorDeps())
}

func init() {
	itemsListCmd.Flags().StringVar(&listBucketFlag, "bucket", "", "Filter by bucket (inbox|next|waiting|scheduled|someday|done)")
	itemsListCmd.Flags().StringVar(&listTypeFlag, "type", "", "Filter by item type (Action|Project|Note)")
	itemsListCmd.Flags().IntVar(&listLimitFlag, "limit", 0, "Maximum items to show (0 = no limit)")

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsGetCmd)
	rootCmd.AddCommand(itemsCmd)
}
