package main

import (
	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/validate"
)

var (
	triageBucketFlag  string
	triageApplyFlag   bool
	triageProposeFlag bool
)

var itemsTriageCmd = &cobra.Command{
	Use:   "triage <identifier>",
	Short: "Propose (or apply) moving an item to another bucket",
	Long: `Triage queues an items.triage proposal by default. The identifier may
be an item id, canonical id, document URI, or exact item name; it is
resolved against fresh backend state at apply time, and the bucket
transition is checked against the item's current bucket then.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := &types.TriagePayload{
			Item:   args[0],
			Bucket: types.Bucket(triageBucketFlag),
			OrgID:  cfg.OrgID,
		}

		if err := validate.ErrIfInvalid(validate.Triage(payload), "items.triage"); err != nil {
			return err
		}

		return runProposeOrApply(cmd.Context(), types.OpItemsTriage, payload, triageApplyFlag)
	},
}

func init() {
	itemsTriageCmd.Flags().StringVar(&triageBucketFlag, "bucket", "", "Target bucket (required)")
	itemsTriageCmd.Flags().BoolVar(&triageProposeFlag, "propose", false, "Queue a proposal (the default)")
	itemsTriageCmd.Flags().BoolVar(&triageApplyFlag, "apply", false, "Execute immediately instead of queueing a proposal")
	itemsTriageCmd.MarkFlagsMutuallyExclusive("propose", "apply")
	_ = itemsTriageCmd.MarkFlagRequired("bucket")

	itemsCmd.AddCommand(itemsTriageCmd)
}
