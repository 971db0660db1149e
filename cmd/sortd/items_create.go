package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/debug"
	"github.com/sortdhq/sortd/internal/timeparsing"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/validate"
)

var (
	createTypeFlag   string
	createNameFlag   string
	createBucketFlag string
	createNotesFlag  string
	createDueFlag    string
	createTagsFlag    []string
	createApplyFlag   bool
	createProposeFlag bool
)

var itemsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Propose (or apply) creation of a new item",
	Long: `Create queues an items.create proposal by default. Pass --apply to
send it to the backend immediately (requires confirmation or --yes).

Due dates accept compact durations (+6h, 2d, 1w), RFC 3339 timestamps,
dates (2026-09-01), and natural language ("next friday 5pm").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := &types.CreatePayload{
			OrgID:  cfg.OrgID,
			Name:   createNameFlag,
			Type:   types.ItemType(createTypeFlag),
			Bucket: types.Bucket(createBucketFlag),
			Notes:  createNotesFlag,
			Tags:   createTagsFlag,
		}

		issues := []validate.Issue{}
		if createDueFlag != "" {
			due, err := timeparsing.ParseDue(createDueFlag, time.Now())
			if err != nil {
				issues = append(issues, validate.Issue{
					Code:    validate.CodeDueInvalid,
					Field:   "due_at",
					Message: fmt.Sprintf("unparseable due date %q", createDueFlag),
				})
			} else {
				if due.Before(time.Now()) && !jsonOutput && !debug.IsQuiet() {
					yellow := color.New(color.FgYellow)
					yellow.Fprintf(os.Stderr, "⚠ due date %s is in the past\n", due.Format("2006-01-02 15:04"))
				}
				payload.DueAt = &due
			}
		}

		issues = append(issues, validate.Create(payload)...)
		if err := validate.ErrIfInvalid(issues, "items.create"); err != nil {
			return err
		}

		return runProposeOrApply(cmd.Context(), types.OpItemsCreate, payload, createApplyFlag)
	},
}

func init() {
	itemsCreateCmd.Flags().StringVar(&createTypeFlag, "type", string(types.TypeAction), "Item type (Action|Project|Note)")
	itemsCreateCmd.Flags().StringVarP(&createNameFlag, "name", "n", "", "Item name (required)")
	itemsCreateCmd.Flags().StringVar(&createBucketFlag, "bucket", string(types.BucketInbox), "Initial bucket")
	itemsCreateCmd.Flags().StringVar(&createNotesFlag, "notes", "", "Free-form notes")
	itemsCreateCmd.Flags().StringVar(&createDueFlag, "due", "", "Due date (+6h, 2d, 2026-09-01, \"next friday\")")
	itemsCreateCmd.Flags().StringSliceVar(&createTagsFlag, "tag", nil, "Tag (repeatable)")
	itemsCreateCmd.Flags().BoolVar(&createProposeFlag, "propose", false, "Queue a proposal (the default)")
	itemsCreateCmd.Flags().BoolVar(&createApplyFlag, "apply", false, "Execute immediately instead of queueing a proposal")
	itemsCreateCmd.MarkFlagsMutuallyExclusive("propose", "apply")
	_ = itemsCreateCmd.MarkFlagRequired("name")

	itemsCmd.AddCommand(itemsCreateCmd)
}
