package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/executor"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/ui"
)

var proposalsStatusFlag string

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Manage the local proposal queue",
}

var proposalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued proposals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposalsStatusFlag != "" {
			status := types.ProposalStatus(proposalsStatusFlag)
			if status != types.ProposalPending && status != types.ProposalApplied {
				return apierr.Usagef("unknown proposal status %q", proposalsStatusFlag)
			}
		}

		proposals := store.LoadProposals()
		filtered := proposals[:0]
		for _, p := range proposals {
			if proposalsStatusFlag != "" && string(p.Status) != proposalsStatusFlag {
				continue
			}
			filtered = append(filtered, p)
		}

		if !jsonOutput {
			if len(filtered) == 0 {
				fmt.Println("No proposals.")
			}
			for i := range filtered {
				fmt.Println(ui.ProposalLine(&filtered[i]))
			}
		}
		emitSuccess(map[string]interface{}{
			"proposals": filtered,
			"count":     len(filtered),
		})
		return nil
	},
}

var proposalsShowCmd = &cobra.Command{
	Use:   "show <proposal-id>",
	Short: "Show one proposal including its payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := store.GetProposal(args[0])
		if !ok {
			return apierr.NotFoundf("proposal %q not found", args[0])
		}

		if !jsonOutput {
			fmt.Println(ui.ProposalLine(p))
			for k, v := range p.Payload {
				fmt.Printf("  %s: %v\n", ui.Muted(k), v)
			}
			if p.AppliedAt != nil {
				fmt.Printf("  %s\n", ui.Muted("applied "+p.AppliedAt.Format("2006-01-02 15:04:05")))
			}
		}
		emitSuccess(map[string]interface{}{"proposal": p})
		return nil
	},
}

var proposalsApplyCmd = &cobra.Command{
	Use:   "apply <proposal-id>",
	Short: "Execute a pending proposal against the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := store.GetProposal(args[0])
		if !ok {
			return apierr.NotFoundf("proposal %q not found", args[0])
		}
		if p.Status == types.ProposalApplied {
			return apierr.Usagef("proposal %s was already applied", p.ID)
		}

		if err := requireConfirmation(string(p.Operation)); err != nil {
			return err
		}

		result, err := executor.ExecuteProposal(cmd.Context(), executorDeps(), p)
		if err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("%s applied %s\n", ui.Pass(ui.IconPass), ui.Bold(p.ID))
			if result.Item != nil {
				fmt.Println(ui.ItemLine(result.Item))
			}
		}
		emitSuccess(map[string]interface{}{
			"proposal": result.Proposal,
			"item":     result.Item,
		})
		return nil
	},
}

var proposalsArchiveCmd = &cobra.Command{
	Use:   "archive <proposal-id>",
	Short: "Remove a proposal from the local queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := store.GetProposal(args[0])
		if !ok {
			return apierr.NotFoundf("proposal %q not found", args[0])
		}

		// Archiving a pending proposal discards work that never ran, so
		// it gets the same confirmation gate as a direct apply.
		if p.Status == types.ProposalPending {
			if !jsonOutput {
				color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ %s is still pending and has not been applied\n", p.ID)
			}
			if err := requireConfirmation("archive of pending " + string(p.Operation)); err != nil {
				return err
			}
		}

		if _, err := store.RemoveProposal(p.ID); err != nil {
			return err
		}

		if !jsonOutput {
			fmt.Printf("%s archived %s\n", ui.Pass(ui.IconPass), p.ID)
		}
		emitSuccess(map[string]interface{}{"archived": p.ID})
		return nil
	},
}

func init() {
	proposalsListCmd.Flags().StringVar(&proposalsStatusFlag, "status", "", "Filter by status (pending|applied)")

	proposalsCmd.AddCommand(proposalsListCmd)
	proposalsCmd.AddCommand(proposalsShowCmd)
	proposalsCmd.AddCommand(proposalsApplyCmd)
	proposalsCmd.AddCommand(proposalsArchiveCmd)
	rootCmd.AddCommand(proposalsCmd)
}
