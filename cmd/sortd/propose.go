package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sortdhq/sortd/internal/executor"
	"github.com/sortdhq/sortd/internal/state"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/ui"
)

// runProposeOrApply is the shared tail of every mutating command. The
// caller has already validated the payload; this either queues it
// (default) or confirms and executes it immediately. An applied
// proposal is persisted only after the remote call succeeded, so a
// failed --apply leaves no queue entry behind.
func runProposeOrApply(ctx context.Context, op types.Operation, payload interface{}, apply bool) error {
	m, err := types.PayloadMap(payload)
	if err != nil {
		return err
	}

	if !apply {
		p, err := store.AddProposal(op, m)
		if err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("%s queued %s\n", ui.Pass(ui.IconPass), ui.Bold(p.ID))
			fmt.Printf("  apply with: sortd proposals apply %s\n", p.ID)
		}
		emitSuccess(map[string]interface{}{"mode": "proposal", "proposal": p})
		return nil
	}

	if err := requireConfirmation(string(op)); err != nil {
		return err
	}

	p := &types.ProposalState{
		ID:        state.NewProposalID(),
		Operation: op,
		Status:    types.ProposalPending,
		CreatedAt: time.Now().UTC(),
		Payload:   m,
	}
	result, err := executor.ExecuteProposal(ctx, executorDeps(), p)
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
		"mode":     "applied",
		"proposal": result.Proposal,
		"item":     result.Item,
	})
	return nil
}
