// Package executor turns a validated proposal into the concrete remote
// API calls. Exactly one remote mutation per successful execution; the
// local queue entry is marked applied only after the remote call
// succeeds.
package executor

import (
	"context"
	"time"

	"github.com/sortdhq/sortd/internal/api"
	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/debug"
	"github.com/sortdhq/sortd/internal/resolver"
	"github.com/sortdhq/sortd/internal/state"
	"github.com/sortdhq/sortd/internal/types"
	"github.com/sortdhq/sortd/internal/validate"
)

// Deps bundles what the executor needs. Threaded explicitly so tests
// can point it at temp directories and httptest servers.
type Deps struct {
	Client *api.Client
	Store  *state.Store

	// OrgID is the --org-id / SORTD_ORG_ID override, empty when the
	// caller left the organization implicit.
	OrgID string
}

// Result is the normalized outcome of a successful execution.
type Result struct {
	Operation types.Operation      `json:"operation"`
	Proposal  *types.ProposalState `json:"proposal"`
	Item      *types.ItemRecord    `json:"item"`
}

// ExecuteProposal dispatches on the proposal's operation. The operation
// value was deserialized from disk, so the discriminator is checked at
// runtime; an unknown value is a contract violation, never silently
// skipped.
func ExecuteProposal(ctx context.Context, deps Deps, p *types.ProposalState) (*Result, error) {
	switch p.Operation {
	case types.OpItemsCreate:
		return executeCreate(ctx, deps, p)
	case types.OpItemsTriage:
		return executeTriage(ctx, deps, p)
	default:
		return nil, apierr.Unsupportedf("unsupported proposal operation %q", p.Operation)
	}
}

func executeCreate(ctx context.Context, deps Deps, p *types.ProposalState) (*Result, error) {
	payload, err := types.DecodeCreatePayload(p.Payload)
	if err != nil {
		return nil, validate.ErrIfInvalid(validate.PayloadIssue(err), "items.create")
	}

	orgID := payload.OrgID
	if orgID == "" {
		orgID = deps.OrgID
	}
	if orgID == "" {
		orgID, err = ResolveOrg(ctx, deps)
		if err != nil {
			return nil, err
		}
	}
	payload.OrgID = orgID

	// Defense in depth: the payload may predate the current rules.
	if err := validate.ErrIfInvalid(validate.Create(payload), "items.create"); err != nil {
		return nil, err
	}

	rec, err := deps.Client.CreateItem(ctx, orgID, payload.Doc())
	if err != nil {
		return nil, err
	}

	if err := markApplied(deps.Store, p); err != nil {
		return nil, err
	}
	return &Result{Operation: p.Operation, Proposal: p, Item: rec}, nil
}

func executeTriage(ctx context.Context, deps Deps, p *types.ProposalState) (*Result, error) {
	payload, err := types.DecodeTriagePayload(p.Payload)
	if err != nil {
		return nil, validate.ErrIfInvalid(validate.PayloadIssue(err), "items.triage")
	}
	if err := validate.ErrIfInvalid(validate.Triage(payload), "items.triage"); err != nil {
		return nil, err
	}

	orgID := payload.OrgID
	if orgID == "" {
		orgID = deps.OrgID
	}
	if orgID == "" {
		orgID, err = ResolveOrg(ctx, deps)
		if err != nil {
			return nil, err
		}
	}

	// Fetch fresh state: the transition is validated against the
	// item's current remote bucket, never a cached one.
	rec, err := resolver.ResolveItem(ctx, deps.Client, orgID, payload.Item)
	if err != nil {
		return nil, err
	}

	issues := validate.Transition(rec.Item.Type, rec.Item.Bucket, payload.Bucket)
	if err := validate.ErrIfInvalid(issues, "items.triage"); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"bucket":              payload.Bucket,
		"expected_updated_at": rec.UpdatedAt.Format(time.RFC3339Nano),
	}
	updated, err := deps.Client.PatchItem(ctx, rec.ItemID, patch)
	if err != nil {
		return nil, err
	}

	if err := markApplied(deps.Store, p); err != nil {
		return nil, err
	}
	return &Result{Operation: p.Operation, Proposal: p, Item: updated}, nil
}

// ResolveOrg infers the organization when none was supplied: the cached
// session user's default org, then a fresh me() call, then sole
// membership. Anything else is an explicit usage error.
func ResolveOrg(ctx context.Context, deps Deps) (string, error) {
	if sess := deps.Client.Session(); sess.User != nil && sess.User.DefaultOrgID != "" {
		return sess.User.DefaultOrgID, nil
	}

	user, err := deps.Client.Me(ctx)
	if err != nil {
		return "", err
	}
	if user != nil && user.DefaultOrgID != "" {
		debug.Logf("resolved org %s from fresh user snapshot", user.DefaultOrgID)
		return user.DefaultOrgID, nil
	}

	orgs, err := deps.Client.ListOrgs(ctx)
	if err != nil {
		return "", err
	}
	if len(orgs) == 1 {
		debug.Logf("resolved org %s from sole membership", orgs[0].OrgID)
		return orgs[0].OrgID, nil
	}

	return "", apierr.OrgContextMissing()
}

// markApplied flips the proposal to applied and persists it. Runs only
// after the remote mutation succeeded; there is no optimistic marking.
func markApplied(store *state.Store, p *types.ProposalState) error {
	now := time.Now().UTC()
	p.Status = types.ProposalApplied
	p.AppliedAt = &now
	return store.UpdateProposal(p)
}
