// Package resolver turns a user-supplied identifier into a remote item
// record. Users address items by whatever they remember: the internal
// id, the canonical id, the embedded document URI, or the item's exact
// name.
package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/debug"
	"github.com/sortdhq/sortd/internal/types"
)

// ItemSource is the slice of the API client the resolver needs.
type ItemSource interface {
	GetItem(ctx context.Context, itemID string) (*types.ItemRecord, error)
	ListItems(ctx context.Context, orgID string) ([]types.ItemRecord, error)
}

// matcher is one predicate in the fallback scan. Matchers run in
// priority order: exact-id matches always beat name matches.
type matcher struct {
	name  string
	match func(rec *types.ItemRecord, identifier string) bool
}

var matchers = []matcher{
	{"item_id", func(rec *types.ItemRecord, id string) bool {
		return rec.ItemID == id
	}},
	{"canonical_id", func(rec *types.ItemRecord, id string) bool {
		return rec.CanonicalID == id
	}},
	{"document_id", func(rec *types.ItemRecord, id string) bool {
		return rec.Item.ID != "" && rec.Item.ID == id
	}},
	{"name", func(rec *types.ItemRecord, id string) bool {
		return strings.EqualFold(rec.Item.Name, id)
	}},
}

// ResolveItem resolves identifier against the org's collection: a
// direct get-by-id first, then a full listing scanned with the ordered
// matchers. Within one matcher the first match in listing order wins;
// duplicate names are an acknowledged ambiguity, not silently resolved
// by recency.
func ResolveItem(ctx context.Context, src ItemSource, orgID, identifier string) (*types.ItemRecord, error) {
	rec, err := src.GetItem(ctx, identifier)
	if err == nil {
		return rec, nil
	}

	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Category != apierr.CategoryNotFound {
		return nil, err
	}

	debug.Logf("direct lookup of %q missed, scanning collection", identifier)
	records, err := src.ListItems(ctx, orgID)
	if err != nil {
		return nil, err
	}

	for _, m := range matchers {
		for i := range records {
			if m.match(&records[i], identifier) {
				debug.Logf("resolved %q via %s", identifier, m.name)
				return &records[i], nil
			}
		}
	}

	return nil, apierr.NotFoundf("item %q not found by id, canonical id, document id, or name", identifier)
}
