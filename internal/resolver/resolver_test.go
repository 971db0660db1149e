package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/resolver"
	"github.com/sortdhq/sortd/internal/types"
)

// fakeSource serves a canned collection; GetItem only hits on exact
// internal ids, like the real endpoint.
type fakeSource struct {
	records   []types.ItemRecord
	getCalls  int
	listCalls int
	listErr   error
}

func (f *fakeSource) GetItem(ctx context.Context, itemID string) (*types.ItemRecord, error) {
	f.getCalls++
	for i := range f.records {
		if f.records[i].ItemID == itemID {
			return &f.records[i], nil
		}
	}
	return nil, apierr.FromStatus(404, "", "no such item", nil)
}

func (f *fakeSource) ListItems(ctx context.Context, orgID string) ([]types.ItemRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func testRecords() []types.ItemRecord {
	return []types.ItemRecord{
		{
			ItemID:      "itm_1",
			CanonicalID: "sortd:item:aaa",
			Item:        types.ItemDoc{ID: "https://sortd.dev/items/aaa", Name: "Write report", Type: types.TypeAction, Bucket: types.BucketNext},
		},
		{
			ItemID:      "itm_2",
			CanonicalID: "sortd:item:bbb",
			Item:        types.ItemDoc{ID: "https://sortd.dev/items/bbb", Name: "Plan offsite", Type: types.TypeProject, Bucket: types.BucketInbox},
		},
		{
			ItemID:      "itm_3",
			CanonicalID: "sortd:item:ccc",
			Item:        types.ItemDoc{Name: "Plan offsite", Type: types.TypeAction, Bucket: types.BucketWaiting},
		},
	}
}

func TestResolveDirectByID(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "itm_2")
	require.NoError(t, err)
	assert.Equal(t, "itm_2", rec.ItemID)
	assert.Equal(t, 0, src.listCalls, "direct hit must not trigger a scan")
}

func TestResolveByCanonicalID(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "sortd:item:ccc")
	require.NoError(t, err)
	assert.Equal(t, "itm_3", rec.ItemID)
	assert.Equal(t, 1, src.listCalls)
}

func TestResolveByDocumentURI(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "https://sortd.dev/items/bbb")
	require.NoError(t, err)
	assert.Equal(t, "itm_2", rec.ItemID)
}

func TestResolveByNameCaseInsensitive(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "WRITE REPORT")
	require.NoError(t, err)
	assert.Equal(t, "itm_1", rec.ItemID)
}

func TestResolveNameTieFirstMatchWins(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	// itm_2 and itm_3 share a name; the first in listing order wins.
	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "Plan offsite")
	require.NoError(t, err)
	assert.Equal(t, "itm_2", rec.ItemID)
}

func TestResolveIDBeatsName(t *testing.T) {
	records := testRecords()
	// An item literally named after another item's id must lose to the
	// exact-id match.
	records = append(records, types.ItemRecord{
		ItemID: "itm_4",
		Item:   types.ItemDoc{Name: "sortd:item:aaa", Type: types.TypeNote, Bucket: types.BucketInbox},
	})
	src := &fakeSource{records: records}

	rec, err := resolver.ResolveItem(context.Background(), src, "org_1", "sortd:item:aaa")
	require.NoError(t, err)
	assert.Equal(t, "itm_1", rec.ItemID)
}

func TestResolveNotFound(t *testing.T) {
	src := &fakeSource{records: testRecords()}

	_, err := resolver.ResolveItem(context.Background(), src, "org_1", "nothing matches this")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CategoryNotFound, apiErr.Category)
	assert.Equal(t, 5, apiErr.ExitCode())
}

func TestResolveNonNotFoundErrorsPropagate(t *testing.T) {
	src := &fakeSource{
		records: nil,
		listErr: apierr.FromStatus(500, "", "boom", nil),
	}

	_, err := resolver.ResolveItem(context.Background(), src, "org_1", "anything")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CategoryServer, apiErr.Category)
}
