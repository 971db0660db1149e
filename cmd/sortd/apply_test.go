package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortdhq/sortd/internal/state"
	"github.com/sortdhq/sortd/internal/types"
)

func TestApplyCreateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SORTD_CONFIG_DIR", dir)

	var created map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/orgs/org_1/items", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		now := time.Now().UTC()
		rec := types.ItemRecord{
			ItemID:      "itm_9",
			CanonicalID: "sortd:item/itm_9",
			Item:        types.ItemDoc{Name: "Ship it", Type: types.TypeAction, Bucket: types.BucketNext},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		w.Header().Set("X-Request-Id", "req_42")
		_ = json.NewEncoder(w).Encode(rec)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := runCommand(t, "items", "create", "--name", "Ship it", "--bucket", "next",
		"--apply", "--yes", "--org-id", "org_1", "--host", srv.URL)
	require.NoError(t, err)

	require.Contains(t, created, "item")
	doc := created["item"].(map[string]interface{})
	assert.Equal(t, "Ship it", doc["name"])
	assert.Equal(t, "next", doc["bucket"])

	// The applied proposal is persisted exactly once, post-success.
	queued := state.NewStore(dir).LoadProposals()
	require.Len(t, queued, 1)
	assert.Equal(t, types.ProposalApplied, queued[0].Status)
	assert.NotNil(t, queued[0].AppliedAt)
}

func TestApplyTriageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SORTD_CONFIG_DIR", dir)

	updatedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	current := types.ItemRecord{
		ItemID:      "itm_1",
		CanonicalID: "sortd:item/itm_1",
		Item:        types.ItemDoc{Name: "Call plumber", Type: types.TypeAction, Bucket: types.BucketInbox},
		UpdatedAt:   updatedAt,
	}

	var patch map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/itm_1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(current)
	})
	mux.HandleFunc("PATCH /api/v1/items/itm_1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		after := current
		after.Item.Bucket = types.BucketNext
		after.UpdatedAt = time.Now().UTC()
		_ = json.NewEncoder(w).Encode(after)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := runCommand(t, "items", "triage", "itm_1", "--bucket", "next",
		"--apply", "--yes", "--org-id", "org_1", "--host", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "next", patch["bucket"])
	assert.Equal(t, updatedAt.Format(time.RFC3339Nano), patch["expected_updated_at"])

	queued := state.NewStore(dir).LoadProposals()
	require.Len(t, queued, 1)
	assert.Equal(t, types.ProposalApplied, queued[0].Status)
}

func TestQueuedProposalAppliedLater(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SORTD_CONFIG_DIR", dir)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/orgs/org_1/items", func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		_ = json.NewEncoder(w).Encode(types.ItemRecord{
			ItemID:    "itm_2",
			Item:      types.ItemDoc{Name: "Queued task", Type: types.TypeAction, Bucket: types.BucketInbox},
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	require.NoError(t, runCommand(t, "items", "create", "--name", "Queued task"))
	queued := state.NewStore(dir).LoadProposals()
	require.Len(t, queued, 1)
	id := queued[0].ID

	err := runCommand(t, "proposals", "apply", id, "--yes", "--org-id", "org_1", "--host", srv.URL)
	require.NoError(t, err)

	after := state.NewStore(dir).LoadProposals()
	require.Len(t, after, 1)
	assert.Equal(t, types.ProposalApplied, after[0].Status)

	// A second apply is rejected as a usage error.
	err = runCommand(t, "proposals", "apply", id, "--yes", "--org-id", "org_1", "--host", srv.URL)
	require.Error(t, err)
}
