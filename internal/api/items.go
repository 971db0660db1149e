package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sortdhq/sortd/internal/types"
)

const (
	// DefaultPerPage is the page size requested when listing items.
	DefaultPerPage = 100

	// MaxPages bounds the pagination loop so a server that never stops
	// returning full pages cannot spin the client forever.
	MaxPages = 20
)

// ListOrgs returns the organizations the user belongs to.
func (c *Client) ListOrgs(ctx context.Context) ([]types.Organization, error) {
	var resp struct {
		Orgs []types.Organization `json:"orgs"`
	}
	if err := c.RequestJSON(ctx, http.MethodGet, "/api/v1/orgs", nil, &resp, RequestOptions{RetryOnAuth: true}); err != nil {
		return nil, err
	}
	return resp.Orgs, nil
}

// ListItems fetches the full item collection for an org, sequentially
// paginated and bounded at MaxPages.
func (c *Client) ListItems(ctx context.Context, orgID string) ([]types.ItemRecord, error) {
	var all []types.ItemRecord

	for page := 1; page <= MaxPages; page++ {
		path := fmt.Sprintf("/api/v1/orgs/%s/items?page=%d&per_page=%d",
			url.PathEscape(orgID), page, DefaultPerPage)

		var resp struct {
			Items []types.ItemRecord `json:"items"`
		}
		if err := c.RequestJSON(ctx, http.MethodGet, path, nil, &resp, RequestOptions{RetryOnAuth: true}); err != nil {
			return nil, fmt.Errorf("list items page %d: %w", page, err)
		}

		all = append(all, resp.Items...)
		if len(resp.Items) < DefaultPerPage {
			break
		}
	}

	return all, nil
}

// GetItem fetches a single item record by its internal id.
func (c *Client) GetItem(ctx context.Context, itemID string) (*types.ItemRecord, error) {
	var rec types.ItemRecord
	path := "/api/v1/items/" + url.PathEscape(itemID)
	if err := c.RequestJSON(ctx, http.MethodGet, path, nil, &rec, RequestOptions{RetryOnAuth: true}); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateItem creates an item in the given org and returns the record
// the server assigned ids to.
func (c *Client) CreateItem(ctx context.Context, orgID string, doc types.ItemDoc) (*types.ItemRecord, error) {
	var rec types.ItemRecord
	path := fmt.Sprintf("/api/v1/orgs/%s/items", url.PathEscape(orgID))
	body := map[string]interface{}{"item": doc}
	if err := c.RequestJSON(ctx, http.MethodPost, path, body, &rec, RequestOptions{RetryOnAuth: true}); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PatchItem applies a partial update to an item. Callers include
// expected_updated_at so the server can reject stale writes with 409.
func (c *Client) PatchItem(ctx context.Context, itemID string, patch map[string]interface{}) (*types.ItemRecord, error) {
	var rec types.ItemRecord
	path := "/api/v1/items/" + url.PathEscape(itemID)
	if err := c.RequestJSON(ctx, http.MethodPatch, path, patch, &rec, RequestOptions{RetryOnAuth: true}); err != nil {
		return nil, err
	}
	return &rec, nil
}
