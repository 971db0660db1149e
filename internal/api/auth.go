package api

import (
	"context"
	"net/http"

	"github.com/sortdhq/sortd/internal/types"
)

// Credentials are the login inputs, sourced from flags, prompts, or the
// SORTD_EMAIL/SORTD_PASSWORD environment.
type Credentials struct {
	Email    string
	Password string
}

type userResponse struct {
	User *types.StoredUser `json:"user"`
}

// Register creates an account. Never retried on auth failure: there is
// no session to refresh yet.
func (c *Client) Register(ctx context.Context, email, password, username string) (*types.StoredUser, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	if username != "" {
		body["username"] = username
	}

	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	if err := c.cacheUser(resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login authenticates and persists the resulting session cookies and
// CSRF token. Deliberately bypasses the retry decorator so a bad
// password cannot trigger a login loop.
func (c *Client) Login(ctx context.Context, creds Credentials) (*types.StoredUser, error) {
	body := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}

	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if err := c.cacheUser(resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout tells the server to invalidate the session, then resets the
// local one. The local reset happens even when the remote call fails:
// a stale server-side session is preferable to stale local credentials.
func (c *Client) Logout(ctx context.Context) error {
	remoteErr := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	if err := c.store.ClearSession(c.host); err != nil {
		return err
	}
	return remoteErr
}

// Me fetches the authenticated user and refreshes the cached snapshot.
func (c *Client) Me(ctx context.Context) (*types.StoredUser, error) {
	var resp userResponse
	if err := c.RequestJSON(ctx, http.MethodGet, "/api/v1/me", nil, &resp, RequestOptions{RetryOnAuth: true}); err != nil {
		return nil, err
	}
	if err := c.cacheUser(resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}
