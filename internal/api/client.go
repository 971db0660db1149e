// Package api implements the HTTP client for the sortd backend. The
// persisted session is the single source of truth for credentials:
// every request attaches the stored cookies and CSRF token, and every
// response carrying Set-Cookie updates the session before the caller
// sees the result.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/debug"
	"github.com/sortdhq/sortd/internal/state"
	"github.com/sortdhq/sortd/internal/types"
)

// DefaultTimeout bounds a single request. There is no transient-failure
// retry in this layer; that is left to the invoking script.
const DefaultTimeout = 30 * time.Second

const (
	csrfHeader      = "X-CSRF-Token"
	requestIDHeader = "X-Request-Id"
)

// Client issues requests against one backend host.
type Client struct {
	host       string
	store      *state.Store
	HTTPClient *http.Client

	// ReauthFunc, when set, is invoked once after a 401/403 on a
	// request that opted into RetryOnAuth. It must refresh the stored
	// session (typically by re-running the login flow). Call sites
	// that must not trigger a login loop (login itself) never opt in.
	ReauthFunc func(ctx context.Context) error

	lastRequestID string
}

// RequestOptions controls per-call client behavior.
type RequestOptions struct {
	// RetryOnAuth allows exactly one re-authentication and retry after
	// a 401/403. A second auth failure surfaces unmodified.
	RetryOnAuth bool
}

// NewClient creates a client for host backed by the given state store.
func NewClient(host string, store *state.Store) *Client {
	return &Client{
		host:  host,
		store: store,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Host returns the backend host this client is bound to.
func (c *Client) Host() string { return c.host }

// LastRequestID returns the X-Request-Id of the most recent response,
// if the server sent one.
func (c *Client) LastRequestID() string { return c.lastRequestID }

// Session returns the current persisted session for this host.
func (c *Client) Session() *types.SessionState {
	return c.store.LoadSession(c.host)
}

// RequestJSON performs a request and decodes the JSON response into out
// (which may be nil). With RetryOnAuth set and a ReauthFunc configured,
// a 401/403 triggers one re-login and one retry; the retry budget is
// enforced by a zero-delay backoff capped at a single attempt, so a
// permanently invalid credential cannot cause a retry storm.
func (c *Client) RequestJSON(ctx context.Context, method, path string, body, out interface{}, opts RequestOptions) error {
	if !opts.RetryOnAuth || c.ReauthFunc == nil {
		return c.do(ctx, method, path, body, out)
	}

	relogged := false
	operation := func() error {
		err := c.do(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) && apiErr.Category == apierr.CategoryAuth && !relogged {
			relogged = true
			debug.Logf("auth failure on %s %s, attempting re-login", method, path)
			if lerr := c.ReauthFunc(ctx); lerr != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	return backoff.Retry(operation, policy)
}

// do performs a single request attempt with the current session.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	sess := c.store.LoadSession(c.host)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for name, value := range sess.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if sess.CSRFToken != "" && isMutating(method) {
		req.Header.Set(csrfHeader, sess.CSRFToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apierr.Network(err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return apierr.Network(fmt.Errorf("read response: %w", err))
	}

	saveErr := c.updateSession(sess, resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFromBody(resp.StatusCode, respBody)
	}
	if saveErr != nil {
		return saveErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &apierr.Error{
				Category: apierr.CategoryServer,
				Code:     apierr.CodeServerError,
				Message:  fmt.Sprintf("malformed response body: %v", err),
				Status:   resp.StatusCode,
			}
		}
	}

	return nil
}

// updateSession folds response cookies and a rotated CSRF token back
// into the persisted session. Cookies must always reflect the most
// recent Set-Cookie seen, so this runs for every response, success or
// not.
func (c *Client) updateSession(sess *types.SessionState, resp *http.Response) error {
	if rid := resp.Header.Get(requestIDHeader); rid != "" {
		c.lastRequestID = rid
	}

	changed := false
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 {
			if _, ok := sess.Cookies[ck.Name]; ok {
				delete(sess.Cookies, ck.Name)
				changed = true
			}
			continue
		}
		if sess.Cookies[ck.Name] != ck.Value {
			sess.Cookies[ck.Name] = ck.Value
			changed = true
		}
	}
	if tok := resp.Header.Get(csrfHeader); tok != "" && tok != sess.CSRFToken {
		sess.CSRFToken = tok
		changed = true
	}

	if !changed {
		return nil
	}
	return c.store.SaveSession(sess)
}

// cacheUser stores a fresh user snapshot in the session.
func (c *Client) cacheUser(user *types.StoredUser) error {
	sess := c.store.LoadSession(c.host)
	sess.User = user
	return c.store.SaveSession(sess)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// apiErrorFromBody maps a non-2xx response to a typed error, pulling
// the structured code/message/details out of the body when present.
func apiErrorFromBody(status int, body []byte) *apierr.Error {
	var envelope struct {
		Error struct {
			Code    string      `json:"code"`
			Message string      `json:"message"`
			Details interface{} `json:"details"`
		} `json:"error"`
	}
	if len(body) > 0 {
		_ = json.Unmarshal(body, &envelope)
	}
	return apierr.FromStatus(status, envelope.Error.Code, envelope.Error.Message, envelope.Error.Details)
}
