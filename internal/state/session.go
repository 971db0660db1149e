package state

import (
	"time"

	"github.com/sortdhq/sortd/internal/types"
)

// DefaultSession returns an empty session scoped to host.
func DefaultSession(host string) *types.SessionState {
	return &types.SessionState{
		Host:    host,
		Cookies: map[string]string{},
	}
}

// LoadSession rehydrates the persisted session for host. A missing or
// corrupt file, or a session stored for a different host, yields a
// fresh default; missing fields are defensively filled in.
func (s *Store) LoadSession(host string) *types.SessionState {
	var sess types.SessionState
	if !s.readJSON(s.sessionPath(), &sess) {
		return DefaultSession(host)
	}
	if sess.Host != host {
		return DefaultSession(host)
	}
	if sess.Cookies == nil {
		sess.Cookies = map[string]string{}
	}
	return &sess
}

// SaveSession stamps UpdatedAt and persists the session.
func (s *Store) SaveSession(sess *types.SessionState) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.writeJSON(s.sessionPath(), sess)
}

// ClearSession resets the session for host to its default and persists
// it. Used on logout and on unrecoverable auth failure.
func (s *Store) ClearSession(host string) error {
	return s.SaveSession(DefaultSession(host))
}
