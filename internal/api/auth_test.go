package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPersistsSessionAndUser(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])

		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "fresh"})
		w.Header().Set("X-CSRF-Token", "csrf-login")
		fmt.Fprint(w, `{"user":{"id":"usr_1","email":"a@b.c","default_org_id":"org_1"}}`)
	}))

	user, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "usr_1", user.ID)

	sess := store.LoadSession(client.Host())
	assert.Equal(t, "fresh", sess.Cookies["sid"])
	assert.Equal(t, "csrf-login", sess.CSRFToken)
	require.NotNil(t, sess.User)
	assert.Equal(t, "org_1", sess.User.DefaultOrgID)
}

func TestLoginDoesNotTriggerReauthLoop(t *testing.T) {
	attempts := 0
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad password"}}`)
	}))
	client.ReauthFunc = func(ctx context.Context) error {
		t.Fatal("login must never invoke the re-auth hook")
		return nil
	}

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestLogoutClearsLocalSessionEvenOnRemoteFailure(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	sess := store.LoadSession(client.Host())
	sess.Cookies["sid"] = "abc"
	require.NoError(t, store.SaveSession(sess))

	err := client.Logout(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.LoadSession(client.Host()).Cookies)
}

func TestMeRefreshesCachedUser(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user":{"id":"usr_2","email":"b@c.d","default_org_id":"org_9"}}`)
	}))

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "usr_2", user.ID)

	cached := store.LoadSession(client.Host()).User
	require.NotNil(t, cached)
	assert.Equal(t, "org_9", cached.DefaultOrgID)
}
