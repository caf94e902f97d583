package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/credential"
)

func newTestSession(t *testing.T, handler http.HandlerFunc) (*Store, *api.Client, *credential.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	creds := credential.NewEphemeral()
	return New(client, creds), client, creds
}

func authHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			w.Write([]byte(`{
				"token": "T",
				"user": {"id":"u1","email":"a@b.c","name":"Ana","role":"warga"}
			}`))
		case "/api/v1/auth/me":
			if r.Header.Get("Authorization") != "Bearer T" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid token"}`))
				return
			}
			w.Write([]byte(`{"id":"u1","email":"a@b.c","name":"Ana","role":"warga"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestLoginPopulatesIdentityAndPersistsToken(t *testing.T) {
	s, client, creds := newTestSession(t, authHandler(t))

	user, err := s.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, "Ana", user.Name)
	assert.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "T", s.Token())

	// The token is installed on the client and persisted to the slot.
	assert.Equal(t, "T", client.Token())
	stored, err := creds.Get(credential.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "T", stored)
}

func TestLoginRejectedLeavesSessionAnonymous(t *testing.T) {
	s, client, creds := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	})

	_, err := s.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
	assert.True(t, api.IsAuthError(err))

	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
	assert.Empty(t, client.Token())
	_, err = creds.Get(credential.TokenKey)
	assert.Error(t, err)
}

func TestLoadRevalidatesStoredToken(t *testing.T) {
	s, client, creds := newTestSession(t, authHandler(t))
	require.NoError(t, creds.Set(credential.TokenKey, "T"))

	s.Load(context.Background())

	assert.True(t, s.Authenticated())
	assert.Equal(t, "Ana", s.User().Name)
	assert.Equal(t, "T", s.Token())
	assert.Equal(t, "T", client.Token())
	assert.False(t, s.Loading())
}

func TestLoadRejectedTokenIsClearedSilently(t *testing.T) {
	s, client, creds := newTestSession(t, authHandler(t))
	require.NoError(t, creds.Set(credential.TokenKey, "expired"))

	s.Load(context.Background())

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, client.Token())

	// The rejected token is removed from the slot.
	_, err := creds.Get(credential.TokenKey)
	assert.Error(t, err)
}

func TestLoadWithoutStoredTokenStaysAnonymous(t *testing.T) {
	var calls int
	s, _, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	s.Load(context.Background())

	assert.False(t, s.Authenticated())
	assert.Zero(t, calls)
}

func TestLogoutIsIdempotent(t *testing.T) {
	s, client, creds := newTestSession(t, authHandler(t))

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	s.Logout()
	assert.False(t, s.Authenticated())
	assert.Empty(t, client.Token())
	_, err = creds.Get(credential.TokenKey)
	assert.Error(t, err)

	// A second logout is a no-op.
	s.Logout()
	assert.False(t, s.Authenticated())
}

func TestIsAdminFollowsRolePrefix(t *testing.T) {
	s, _, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"token": "T",
			"user": {"id":"u2","email":"x@y.z","name":"Budi","role":"admin_kebersihan","department":"Kebersihan"}
		}`))
	})

	// Anonymous sessions are never admin.
	assert.False(t, s.IsAdmin())

	_, err := s.Login(context.Background(), "x@y.z", "pw")
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
}
