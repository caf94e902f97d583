// Package session holds the client's notion of the current
// authenticated user and their credential. The bearer token lives in a
// single system-keyring slot; the in-memory identity is present iff the
// token was validated against the backend.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/credential"
	"github.com/cityconnect/cityconnect/internal/model"
)

// Store owns the session state. All authenticated gateway calls flow
// through the token it installs on the API client.
type Store struct {
	client *api.Client
	creds  *credential.Store

	mu      sync.RWMutex
	user    *model.User
	token   string
	loading bool
}

// New creates an empty (anonymous) session store persisting its token
// through creds.
func New(client *api.Client, creds *credential.Store) *Store {
	return &Store{client: client, creds: creds}
}

// Load revalidates a previously stored token, if any. While the round
// trip is pending the store reports itself as loading so dependents can
// hold off rendering authenticated views. A token the backend rejects
// is deleted silently and the session stays anonymous.
func (s *Store) Load(ctx context.Context) {
	token, err := s.creds.Get(credential.TokenKey)
	if err != nil || token == "" {
		return
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		log.Printf("session: stored token rejected: %v", err)
		s.client.SetToken("")
		if delErr := s.creds.Delete(credential.TokenKey); delErr != nil {
			log.Printf("session: clearing stored token: %v", delErr)
		}
		return
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
}

// Login exchanges credentials for a token, persists it to the keyring,
// and populates the identity. The backend's error message is surfaced
// verbatim on rejection.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.creds.Set(credential.TokenKey, resp.Token); err != nil {
		// The session still works for this process; only persistence
		// across restarts is lost.
		log.Printf("session: persisting token: %v", err)
	}

	s.client.SetToken(resp.Token)

	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.token = resp.Token
	s.mu.Unlock()

	return &user, nil
}

// Register forwards an account creation request. It does not
// authenticate the caller.
func (s *Store) Register(ctx context.Context, email, password, name string, role model.Role) error {
	return s.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     role,
	})
}

// Logout clears the credential slot and the identity. Idempotent; there
// is no server-side revocation call.
func (s *Store) Logout() {
	if err := s.creds.Delete(credential.TokenKey); err != nil {
		log.Printf("session: deleting stored token: %v", err)
	}
	s.client.SetToken("")

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// User returns the current identity, nil when anonymous.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the validated bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a validated identity is present.
func (s *Store) Authenticated() bool {
	return s.User() != nil
}

// Loading reports whether startup revalidation is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin reports whether the current identity belongs to the admin
// role family. False when anonymous. Pure, no I/O.
func (s *Store) IsAdmin() bool {
	user := s.User()
	return user != nil && user.Role.IsAdmin()
}
