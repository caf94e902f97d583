package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "cityconnect"

// TokenKey is the single credential slot used for the API bearer token.
const TokenKey = "api-token"

// Store wraps a keyring backend holding the client's credential slots.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the platform keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/cityconnect/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("cityconnect-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewStore wraps an existing keyring backend.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// NewEphemeral returns a Store backed by process memory, for when the
// platform keyring cannot be opened. Credentials stored here do not
// survive a restart.
func NewEphemeral() *Store {
	return NewStore(keyring.NewArrayKeyring(nil))
}

// Get retrieves a credential value by key.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (s *Store) Set(key string, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
