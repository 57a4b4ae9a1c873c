// Package credential keeps the static GitHub token in the OS keychain.
package credential

import (
	"errors"
	"fmt"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain.
	KeyringService = "repopulse"

	// KeyringTokenItem is the item holding the GitHub token.
	KeyringTokenItem = "github-token"
)

// KeyringStore stores the token with the platform keychain:
// Keychain on macOS, Credential Manager on Windows, Secret Service on Linux.
type KeyringStore struct {
	service string
	item    string
}

var _ contract.CredentialStore = &KeyringStore{} // Compile-time check

// NewKeyringStore returns a store for the default service and item.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService, item: KeyringTokenItem}
}

// Get returns the stored token, or contract.ErrTokenNotFound when none is set.
func (s *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(s.service, s.item)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", contract.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return token, nil
}

// Set stores a token, replacing any previous one.
func (s *KeyringStore) Set(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}
	if err := keyring.Set(s.service, s.item, token); err != nil {
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	contract.Logger.WithField("service", s.service).Debug("github token saved to keychain")
	return nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *KeyringStore) Delete() error {
	err := keyring.Delete(s.service, s.item)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}
	return nil
}
