package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "engage"
	keyringKey     = "analytics_api_token"

	// EnvToken is checked as a fallback when no token is stored
	EnvToken = "ENGAGE_API_TOKEN"
)

var (
	// ErrTokenNotFound indicates no token is stored anywhere
	ErrTokenNotFound = errors.New("no analytics API token stored")

	// ErrReadOnlyStore indicates the store cannot persist tokens
	ErrReadOnlyStore = errors.New("store is read-only")
)

// TokenStore stores the analytics provider's API token
type TokenStore interface {
	// Set stores the token
	Set(token string) error
	// Get retrieves the token
	Get() (string, error)
	// Delete removes the token
	Delete() error
}

// KeyringStore keeps the token in the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a keychain-backed token store, verifying the
// keyring is usable first.
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

func (k *KeyringStore) Set(token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	if err := keyring.Set(keyringService, keyringKey, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

func (k *KeyringStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// EnvStore reads the token from the environment. Read-only.
type EnvStore struct{}

// NewEnvStore creates an environment-variable token store
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

func (e *EnvStore) Set(string) error {
	return ErrReadOnlyStore
}

func (e *EnvStore) Get() (string, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (e *EnvStore) Delete() error {
	return ErrReadOnlyStore
}

// Manager resolves the token across stores with fallback: keychain when
// available, environment variable otherwise.
type Manager struct {
	stores []TokenStore
}

// NewManager creates a token manager with the available backends
func NewManager() *Manager {
	var stores []TokenStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}
	stores = append(stores, NewEnvStore())

	return &Manager{stores: stores}
}

// NewManagerWithStores creates a manager over explicit stores (for tests)
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Set stores the token in the first store that can persist it
func (m *Manager) Set(token string) error {
	var lastErr error
	for _, s := range m.stores {
		if err := s.Set(token); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no token store available")
	}
	return lastErr
}

// Get returns the token from the first store that has one
func (m *Manager) Get() (string, error) {
	for _, s := range m.stores {
		token, err := s.Get()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Delete removes the token from every writable store
func (m *Manager) Delete() error {
	var lastErr error
	deleted := false
	for _, s := range m.stores {
		err := s.Delete()
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, ErrReadOnlyStore):
			continue
		default:
			lastErr = err
		}
	}
	if !deleted && lastErr != nil {
		return lastErr
	}
	return nil
}
