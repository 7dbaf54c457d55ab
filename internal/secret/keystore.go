// Package secret keeps profile private keys out of the profile document.
package secret

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "evolute-admin"

// RefPrefix marks a document value as a reference into a Store.
const RefPrefix = "keyring:"

// ErrNotFound is returned when a reference has no stored secret.
var ErrNotFound = errors.New("secret not found")

// Store persists opaque secrets by reference.
type Store interface {
	Set(ref, value string) error
	Get(ref string) (string, error)
	Remove(ref string) error
}

// Ref returns the keychain reference for a profile id.
func Ref(profileID string) string {
	return serviceName + "." + profileID
}

// IsRef reports whether a stored value is a keychain reference and returns it.
func IsRef(value string) (string, bool) {
	if !strings.HasPrefix(value, RefPrefix) {
		return "", false
	}
	return strings.TrimPrefix(value, RefPrefix), true
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// OpenKeystore returns a keystore backed by the OS keychain. fileDir is used
// by the encrypted-file backend when no keychain service is reachable.
func OpenKeystore(fileDir string) (*Keystore, error) {
	cfg := keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName),
	}

	// On Linux without a desktop session, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		ring, err = keyring.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open keychain: %w", err)
		}
	}
	return &Keystore{ring: ring}, nil
}

// NewKeystore wraps an already opened keyring.
func NewKeystore(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// Set stores value under ref.
func (k *Keystore) Set(ref, value string) error {
	if err := k.ring.Set(keyring.Item{Key: ref, Data: []byte(value)}); err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// Get fetches the value stored under ref.
func (k *Keystore) Get(ref string) (string, error) {
	item, err := k.ring.Get(ref)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Remove deletes ref. Removing a missing ref is not an error.
func (k *Keystore) Remove(ref string) error {
	err := k.ring.Remove(ref)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keychain remove: %w", err)
	}
	return nil
}

// MemStore keeps secrets in memory (for tests and dry runs).
type MemStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemStore creates an in-memory secret store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (m *MemStore) Set(ref, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ref] = value
	return nil
}

func (m *MemStore) Get(ref string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[ref]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemStore) Remove(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ref)
	return nil
}

// Refs lists every stored ref.
func (m *MemStore) Refs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for ref := range m.data {
		out = append(out, ref)
	}
	return out, nil
}
