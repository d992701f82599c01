package custody

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sort"
	"sync"
)

// MockBackend is a test double for SecretsBackend. All function fields
// must be set before the corresponding method is called.
type MockBackend struct {
	CreateKeyFn func(ctx context.Context, name string) (ed25519.PublicKey, error)
	ListKeysFn  func(ctx context.Context) ([]string, error)
	ReadKeyFn   func(ctx context.Context, name string) (ed25519.PublicKey, error)
	SignFn      func(ctx context.Context, name string, message []byte) (string, error)
}

func (m *MockBackend) CreateKey(ctx context.Context, name string) (ed25519.PublicKey, error) {
	return m.CreateKeyFn(ctx, name)
}
func (m *MockBackend) ListKeys(ctx context.Context) ([]string, error) {
	return m.ListKeysFn(ctx)
}
func (m *MockBackend) ReadKey(ctx context.Context, name string) (ed25519.PublicKey, error) {
	return m.ReadKeyFn(ctx, name)
}
func (m *MockBackend) Sign(ctx context.Context, name string, message []byte) (string, error) {
	return m.SignFn(ctx, name, message)
}

// MemoryBackend is an in-process SecretsBackend with real ed25519 keys.
// It mirrors the transit contract (idempotent create-if-absent, versioned
// signature envelopes) and is intended for tests and local development.
type MemoryBackend struct {
	mu   sync.Mutex
	keys map[string]ed25519.PrivateKey

	// CreateCalls and SignCalls count backend operations, letting tests
	// assert that read-only paths never provision and that rejected
	// approvals never reach the signing endpoint.
	CreateCalls int
	SignCalls   int
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{keys: make(map[string]ed25519.PrivateKey)}
}

// CreateKey generates a key under name if absent and returns its public key.
func (m *MemoryBackend) CreateKey(_ context.Context, name string) (ed25519.PublicKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if sk, ok := m.keys[name]; ok {
		return sk.Public().(ed25519.PublicKey), nil
	}
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	m.keys[name] = sk
	return sk.Public().(ed25519.PublicKey), nil
}

// ListKeys returns all key names in sorted order.
func (m *MemoryBackend) ListKeys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ReadKey returns the public key under name, or ErrKeyNotFound.
func (m *MemoryBackend) ReadKey(_ context.Context, name string) (ed25519.PublicKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sk, ok := m.keys[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	return sk.Public().(ed25519.PublicKey), nil
}

// Sign signs message with the key under name and wraps the signature in a
// "vault:v1:base64" envelope.
func (m *MemoryBackend) Sign(_ context.Context, name string, message []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignCalls++

	sk, ok := m.keys[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	sig := ed25519.Sign(sk, message)
	return envelopeScheme + ":v1:" + base64.StdEncoding.EncodeToString(sig), nil
}
