// Package custody maps external identities (phone numbers, social-login
// subject ids) to ed25519 keys held in a remote secrets store, and signs
// transactions with those keys without ever exposing private material.
package custody

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"slices"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// KeyRecord describes the custodial key backing one identity. Address is
// a pure function of PublicKey under Algorand's address encoding.
type KeyRecord struct {
	KeyName   string            `json:"key_name"`
	PublicKey ed25519.PublicKey `json:"public_key"`
	Address   string            `json:"address"`
}

// Service implements the identity-to-key mapping on top of a
// SecretsBackend. Mappings are created lazily on first use and never
// deleted.
type Service struct {
	backend SecretsBackend
	prefix  string

	// creating serializes first-time key creation per key name so one
	// process never races itself on create-if-absent.
	mu       sync.Mutex
	creating map[string]*sync.Mutex
}

// NewService creates a Service. prefix namespaces this application's keys
// within the backend (e.g. "algointent").
func NewService(backend SecretsBackend, prefix string) *Service {
	return &Service{
		backend:  backend,
		prefix:   prefix,
		creating: make(map[string]*sync.Mutex),
	}
}

// CreateOrGet returns the KeyRecord for identity, generating the key in
// the secrets store on first use. Idempotent: repeated calls for the same
// identity return the same record.
func (s *Service) CreateOrGet(ctx context.Context, identity string) (*KeyRecord, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	name := KeyName(s.prefix, identity)

	lock := s.creationLock(name)
	lock.Lock()
	defer lock.Unlock()

	pub, err := s.backend.CreateKey(ctx, name)
	if err != nil {
		return nil, err
	}
	return newKeyRecord(name, pub)
}

// Get returns the KeyRecord for identity, or ErrKeyNotFound if no key has
// been provisioned. Get never creates a key: existence is asserted with a
// list-keys check before the read, because some store APIs auto-create on
// first access.
func (s *Service) Get(ctx context.Context, identity string) (*KeyRecord, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	name := KeyName(s.prefix, identity)

	names, err := s.backend.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, fmt.Errorf("%w: identity %q", ErrKeyNotFound, identity)
	}

	pub, err := s.backend.ReadKey(ctx, name)
	if err != nil {
		return nil, err
	}
	return newKeyRecord(name, pub)
}

// Sign submits message to the store's signing operation scoped to the
// identity's key and returns the signature envelope. The message itself
// is the only thing transmitted; the private key stays in the store.
func (s *Service) Sign(ctx context.Context, identity string, message []byte) (string, error) {
	if identity == "" {
		return "", ErrEmptyIdentity
	}
	return s.backend.Sign(ctx, KeyName(s.prefix, identity), message)
}

// creationLock returns the per-key-name creation lock, allocating it on
// first use.
func (s *Service) creationLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.creating[name]
	if !ok {
		lock = &sync.Mutex{}
		s.creating[name] = lock
	}
	return lock
}

// newKeyRecord builds a KeyRecord, deriving the ledger address from the
// public key.
func newKeyRecord(name string, pub ed25519.PublicKey) (*KeyRecord, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPublicKey, len(pub))
	}
	var addr types.Address
	copy(addr[:], pub)
	return &KeyRecord{
		KeyName:   name,
		PublicKey: pub,
		Address:   addr.String(),
	}, nil
}
