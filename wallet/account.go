// Package wallet handles standalone account material: generation,
// 25-word mnemonic conversion, and password-based encryption of the
// private key for storage at rest.
package wallet

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
)

// Account pairs a generated keypair with its mnemonic phrase. The
// mnemonic is shown to the holder exactly once at creation time and is
// never stored.
type Account struct {
	crypto.Account

	// Mnemonic is the 25-word backup phrase for the private key.
	Mnemonic string
}

// Generate creates a fresh ed25519 account and its mnemonic phrase.
func Generate() (*Account, error) {
	account := crypto.GenerateAccount()

	phrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: mnemonic derivation failed: %w", err)
	}

	return &Account{Account: account, Mnemonic: phrase}, nil
}

// FromMnemonic recovers an account from its 25-word phrase.
func FromMnemonic(phrase string) (*Account, error) {
	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" {
		return nil, ErrInvalidMnemonic
	}

	key, err := mnemonic.ToPrivateKey(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}

	account, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return &Account{Account: account, Mnemonic: trimmed}, nil
}

// FromPrivateKey recovers an account from a raw 64-byte ed25519 key,
// typically one just decrypted from storage.
func FromPrivateKey(key ed25519.PrivateKey) (*Account, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKey
	}

	account, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	phrase, err := mnemonic.FromPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("wallet: mnemonic derivation failed: %w", err)
	}

	return &Account{Account: account, Mnemonic: phrase}, nil
}
